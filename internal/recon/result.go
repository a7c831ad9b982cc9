package recon

import (
	"time"

	"bank-matching-engine/internal/matcher"
	"bank-matching-engine/internal/models"
	"bank-matching-engine/internal/scoring"

	"github.com/shopspring/decimal"
)

// Disposition states what happens to a transaction after matching.
type Disposition string

const (
	// DispositionMatched means the best candidate scored high enough to
	// auto-accept (DARK_GREEN or GREEN).
	DispositionMatched Disposition = "matched"

	// DispositionReview means candidates qualified but none cleared the
	// auto-accept bar (best is YELLOW or ORANGE).
	DispositionReview Disposition = "review"

	// DispositionManual means no candidate cleared the confidence
	// threshold at all.
	DispositionManual Disposition = "manual"
)

// dispositionFor maps the best match's category to a disposition.
func dispositionFor(best *matcher.MatchResult) Disposition {
	if best == nil {
		return DispositionManual
	}
	switch best.Category {
	case scoring.CategoryDarkGreen, scoring.CategoryGreen:
		return DispositionMatched
	default:
		return DispositionReview
	}
}

// TransactionOutcome holds the matching outcome for one bank transaction.
type TransactionOutcome struct {
	Transaction *models.BankTransaction `json:"transaction"`
	Disposition Disposition             `json:"disposition"`

	// Matches are ordered best first. Empty for manual dispositions.
	Matches []*matcher.MatchResult `json:"matches,omitempty"`
}

// Best returns the top-ranked match, or nil when none qualified.
func (o *TransactionOutcome) Best() *matcher.MatchResult {
	if len(o.Matches) == 0 {
		return nil
	}
	return o.Matches[0]
}

// Summary aggregates counts and amounts across a run.
type Summary struct {
	TotalTransactions int `json:"total_transactions"`
	TotalCandidates   int `json:"total_candidates"`

	Matched          int `json:"matched"`
	NeedsReview      int `json:"needs_review"`
	NeedsManualCheck int `json:"needs_manual_check"`

	// CategoryCounts tallies the best-match category per transaction.
	CategoryCounts map[scoring.Category]int `json:"category_counts"`

	TotalTransactionAmount decimal.Decimal `json:"total_transaction_amount"`
	MatchedAmount          decimal.Decimal `json:"matched_amount"`

	ProcessingDuration time.Duration `json:"processing_duration"`
}

// MatchRate returns the fraction of transactions auto-matched, in [0,1].
func (s *Summary) MatchRate() float64 {
	if s.TotalTransactions == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.TotalTransactions)
}

// Result is the complete output of a reconciliation run.
type Result struct {
	Summary     *Summary              `json:"summary"`
	Outcomes    []*TransactionOutcome `json:"outcomes"`
	ProcessedAt time.Time             `json:"processed_at"`
}
