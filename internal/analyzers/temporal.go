package analyzers

import (
	"time"

	"bank-matching-engine/internal/models"
)

// Recurring billing and settlement cadences, in days.
var recurringPeriods = map[int]bool{7: true, 14: true, 30: true, 90: true}

// TemporalAnalyzer scores date proximity between the bank transaction and the
// candidate, with weekend and recurring-period adjustments. Positive day
// differences mean the bank posted after the ledger entry, the normal
// processing-delay direction.
type TemporalAnalyzer struct{}

// NewTemporalAnalyzer creates a temporal analyzer.
func NewTemporalAnalyzer() *TemporalAnalyzer {
	return &TemporalAnalyzer{}
}

// Layer implements Analyzer.
func (ta *TemporalAnalyzer) Layer() Layer {
	return LayerTemporal
}

// Analyze implements Analyzer.
func (ta *TemporalAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	if !tx.DateValid || !cand.DateValid {
		analysis.AddFactor("date_parsing_error")
		analysis.SetDetail("match_type", "parse_failure")
		return analysis
	}

	diff := daysBetween(tx.Date, cand.Date)
	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	analysis.SetDetail("day_difference", diff)

	switch {
	case absDiff == 0:
		analysis.Score = 1.00
		analysis.AddFactor("exact_date_match")
	case absDiff == 1:
		analysis.Score = 0.90
		analysis.AddFactor("next_day_match")
	case absDiff <= 3:
		analysis.Score = 0.70
		analysis.AddFactor("within_three_days")
	case absDiff <= 7:
		analysis.Score = 0.50
		analysis.AddFactor("within_one_week")
	case absDiff <= 15:
		analysis.Score = 0.30
		analysis.AddFactor("within_two_weeks")
	case absDiff <= 30:
		analysis.Score = 0.10
		analysis.AddFactor("within_one_month")
	default:
		analysis.AddFactor("distant_date_mismatch")
		return analysis
	}

	// Weekend handling: settlements initiated around weekends commonly post
	// a few days late.
	if isWeekend(tx.Date) || isWeekend(cand.Date) {
		analysis.AddFactor("weekend_involved")
		if absDiff <= 3 {
			analysis.Score += 0.10
			analysis.AddFactor("weekend_processing_delay")
		}
	}

	// Direction-aware processing-delay adjustments.
	if diff > 0 && absDiff <= 3 {
		analysis.Score += 0.05
		analysis.AddFactor("normal_processing_delay")
	} else if diff < 0 && absDiff <= 7 {
		analysis.Score += 0.02
		analysis.AddFactor("advance_payment_pattern")
	}

	if recurringPeriods[absDiff] {
		analysis.Score += 0.05
		analysis.AddFactor("recurring_pattern_detected")
	}

	return analysis.clamp()
}

// daysBetween returns the signed whole-day difference a-b. Both dates are
// normalized to midnight UTC by the model constructors.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(au.Sub(bu).Hours() / 24)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
