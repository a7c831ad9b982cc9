// Package recon runs the end-to-end reconciliation flow: load both CSV
// inputs, score every transaction against the candidate pool, and bucket the
// outcomes by disposition.
package recon

import (
	"context"
	"fmt"
	"time"

	"bank-matching-engine/internal/matcher"
	"bank-matching-engine/internal/models"
	"bank-matching-engine/internal/parsers"
	"bank-matching-engine/internal/scoring"
	"bank-matching-engine/pkg/errors"
	"bank-matching-engine/pkg/logger"

	"github.com/shopspring/decimal"
)

// StatusSink receives outcomes as they are produced. Implementations must
// not retain the slice headers past the call.
type StatusSink interface {
	OutcomeRecorded(outcome *TransactionOutcome)
}

// Config holds options for the reconciliation service.
type Config struct {
	// ProgressReporting enables periodic progress log lines for long runs.
	ProgressReporting bool

	// ProgressInterval throttles progress logging. Zero means the
	// tracker's default.
	ProgressInterval time.Duration
}

// DefaultConfig returns the standard service configuration.
func DefaultConfig() *Config {
	return &Config{
		ProgressReporting: false,
	}
}

// Request names the two input files for a run. Parser configs may be nil,
// which selects the defaults.
type Request struct {
	TransactionsFile string
	CandidatesFile   string

	TransactionConfig *parsers.TransactionParserConfig
	CandidateConfig   *parsers.CandidateParserConfig
}

// Validate checks the request for required fields.
func (r *Request) Validate() error {
	if r.TransactionsFile == "" {
		return fmt.Errorf("transactions file path is required")
	}
	if r.CandidatesFile == "" {
		return fmt.Errorf("candidates file path is required")
	}
	return nil
}

// Service wires the parsers and the matching engine together.
type Service struct {
	engine *matcher.MatchingEngine
	config *Config
	sink   StatusSink
	logger logger.Logger
}

// NewService creates a reconciliation service. matchingConfig and config may
// be nil for defaults; sink may be nil when no streaming consumer exists.
func NewService(matchingConfig *matcher.MatchingConfig, config *Config, sink StatusSink) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		engine: matcher.NewMatchingEngine(matchingConfig),
		config: config,
		sink:   sink,
		logger: logger.WithComponent("recon_service"),
	}, nil
}

// Run loads both files and reconciles every transaction against the full
// candidate pool. The context is consulted between transactions so a large
// run can be cancelled.
func (s *Service) Run(ctx context.Context, request *Request) (*Result, error) {
	if err := request.Validate(); err != nil {
		return nil, errors.ValidationError(errors.CodeMissingField, "request", request, err)
	}

	txParser, err := parsers.NewTransactionParser(request.TransactionConfig)
	if err != nil {
		return nil, err
	}
	candParser, err := parsers.NewCandidateParser(request.CandidateConfig)
	if err != nil {
		return nil, err
	}

	transactions, txStats, err := txParser.ParseFile(request.TransactionsFile)
	if err != nil {
		return nil, err
	}
	candidates, candStats, err := candParser.ParseFile(request.CandidatesFile)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logger.Fields{
		"transactions":       len(transactions),
		"candidates":         len(candidates),
		"transaction_errors": len(txStats.Errors),
		"candidate_errors":   len(candStats.Errors),
		"invalid_field_rows": txStats.InvalidFields + candStats.InvalidFields,
	}).Info("inputs loaded")

	return s.Reconcile(ctx, transactions, candidates)
}

// Reconcile scores each transaction against all candidates and buckets the
// outcomes. Inputs may come from any source, not just the CSV parsers.
func (s *Service) Reconcile(
	ctx context.Context,
	transactions []*models.BankTransaction,
	candidates []*models.LedgerCandidate,
) (*Result, error) {

	start := time.Now()
	summary := &Summary{
		TotalTransactions:      len(transactions),
		TotalCandidates:        len(candidates),
		CategoryCounts:         make(map[scoring.Category]int),
		TotalTransactionAmount: decimal.Zero,
		MatchedAmount:          decimal.Zero,
	}
	result := &Result{
		Summary:     summary,
		Outcomes:    make([]*TransactionOutcome, 0, len(transactions)),
		ProcessedAt: start,
	}

	var progress *logger.ProgressTracker
	if s.config.ProgressReporting {
		progress = logger.NewProgressTracker(
			"reconciliation", int64(len(transactions)), s.config.ProgressInterval, s.logger)
	}

	for _, tx := range transactions {
		select {
		case <-ctx.Done():
			return nil, errors.MatchingError(errors.CodeProcessingError, "reconciliation cancelled", ctx.Err())
		default:
		}
		if tx == nil {
			continue
		}

		matches, err := s.engine.FindMatches(tx, candidates)
		if err != nil {
			return nil, err
		}

		outcome := &TransactionOutcome{
			Transaction: tx,
			Matches:     matches,
			Disposition: dispositionFor(firstMatch(matches)),
		}
		s.record(summary, outcome)
		result.Outcomes = append(result.Outcomes, outcome)

		if s.sink != nil {
			s.sink.OutcomeRecorded(outcome)
		}
		if progress != nil {
			progress.Increment()
		}
	}

	if progress != nil {
		progress.Complete()
	}
	summary.ProcessingDuration = time.Since(start)

	s.logger.WithFields(logger.Fields{
		"matched":  summary.Matched,
		"review":   summary.NeedsReview,
		"manual":   summary.NeedsManualCheck,
		"duration": summary.ProcessingDuration.String(),
	}).Info("reconciliation completed")

	return result, nil
}

func firstMatch(matches []*matcher.MatchResult) *matcher.MatchResult {
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// record folds one outcome into the running summary.
func (s *Service) record(summary *Summary, outcome *TransactionOutcome) {
	if outcome.Transaction.AmountValid {
		summary.TotalTransactionAmount = summary.TotalTransactionAmount.Add(outcome.Transaction.Amount.Abs())
	}

	switch outcome.Disposition {
	case DispositionMatched:
		summary.Matched++
		if outcome.Transaction.AmountValid {
			summary.MatchedAmount = summary.MatchedAmount.Add(outcome.Transaction.Amount.Abs())
		}
	case DispositionReview:
		summary.NeedsReview++
	default:
		summary.NeedsManualCheck++
	}

	if best := outcome.Best(); best != nil {
		summary.CategoryCounts[best.Category]++
	}
}
