package matcher

import (
	"sort"

	"bank-matching-engine/internal/analyzers"
	"bank-matching-engine/internal/models"
	"bank-matching-engine/internal/scoring"
	"bank-matching-engine/pkg/errors"
	"bank-matching-engine/pkg/logger"
)

// MatchingEngine is the core engine responsible for scoring ledger
// candidates against bank transactions.
type MatchingEngine struct {
	config     *MatchingConfig
	analyzers  []analyzers.Analyzer
	aggregator *scoring.Aggregator
	logger     logger.Logger
}

// MatchResult represents one scored (transaction, candidate) pairing, the
// engine's unit of output.
type MatchResult struct {
	// Candidate is the scored ledger entry.
	Candidate *models.LedgerCandidate `json:"candidate"`

	// Confidence is the final risk-adjusted composite score in [0,1].
	Confidence float64 `json:"confidence"`

	// RawConfidence is the aggregated confidence before the risk discount;
	// it is the base for the match-quality rank.
	RawConfidence float64 `json:"raw_confidence"`

	// LayerScores maps each of the seven layers to its raw score.
	LayerScores map[analyzers.Layer]float64 `json:"layer_scores"`

	// Analyses carries the full per-layer diagnostics (factors, details).
	Analyses map[analyzers.Layer]*analyzers.Analysis `json:"analyses,omitempty"`

	// Risk is the inter-layer conflict assessment.
	Risk scoring.RiskAssessment `json:"risk_assessment"`

	// Category is the discrete match-quality tier on discounted confidence.
	Category scoring.Category `json:"categorization"`

	// MatchQuality is the 0-100 integer ranking score.
	MatchQuality int `json:"match_quality"`
}

// Factors flattens the factor tags of all layers, preserving canonical layer
// order.
func (mr *MatchResult) Factors() []string {
	var factors []string
	for _, layer := range analyzers.AllLayers() {
		if analysis, ok := mr.Analyses[layer]; ok {
			factors = append(factors, analysis.Factors...)
		}
	}
	return factors
}

// NewMatchingEngine creates a matching engine with the specified
// configuration and no optional collaborators. A nil config selects the
// defaults.
func NewMatchingEngine(config *MatchingConfig) *MatchingEngine {
	return NewMatchingEngineWithProviders(config, nil, nil)
}

// NewMatchingEngineWithProviders creates a matching engine with optional
// history and business-context collaborators wired into the behavioral and
// contextual layers. Either provider may be nil.
func NewMatchingEngineWithProviders(config *MatchingConfig, history analyzers.HistoryProvider, context analyzers.ContextProvider) *MatchingEngine {
	if config == nil {
		config = DefaultMatchingConfig()
	}

	return &MatchingEngine{
		config: config,
		analyzers: []analyzers.Analyzer{
			analyzers.NewAmountAnalyzer(),
			analyzers.NewTemporalAnalyzer(),
			analyzers.NewReferenceAnalyzer(),
			analyzers.NewPartyAnalyzer(),
			analyzers.NewSemanticAnalyzer(),
			analyzers.NewBehavioralAnalyzer(history),
			analyzers.NewContextualAnalyzer(context),
		},
		aggregator: scoring.NewAggregator(config.Weights),
		logger:     logger.GetGlobalLogger().WithComponent("matching_engine"),
	}
}

// FindMatches scores every candidate against the transaction and returns the
// qualifying pairings sorted by descending (confidence, match quality).
//
// The function is pure and idempotent: identical input yields identical
// output, independent of candidate order (ties beyond match quality break on
// candidate ID). Neither the transaction nor the candidates are mutated.
// Malformed per-field data never fails the call; it surfaces as zero layer
// scores with diagnostic factors. Only caller misuse (nil transaction) is an
// error.
func (me *MatchingEngine) FindMatches(tx *models.BankTransaction, candidates []*models.LedgerCandidate) ([]*MatchResult, error) {
	if tx == nil {
		return nil, errors.ValidationError(errors.CodeMissingField, "transaction", nil, nil).
			WithSuggestion("provide a non-nil bank transaction")
	}

	results := make([]*MatchResult, 0, len(candidates))
	for _, cand := range candidates {
		if cand == nil {
			continue
		}

		result := me.scoreCandidate(tx, cand)
		if result.Confidence > me.config.MinConfidence {
			results = append(results, result)
		}
	}

	sortMatchResults(results)

	if me.config.MaxResults > 0 && len(results) > me.config.MaxResults {
		results = results[:me.config.MaxResults]
	}

	me.logger.WithFields(logger.Fields{
		"transaction_id": tx.ID,
		"candidates":     len(candidates),
		"qualified":      len(results),
	}).Debug("candidate scan completed")

	return results, nil
}

// scoreCandidate runs all seven layers for one pair, aggregates, assesses
// risk, and categorizes.
func (me *MatchingEngine) scoreCandidate(tx *models.BankTransaction, cand *models.LedgerCandidate) *MatchResult {
	layerScores := make(map[analyzers.Layer]float64, len(me.analyzers))
	analyses := make(map[analyzers.Layer]*analyzers.Analysis, len(me.analyzers))

	for _, analyzer := range me.analyzers {
		analysis := analyzer.Analyze(tx, cand)
		layerScores[analyzer.Layer()] = analysis.Score
		analyses[analyzer.Layer()] = analysis
	}

	rawConfidence := me.aggregator.Aggregate(layerScores)
	risk := scoring.AssessRisk(layerScores)
	confidence := rawConfidence * risk.Discount()

	return &MatchResult{
		Candidate:     cand,
		Confidence:    confidence,
		RawConfidence: rawConfidence,
		LayerScores:   layerScores,
		Analyses:      analyses,
		Risk:          risk,
		Category:      scoring.Categorize(confidence),
		MatchQuality:  scoring.MatchQuality(rawConfidence, risk.Level),
	}
}

// sortMatchResults orders results descending by (confidence, match quality),
// with candidate ID as the final tie-break so the ordering is a stable total
// order independent of input order.
func sortMatchResults(results []*MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		if results[i].MatchQuality != results[j].MatchQuality {
			return results[i].MatchQuality > results[j].MatchQuality
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})
}

// GetConfiguration returns a copy of the current configuration.
func (me *MatchingEngine) GetConfiguration() *MatchingConfig {
	return me.config.Clone()
}
