package analyzers

import (
	"bank-matching-engine/internal/models"
)

// contextualBaseline is the neutral score emitted when no business-context
// collaborator is wired in.
const contextualBaseline = 0.5

// ContextProvider supplies compliance-pattern and geographic-context signals
// for a pair. Implementations may be a no-op; the analyzer returns its
// neutral baseline without one.
type ContextProvider interface {
	// Evaluate returns an additive adjustment to the contextual baseline and
	// the factor tags explaining it.
	Evaluate(tx *models.BankTransaction, cand *models.LedgerCandidate) (adjustment float64, factors []string)
}

// ContextualAnalyzer applies compliance and geographic heuristics as a
// residual scoring layer. Without a ContextProvider it returns the neutral
// baseline with no factors; the layer carries only 10% aggregate weight and
// is explicitly allowed to be a low-fidelity placeholder.
type ContextualAnalyzer struct {
	provider ContextProvider
}

// NewContextualAnalyzer creates a contextual analyzer. provider may be nil.
func NewContextualAnalyzer(provider ContextProvider) *ContextualAnalyzer {
	return &ContextualAnalyzer{provider: provider}
}

// Layer implements Analyzer.
func (ca *ContextualAnalyzer) Layer() Layer {
	return LayerContextual
}

// Analyze implements Analyzer.
func (ca *ContextualAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()
	analysis.Score = contextualBaseline

	if ca.provider != nil {
		adjustment, factors := ca.provider.Evaluate(tx, cand)
		analysis.Score += adjustment
		for _, f := range factors {
			analysis.AddFactor(f)
		}
	}

	return analysis.clamp()
}
