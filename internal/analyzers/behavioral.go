package analyzers

import (
	"bank-matching-engine/internal/models"
)

// Transaction-type tags compatible with each direction of money movement.
var (
	creditTypes = map[string]bool{"sales": true, "income": true, "receipt": true, "revenue": true}
	debitTypes  = map[string]bool{"purchase": true, "expense": true, "payment": true, "cost": true}

	refundTypes   = map[string]bool{"purchase": true, "expense": true}
	reversalTypes = map[string]bool{"sales": true, "income": true}
)

// HistoryProvider supplies recurring-cadence evidence from previously
// reconciled transactions. Implementations may be a no-op returning zero; the
// analyzer works without one.
type HistoryProvider interface {
	// FrequencyScore returns a bonus in [0,1] reflecting how strongly the
	// pair fits a recurring cadence seen in past reconciliations.
	FrequencyScore(tx *models.BankTransaction, cand *models.LedgerCandidate) float64
}

// BehavioralAnalyzer compares the transaction direction (credit/debit)
// against the candidate's transaction-type category.
type BehavioralAnalyzer struct {
	history HistoryProvider
}

// NewBehavioralAnalyzer creates a behavioral analyzer. history may be nil.
func NewBehavioralAnalyzer(history HistoryProvider) *BehavioralAnalyzer {
	return &BehavioralAnalyzer{history: history}
}

// Layer implements Analyzer.
func (ba *BehavioralAnalyzer) Layer() Layer {
	return LayerBehavioral
}

// Analyze implements Analyzer.
func (ba *BehavioralAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	txType := cand.TransactionType
	isCredit := tx.AmountValid && tx.IsCredit()
	isDebit := tx.AmountValid && tx.IsDebit()

	switch {
	case isCredit && creditTypes[txType]:
		analysis.Score = 1.0
		analysis.AddFactor("perfect_transaction_type_match")
	case isDebit && debitTypes[txType]:
		analysis.Score = 1.0
		analysis.AddFactor("perfect_transaction_type_match")
	case isCredit && refundTypes[txType]:
		analysis.Score = 0.2
		analysis.AddFactor("possible_refund_scenario")
	case isDebit && reversalTypes[txType]:
		analysis.Score = 0.2
		analysis.AddFactor("possible_reversal_scenario")
	default:
		analysis.Score = 0.5
		analysis.AddFactor("neutral_transaction_type")
	}

	analysis.SetDetail("transaction_type", txType)
	analysis.SetDetail("direction", string(tx.Direction()))

	if ba.history != nil {
		if bonus := ba.history.FrequencyScore(tx, cand); bonus > 0 {
			analysis.Score += bonus
			analysis.AddFactor("frequency_pattern_match")
		}
	}

	return analysis.clamp()
}
