package analyzers

import (
	"bank-matching-engine/internal/models"

	"github.com/shopspring/decimal"
)

// Thresholds for the amount score ladder. Absolute thresholds are in currency
// units, percentage thresholds are fractions of the transaction amount.
var (
	absPerfect  = decimal.NewFromFloat(0.001)
	absSubCent  = decimal.NewFromFloat(0.01)
	pctExact    = decimal.NewFromFloat(0.001)
	pctClose    = decimal.NewFromFloat(0.01)
	pctNear     = decimal.NewFromFloat(0.05)
	pctLoose    = decimal.NewFromFloat(0.10)
	largeAmount = decimal.NewFromInt(100000)
	smallAmount = decimal.NewFromInt(10000)
	oneUnit     = decimal.NewFromInt(1)

	// Differences produced by common rounding conventions.
	commonRoundings = []decimal.Decimal{
		decimal.NewFromFloat(0.01),
		decimal.NewFromFloat(0.02),
		decimal.NewFromFloat(0.05),
		decimal.NewFromFloat(0.10),
		decimal.NewFromFloat(0.50),
	}
)

// AmountAnalyzer scores numeric closeness between the bank amount and the
// candidate ledger amount, with rounding-pattern and transaction-size
// adjustments. Signs are ignored: direction compatibility is the behavioral
// layer's job.
type AmountAnalyzer struct{}

// NewAmountAnalyzer creates an amount analyzer.
func NewAmountAnalyzer() *AmountAnalyzer {
	return &AmountAnalyzer{}
}

// Layer implements Analyzer.
func (aa *AmountAnalyzer) Layer() Layer {
	return LayerAmount
}

// Analyze implements Analyzer.
func (aa *AmountAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	if !tx.AmountValid || !cand.AmountValid {
		analysis.AddFactor("amount_parsing_error")
		analysis.SetDetail("match_type", "parse_failure")
		return analysis
	}

	txAmount := tx.Amount.Abs()
	candAmount := cand.Amount.Abs()
	diff := txAmount.Sub(candAmount).Abs()

	var pct decimal.Decimal
	hasPct := !txAmount.IsZero()
	if hasPct {
		pct = diff.Div(txAmount)
	}

	analysis.SetDetail("amount_difference", diff.String())
	if hasPct {
		analysis.SetDetail("percentage_difference", pct.String())
	}

	// Base score ladder: highest matching rung wins, non-cumulative.
	switch {
	case diff.LessThan(absPerfect):
		analysis.Score = 1.00
		analysis.AddFactor("perfect_amount_precision")
		analysis.SetDetail("match_type", "exact")
	case diff.LessThan(absSubCent):
		analysis.Score = 0.95
		analysis.AddFactor("sub_cent_amount_difference")
		analysis.SetDetail("match_type", "near_exact")
	case hasPct && pct.LessThanOrEqual(pctExact):
		analysis.Score = 0.90
		analysis.AddFactor("amount_within_tenth_percent")
		analysis.SetDetail("match_type", "percentage")
	case hasPct && pct.LessThanOrEqual(pctClose):
		analysis.Score = 0.80
		analysis.AddFactor("amount_within_one_percent")
		analysis.SetDetail("match_type", "percentage")
	case hasPct && pct.LessThanOrEqual(pctNear):
		analysis.Score = 0.60
		analysis.AddFactor("amount_within_five_percent")
		analysis.SetDetail("match_type", "percentage")
	case hasPct && pct.LessThanOrEqual(pctLoose):
		analysis.Score = 0.30
		analysis.AddFactor("amount_within_ten_percent")
		analysis.SetDetail("match_type", "percentage")
	default:
		analysis.AddFactor("significant_amount_mismatch")
		analysis.SetDetail("match_type", "mismatch")
		return analysis
	}

	// Rounding-pattern adjustments. A zero difference is a precision match,
	// not a rounding artifact, so the whole-number bonus requires diff > 0.
	if diff.IsPositive() && diff.IsInteger() {
		analysis.Score += 0.10
		analysis.AddFactor("rounding_pattern_detected")
	} else if isCommonRounding(diff) {
		analysis.Score += 0.05
		analysis.AddFactor("common_rounding_detected")
	}

	// Size-context bonuses: precision matters more at scale, small amounts
	// earn proximity credit.
	if txAmount.GreaterThan(largeAmount) && hasPct && pct.LessThanOrEqual(pctExact) {
		analysis.Score += 0.05
		analysis.AddFactor("large_amount_precision")
	} else if txAmount.LessThanOrEqual(smallAmount) && diff.LessThanOrEqual(oneUnit) {
		analysis.Score += 0.10
		analysis.AddFactor("small_amount_proximity")
	}

	return analysis.clamp()
}

func isCommonRounding(diff decimal.Decimal) bool {
	for _, r := range commonRoundings {
		if diff.Equal(r) {
			return true
		}
	}
	return false
}
