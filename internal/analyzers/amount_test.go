package analyzers

import (
	"testing"
)

func TestAmountAnalyzerLadder(t *testing.T) {
	analyzer := NewAmountAnalyzer()

	tests := []struct {
		name       string
		txAmount   string
		candAmount string
		wantScore  float64
		wantFactor string
	}{
		{
			name:       "exact match scores exactly one",
			txAmount:   "50000",
			candAmount: "50000",
			wantScore:  1.00,
			wantFactor: "perfect_amount_precision",
		},
		{
			name:       "sub cent difference",
			txAmount:   "50000.005",
			candAmount: "50000",
			wantScore:  0.95,
			wantFactor: "sub_cent_amount_difference",
		},
		{
			name:       "within one percent",
			txAmount:   "50000",
			candAmount: "49600.50",
			wantScore:  0.80,
			wantFactor: "amount_within_one_percent",
		},
		{
			name:       "within five percent",
			txAmount:   "50000",
			candAmount: "48000.25",
			wantScore:  0.60,
			wantFactor: "amount_within_five_percent",
		},
		{
			name:       "within ten percent",
			txAmount:   "50000",
			candAmount: "45500.25",
			wantScore:  0.30,
			wantFactor: "amount_within_ten_percent",
		},
		{
			name:       "significant mismatch scores zero",
			txAmount:   "50000",
			candAmount: "30000",
			wantScore:  0.00,
			wantFactor: "significant_amount_mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := testTx(t, tt.txAmount, "2024-03-06", "payment", "")
			cand := testCand(t, tt.candAmount, "2024-03-06", "entry", "", "", "sales")

			analysis := analyzer.Analyze(tx, cand)
			assertScore(t, analysis, tt.wantScore)
			assertFactor(t, analysis, tt.wantFactor)
			assertScoreBounds(t, analysis)
		})
	}
}

func TestAmountAnalyzerRoundingBonus(t *testing.T) {
	analyzer := NewAmountAnalyzer()

	// Whole-unit difference on an otherwise tight match.
	tx := testTx(t, "50000", "2024-03-06", "payment", "")
	cand := testCand(t, "49999", "2024-03-06", "entry", "", "", "sales")
	analysis := analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "rounding_pattern_detected")
	assertScore(t, analysis, 1.0) // 0.90 base + 0.10 bonus

	// Common rounding difference of 0.05.
	cand = testCand(t, "49999.95", "2024-03-06", "entry", "", "", "sales")
	analysis = analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "common_rounding_detected")
	assertScore(t, analysis, 0.95) // 0.90 base + 0.05 bonus
}

func TestAmountAnalyzerExactMatchGetsNoRoundingBonus(t *testing.T) {
	analyzer := NewAmountAnalyzer()
	tx := testTx(t, "50000", "2024-03-06", "payment", "")
	cand := testCand(t, "50000", "2024-03-06", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	if analysis.HasFactor("rounding_pattern_detected") {
		t.Error("zero difference must not count as a rounding pattern")
	}
	assertScore(t, analysis, 1.0)
}

func TestAmountAnalyzerSizeBonuses(t *testing.T) {
	analyzer := NewAmountAnalyzer()

	// Large amount with tight precision.
	tx := testTx(t, "200000", "2024-03-06", "payment", "")
	cand := testCand(t, "199999.70", "2024-03-06", "entry", "", "", "sales")
	analysis := analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "large_amount_precision")
	assertScore(t, analysis, 0.95) // 0.90 base + 0.05 size bonus

	// Small amount within one unit.
	tx = testTx(t, "500", "2024-03-06", "payment", "")
	cand = testCand(t, "500.50", "2024-03-06", "entry", "", "", "sales")
	analysis = analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "small_amount_proximity")
	assertScoreBounds(t, analysis)
}

func TestAmountAnalyzerIgnoresSign(t *testing.T) {
	analyzer := NewAmountAnalyzer()
	tx := testTx(t, "-1500.00", "2024-03-06", "debit payment", "")
	cand := testCand(t, "1500.00", "2024-03-06", "expense entry", "", "", "expense")

	analysis := analyzer.Analyze(tx, cand)
	assertScore(t, analysis, 1.0)
	assertFactor(t, analysis, "perfect_amount_precision")
}

func TestAmountAnalyzerParseFailure(t *testing.T) {
	analyzer := NewAmountAnalyzer()
	tx := testTx(t, "not-a-number", "2024-03-06", "payment", "")
	cand := testCand(t, "1000", "2024-03-06", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	assertScore(t, analysis, 0)
	assertFactor(t, analysis, "amount_parsing_error")
}
