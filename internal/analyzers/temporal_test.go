package analyzers

import (
	"testing"
)

// All weekday-only fixtures below use March 2024: the 6th is a Wednesday,
// the 2nd/3rd are the weekend.

func TestTemporalAnalyzerLadder(t *testing.T) {
	analyzer := NewTemporalAnalyzer()

	tests := []struct {
		name       string
		txDate     string
		candDate   string
		wantScore  float64
		wantFactor string
	}{
		{
			name:       "same day",
			txDate:     "2024-03-06",
			candDate:   "2024-03-06",
			wantScore:  1.00,
			wantFactor: "exact_date_match",
		},
		{
			name:       "next day with processing delay bonus",
			txDate:     "2024-03-07",
			candDate:   "2024-03-06",
			wantScore:  0.95, // 0.90 + 0.05 delay bonus
			wantFactor: "next_day_match",
		},
		{
			name:       "five days apart",
			txDate:     "2024-03-11",
			candDate:   "2024-03-06",
			wantScore:  0.50,
			wantFactor: "within_one_week",
		},
		{
			name:       "ten days apart",
			txDate:     "2024-03-18",
			candDate:   "2024-03-08",
			wantScore:  0.30,
			wantFactor: "within_two_weeks",
		},
		{
			name:       "twenty days apart",
			txDate:     "2024-03-26",
			candDate:   "2024-03-06",
			wantScore:  0.10,
			wantFactor: "within_one_month",
		},
		{
			name:       "distant dates score zero",
			txDate:     "2024-04-25",
			candDate:   "2024-03-06",
			wantScore:  0.00,
			wantFactor: "distant_date_mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := testTx(t, "1000", tt.txDate, "payment", "")
			cand := testCand(t, "1000", tt.candDate, "entry", "", "", "sales")

			analysis := analyzer.Analyze(tx, cand)
			assertScore(t, analysis, tt.wantScore)
			assertFactor(t, analysis, tt.wantFactor)
			assertScoreBounds(t, analysis)
		})
	}
}

func TestTemporalAnalyzerWeekendDelay(t *testing.T) {
	analyzer := NewTemporalAnalyzer()

	// Ledger entry on Saturday, bank posts Monday: weekend bonus plus the
	// normal processing-delay bonus on top of the three-day rung.
	tx := testTx(t, "1000", "2024-03-04", "payment", "")
	cand := testCand(t, "1000", "2024-03-02", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "weekend_involved")
	assertFactor(t, analysis, "weekend_processing_delay")
	assertFactor(t, analysis, "normal_processing_delay")
	assertScore(t, analysis, 0.85) // 0.70 + 0.10 + 0.05
}

func TestTemporalAnalyzerAdvancePayment(t *testing.T) {
	analyzer := NewTemporalAnalyzer()

	// Bank posts before the ledger date.
	tx := testTx(t, "1000", "2024-03-04", "payment", "")
	cand := testCand(t, "1000", "2024-03-08", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "advance_payment_pattern")
	assertScore(t, analysis, 0.52) // 0.50 + 0.02
}

func TestTemporalAnalyzerRecurringPeriod(t *testing.T) {
	analyzer := NewTemporalAnalyzer()

	// Exactly seven days apart matches a weekly cadence.
	tx := testTx(t, "1000", "2024-03-13", "payment", "")
	cand := testCand(t, "1000", "2024-03-06", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	assertFactor(t, analysis, "recurring_pattern_detected")
	assertScore(t, analysis, 0.55) // 0.50 + 0.05
}

func TestTemporalAnalyzerParseFailure(t *testing.T) {
	analyzer := NewTemporalAnalyzer()

	tx := testTx(t, "1000", "garbage-date", "payment", "")
	cand := testCand(t, "1000", "2024-03-06", "entry", "", "", "sales")

	analysis := analyzer.Analyze(tx, cand)
	assertScore(t, analysis, 0)
	assertFactor(t, analysis, "date_parsing_error")
}
