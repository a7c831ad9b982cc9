package recon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bank-matching-engine/internal/models"
)

func testTransactions(t *testing.T) []*models.BankTransaction {
	t.Helper()
	return []*models.BankTransaction{
		// Strong match for C1.
		models.NewBankTransactionFromStrings("TX1", "2024-03-06", "NEFT INV-2024-001 ACME CORP payment", "50000", ""),
		// Moderate match for C2.
		models.NewBankTransactionFromStrings("TX2", "2024-03-18", "payment globex corp", "12000", ""),
		// Matches nothing.
		models.NewBankTransactionFromStrings("TX3", "2024-05-06", "atm cash withdrawal", "-200", ""),
	}
}

func testCandidates(t *testing.T) []*models.LedgerCandidate {
	t.Helper()
	return []*models.LedgerCandidate{
		models.NewLedgerCandidateFromStrings("C1", "2024-03-06", "50000", "acme invoice payment", "ACME Corp", "INV-2024-001", "", "sales"),
		models.NewLedgerCandidateFromStrings("C2", "2024-03-08", "11900.50", "globex entry", "Globex Corp", "INV-88", "", "sales"),
	}
}

type recordingSink struct {
	outcomes []*TransactionOutcome
}

func (r *recordingSink) OutcomeRecorded(outcome *TransactionOutcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestReconcileDispositions(t *testing.T) {
	service, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	result, err := service.Reconcile(context.Background(), testTransactions(t), testCandidates(t))
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(result.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(result.Outcomes))
	}

	byID := make(map[string]*TransactionOutcome)
	for _, o := range result.Outcomes {
		byID[o.Transaction.ID] = o
	}

	if d := byID["TX1"].Disposition; d != DispositionMatched {
		t.Errorf("TX1 disposition = %s, want matched (best %+v)", d, byID["TX1"].Best())
	}
	if d := byID["TX2"].Disposition; d != DispositionReview {
		t.Errorf("TX2 disposition = %s, want review", d)
	}
	if d := byID["TX3"].Disposition; d != DispositionManual {
		t.Errorf("TX3 disposition = %s, want manual", d)
	}

	s := result.Summary
	if s.TotalTransactions != 3 || s.TotalCandidates != 2 {
		t.Errorf("summary counts wrong: %+v", s)
	}
	if s.Matched != 1 || s.NeedsReview != 1 || s.NeedsManualCheck != 1 {
		t.Errorf("disposition counts = %d/%d/%d, want 1/1/1", s.Matched, s.NeedsReview, s.NeedsManualCheck)
	}
	if rate := s.MatchRate(); rate < 0.33 || rate > 0.34 {
		t.Errorf("MatchRate = %v, want ~1/3", rate)
	}
	if !s.MatchedAmount.Equal(byID["TX1"].Transaction.Amount) {
		t.Errorf("MatchedAmount = %s, want TX1's amount", s.MatchedAmount)
	}
}

func TestReconcileStatusSink(t *testing.T) {
	sink := &recordingSink{}
	service, err := NewService(nil, nil, sink)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if _, err := service.Reconcile(context.Background(), testTransactions(t), testCandidates(t)); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(sink.outcomes) != 3 {
		t.Errorf("sink received %d outcomes, want 3", len(sink.outcomes))
	}
}

func TestReconcileCancellation(t *testing.T) {
	service, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.Reconcile(ctx, testTransactions(t), testCandidates(t)); err == nil {
		t.Error("cancelled context must abort the run")
	}
}

func TestReconcileSkipsNilTransactions(t *testing.T) {
	service, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	txs := append([]*models.BankTransaction{nil}, testTransactions(t)...)
	result, err := service.Reconcile(context.Background(), txs, testCandidates(t))
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(result.Outcomes) != 3 {
		t.Errorf("nil transactions should be skipped, got %d outcomes", len(result.Outcomes))
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	txPath := filepath.Join(dir, "transactions.csv")
	txContent := `id,date,description,amount,reference
TX1,2024-03-06,NEFT INV-2024-001 ACME CORP payment,50000,INV-2024-001
`
	if err := os.WriteFile(txPath, []byte(txContent), 0644); err != nil {
		t.Fatal(err)
	}

	candPath := filepath.Join(dir, "candidates.csv")
	candContent := `id,date,amount,description,party_name,invoice_number,reference,transaction_type
C1,2024-03-06,50000,acme invoice payment,ACME Corp,INV-2024-001,,sales
`
	if err := os.WriteFile(candPath, []byte(candContent), 0644); err != nil {
		t.Fatal(err)
	}

	service, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	result, err := service.Run(context.Background(), &Request{
		TransactionsFile: txPath,
		CandidatesFile:   candPath,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(result.Outcomes))
	}
	if result.Outcomes[0].Disposition != DispositionMatched {
		t.Errorf("disposition = %s, want matched", result.Outcomes[0].Disposition)
	}
	if best := result.Outcomes[0].Best(); best == nil || best.Candidate.ID != "C1" {
		t.Errorf("best match = %+v, want C1", best)
	}
}

func TestRunValidation(t *testing.T) {
	service, err := NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if _, err := service.Run(context.Background(), &Request{}); err == nil {
		t.Error("empty request must fail validation")
	}
	if _, err := service.Run(context.Background(), &Request{
		TransactionsFile: "/nonexistent.csv",
		CandidatesFile:   "/nonexistent.csv",
	}); err == nil {
		t.Error("missing files must fail")
	}
}
