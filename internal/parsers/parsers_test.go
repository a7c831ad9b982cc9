package parsers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestTransactionParserParseFile(t *testing.T) {
	content := `id,date,description,amount,reference
TX001,2024-03-06,NEFT ACME CORP INV-2024-001,50000.00,INV-2024-001
TX002,2024-03-07,salary payment,-1500.50,
TX003,2024-03-08,rent transfer,"₹25,000",REF-9
`
	path := writeTestFile(t, "transactions.csv", content)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}

	transactions, stats, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}
	if stats.ParsedRecords != 3 || stats.InvalidFields != 0 {
		t.Errorf("stats = %+v, want 3 parsed with no invalid fields", stats)
	}

	first := transactions[0]
	if first.ID != "TX001" {
		t.Errorf("ID = %q, want TX001", first.ID)
	}
	if !first.AmountValid || first.Amount.String() != "50000" {
		t.Errorf("amount = %s (valid %v), want 50000", first.Amount, first.AmountValid)
	}
	if first.Reference != "INV-2024-001" {
		t.Errorf("reference = %q", first.Reference)
	}

	if !transactions[1].IsDebit() {
		t.Error("TX002 should be a debit")
	}
	if transactions[2].Amount.String() != "25000" {
		t.Errorf("currency symbol not stripped: %s", transactions[2].Amount)
	}
}

func TestTransactionParserHeaderAliases(t *testing.T) {
	content := `txn_id,value_date,narration,amt,utr
TX001,2024-03-06,acme payment,1000,UTR555777
`
	path := writeTestFile(t, "aliased.csv", content)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}

	transactions, _, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	tx := transactions[0]
	if tx.ID != "TX001" || tx.Description != "acme payment" || tx.Reference != "UTR555777" {
		t.Errorf("alias mapping failed: %+v", tx)
	}
}

func TestTransactionParserKeepsMalformedRows(t *testing.T) {
	content := `id,date,description,amount,reference
TX001,2024-03-06,good row,1000,
TX002,not-a-date,bad date,1000,
TX003,2024-03-08,bad amount,12x.50,
`
	path := writeTestFile(t, "malformed.csv", content)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}

	transactions, stats, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("malformed fields must not fail the parse: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("malformed rows must load, got %d of 3", len(transactions))
	}
	if stats.InvalidFields != 2 {
		t.Errorf("InvalidFields = %d, want 2", stats.InvalidFields)
	}
	if transactions[1].DateValid {
		t.Error("TX002 date should be flagged invalid")
	}
	if transactions[2].AmountValid {
		t.Error("TX003 amount should be flagged invalid")
	}
	if len(stats.Errors) == 0 {
		t.Error("expected per-record errors in stats")
	}
}

func TestTransactionParserSkipsRowsWithoutID(t *testing.T) {
	content := `id,date,description,amount,reference
,2024-03-06,orphan,1000,
TX002,2024-03-07,kept,1000,
`
	path := writeTestFile(t, "noid.csv", content)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}

	transactions, stats, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(transactions) != 1 || transactions[0].ID != "TX002" {
		t.Errorf("expected only TX002, got %v", transactions)
	}
	if stats.SkippedRecords != 1 {
		t.Errorf("SkippedRecords = %d, want 1", stats.SkippedRecords)
	}
}

func TestTransactionParserMissingColumn(t *testing.T) {
	content := `id,date,description
TX001,2024-03-06,no amount column
`
	path := writeTestFile(t, "missingcol.csv", content)

	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}

	if _, _, err := parser.ParseFile(path); err == nil {
		t.Error("missing required column must fail the parse")
	}
}

func TestTransactionParserFileNotFound(t *testing.T) {
	parser, err := NewTransactionParser(nil)
	if err != nil {
		t.Fatalf("NewTransactionParser failed: %v", err)
	}
	if _, _, err := parser.ParseFile("/nonexistent/file.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCandidateParserParseFile(t *testing.T) {
	content := `id,date,amount,description,party_name,invoice_number,reference,transaction_type
C001,2024-03-06,50000,acme invoice,ACME Corp,INV-2024-001,REF-1,SALES
C002,2024-03-07,1500.50,office supplies,Staples Ltd,,REF-2,purchase
`
	path := writeTestFile(t, "candidates.csv", content)

	parser, err := NewCandidateParser(nil)
	if err != nil {
		t.Fatalf("NewCandidateParser failed: %v", err)
	}

	candidates, stats, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(candidates) != 2 || stats.ParsedRecords != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.PartyName != "ACME Corp" || first.InvoiceNumber != "INV-2024-001" {
		t.Errorf("candidate fields wrong: %+v", first)
	}
	if first.TransactionType != "sales" {
		t.Errorf("transaction type not normalized: %q", first.TransactionType)
	}
	if first.PrimaryReference() != "INV-2024-001" {
		t.Errorf("PrimaryReference = %q", first.PrimaryReference())
	}
	if candidates[1].PrimaryReference() != "REF-2" {
		t.Errorf("invoice fallback failed: %q", candidates[1].PrimaryReference())
	}
}

func TestCandidateParserAliases(t *testing.T) {
	content := `entry_id,posting_date,amt,description,vendor,invoice_no,ref_no,entry_type
C001,2024-03-06,1000,misc,Initech,INV-9,R1,expense
`
	path := writeTestFile(t, "aliased_candidates.csv", content)

	parser, err := NewCandidateParser(nil)
	if err != nil {
		t.Fatalf("NewCandidateParser failed: %v", err)
	}

	candidates, _, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.ID != "C001" || c.PartyName != "Initech" || c.InvoiceNumber != "INV-9" || c.TransactionType != "expense" {
		t.Errorf("alias mapping failed: %+v", c)
	}
}

func TestParserConfigValidation(t *testing.T) {
	badTx := DefaultTransactionParserConfig()
	badTx.AmountColumn = ""
	if _, err := NewTransactionParser(badTx); err == nil {
		t.Error("empty amount column should fail validation")
	}

	badCand := DefaultCandidateParserConfig()
	badCand.Delimiter = 0
	if _, err := NewCandidateParser(badCand); err == nil {
		t.Error("empty delimiter should fail validation")
	}
}
