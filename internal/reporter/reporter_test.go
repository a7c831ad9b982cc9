package reporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"bank-matching-engine/internal/models"
	"bank-matching-engine/internal/recon"
)

func testResult(t *testing.T) *recon.Result {
	t.Helper()

	service, err := recon.NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	transactions := []*models.BankTransaction{
		models.NewBankTransactionFromStrings("TX1", "2024-03-06", "NEFT INV-2024-001 ACME CORP payment", "50000", ""),
		models.NewBankTransactionFromStrings("TX2", "2024-05-06", "atm cash withdrawal", "-200", ""),
	}
	candidates := []*models.LedgerCandidate{
		models.NewLedgerCandidateFromStrings("C1", "2024-03-06", "50000", "acme invoice payment", "ACME Corp", "INV-2024-001", "", "sales"),
	}

	result, err := service.Reconcile(context.Background(), transactions, candidates)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	return result
}

func TestGenerateConsoleReport(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(t), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SUMMARY", "TX1", "TX2", "C1", "MATCHED", "no qualifying candidates"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateJSONReport(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatJSON
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(t), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	var decoded struct {
		Summary struct {
			TotalTransactions int `json:"total_transactions"`
			Matched           int `json:"matched"`
		} `json:"summary"`
		Outcomes []struct {
			Disposition string `json:"disposition"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output not parseable: %v", err)
	}
	if decoded.Summary.TotalTransactions != 2 || decoded.Summary.Matched != 1 {
		t.Errorf("unexpected summary: %+v", decoded.Summary)
	}
	if len(decoded.Outcomes) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(decoded.Outcomes))
	}
}

func TestGenerateCSVReport(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(t), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output not parseable: %v", err)
	}
	// Header + one row for TX1's match + one empty-match row for TX2.
	if len(rows) != 3 {
		t.Fatalf("expected 3 CSV rows, got %d", len(rows))
	}
	if rows[0][0] != "transaction_id" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "TX1" || rows[1][5] != "C1" {
		t.Errorf("unexpected match row: %v", rows[1])
	}
	if rows[2][0] != "TX2" || rows[2][5] != "" {
		t.Errorf("unexpected manual row: %v", rows[2])
	}
	// Every row, including the no-match row, must match the header width.
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			t.Errorf("row %d has %d fields, header has %d", i, len(row), len(rows[0]))
		}
	}
}

func TestGenerateCSVReportWithFactors(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV
	config.IncludeFactors = true
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(testResult(t), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output not parseable: %v", err)
	}
	if rows[0][len(rows[0])-1] != "factors" {
		t.Errorf("factors column missing from header: %v", rows[0])
	}
	for i, row := range rows {
		if len(row) != len(rows[0]) {
			t.Errorf("row %d has %d fields, header has %d", i, len(row), len(rows[0]))
		}
	}
	if rows[1][len(rows[1])-1] == "" {
		t.Errorf("match row should carry factor tags: %v", rows[1])
	}
	if rows[2][len(rows[2])-1] != "" {
		t.Errorf("manual row should have an empty factors field: %v", rows[2])
	}
}

func TestGenerateReportValidation(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}
	var buf bytes.Buffer
	if err := generator.GenerateReport(nil, &buf); err == nil {
		t.Error("nil result must be an error")
	}

	bad := DefaultReportConfig()
	bad.Format = "xml"
	if _, err := NewReportGenerator(bad); err == nil {
		t.Error("unsupported format must fail validation")
	}
}

func TestOutputFormatIsValid(t *testing.T) {
	for _, f := range []OutputFormat{FormatConsole, FormatJSON, FormatCSV} {
		if !f.IsValid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if OutputFormat("yaml").IsValid() {
		t.Error("yaml should be invalid")
	}
}

func TestMaxMatchesPerTransactionLimit(t *testing.T) {
	service, err := recon.NewService(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	tx := models.NewBankTransactionFromStrings("TX1", "2024-03-06", "payment acme corp", "1000", "")
	candidates := []*models.LedgerCandidate{
		models.NewLedgerCandidateFromStrings("C1", "2024-03-06", "1000", "acme entry", "ACME Corp", "", "", "sales"),
		models.NewLedgerCandidateFromStrings("C2", "2024-03-07", "1000", "acme entry", "ACME Corp", "", "", "sales"),
		models.NewLedgerCandidateFromStrings("C3", "2024-03-08", "1000", "acme entry", "ACME Corp", "", "", "sales"),
	}
	result, err := service.Reconcile(context.Background(), []*models.BankTransaction{tx}, candidates)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	config := DefaultReportConfig()
	config.Format = FormatCSV
	config.MaxMatchesPerTransaction = 1
	generator, err := NewReportGenerator(config)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(result, &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV output not parseable: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected header + 1 limited row, got %d rows", len(rows))
	}
}
