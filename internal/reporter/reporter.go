// Package reporter renders reconciliation results in three formats: a
// human-readable console view, JSON for programmatic consumers, and CSV for
// spreadsheets.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bank-matching-engine/internal/matcher"
	"bank-matching-engine/internal/models"
	"bank-matching-engine/internal/recon"
	"bank-matching-engine/internal/scoring"
)

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid reports whether the format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds options for report generation.
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// IncludeFactors adds the per-layer diagnostic factors to console and
	// CSV output. JSON always carries them.
	IncludeFactors bool `json:"include_factors"`

	// MaxMatchesPerTransaction limits how many ranked candidates appear
	// per transaction. Zero means all.
	MaxMatchesPerTransaction int `json:"max_matches_per_transaction"`

	CSVDelimiter rune `json:"csv_delimiter"`
}

// DefaultReportConfig returns the standard report configuration.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                   FormatConsole,
		IncludeFactors:           false,
		MaxMatchesPerTransaction: 3,
		CSVDelimiter:             ',',
	}
}

// Validate checks the configuration.
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxMatchesPerTransaction < 0 {
		return fmt.Errorf("max matches per transaction cannot be negative, got %d", c.MaxMatchesPerTransaction)
	}
	if c.CSVDelimiter == 0 {
		return fmt.Errorf("csv delimiter cannot be empty")
	}
	return nil
}

// ReportGenerator renders recon results to a writer.
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a generator, using defaults when config is nil.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the result in the configured format.
func (rg *ReportGenerator) GenerateReport(result *recon.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	switch rg.config.Format {
	case FormatJSON:
		return rg.generateJSON(result, writer)
	case FormatCSV:
		return rg.generateCSV(result, writer)
	default:
		return rg.generateConsole(result, writer)
	}
}

// rankedMatches applies the per-transaction display limit.
func (rg *ReportGenerator) rankedMatches(outcome *recon.TransactionOutcome) []*matcher.MatchResult {
	matches := outcome.Matches
	if max := rg.config.MaxMatchesPerTransaction; max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

func (rg *ReportGenerator) generateJSON(result *recon.Result, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

func (rg *ReportGenerator) generateCSV(result *recon.Result, writer io.Writer) error {
	w := csv.NewWriter(writer)
	w.Comma = rg.config.CSVDelimiter

	header := []string{
		"transaction_id", "transaction_date", "transaction_amount", "disposition",
		"rank", "candidate_id", "candidate_party", "confidence", "category", "match_quality",
	}
	if rg.config.IncludeFactors {
		header = append(header, "factors")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, outcome := range result.Outcomes {
		tx := outcome.Transaction
		base := []string{
			tx.ID,
			formatDate(tx),
			tx.Amount.StringFixed(2),
			string(outcome.Disposition),
		}

		matches := rg.rankedMatches(outcome)
		if len(matches) == 0 {
			row := append(append([]string{}, base...), "", "", "", "", "", "")
			if rg.config.IncludeFactors {
				row = append(row, "")
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
			continue
		}

		for rank, m := range matches {
			row := append(append([]string{}, base...),
				strconv.Itoa(rank+1),
				m.Candidate.ID,
				m.Candidate.PartyName,
				fmt.Sprintf("%.4f", m.Confidence),
				string(m.Category),
				strconv.Itoa(m.MatchQuality),
			)
			if rg.config.IncludeFactors {
				row = append(row, strings.Join(m.Factors(), ";"))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}

func (rg *ReportGenerator) generateConsole(result *recon.Result, writer io.Writer) error {
	var b strings.Builder

	b.WriteString("BANK RECONCILIATION REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Processed at: %s\n\n", result.ProcessedAt.Format("2006-01-02 15:04:05")))

	writeSummary(&b, result.Summary)

	b.WriteString("\nTRANSACTION OUTCOMES\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")

	for _, outcome := range result.Outcomes {
		tx := outcome.Transaction
		b.WriteString(fmt.Sprintf("%s  %s  %s  [%s]\n",
			tx.ID, formatDate(tx), tx.Amount.StringFixed(2), strings.ToUpper(string(outcome.Disposition))))

		matches := rg.rankedMatches(outcome)
		if len(matches) == 0 {
			b.WriteString("    no qualifying candidates\n")
			continue
		}
		for rank, m := range matches {
			b.WriteString(fmt.Sprintf("    #%d %-12s %-24s conf=%.4f  %-10s quality=%d\n",
				rank+1, m.Candidate.ID, truncate(m.Candidate.PartyName, 24),
				m.Confidence, m.Category, m.MatchQuality))
			if rg.config.IncludeFactors {
				b.WriteString(fmt.Sprintf("        factors: %s\n", strings.Join(m.Factors(), ", ")))
			}
		}
	}

	_, err := writer.Write([]byte(b.String()))
	return err
}

func writeSummary(b *strings.Builder, s *recon.Summary) {
	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	b.WriteString(fmt.Sprintf("Transactions:        %d\n", s.TotalTransactions))
	b.WriteString(fmt.Sprintf("Candidates:          %d\n", s.TotalCandidates))
	b.WriteString(fmt.Sprintf("Auto-matched:        %d (%.1f%%)\n", s.Matched, s.MatchRate()*100))
	b.WriteString(fmt.Sprintf("Needs review:        %d\n", s.NeedsReview))
	b.WriteString(fmt.Sprintf("Needs manual check:  %d\n", s.NeedsManualCheck))
	b.WriteString(fmt.Sprintf("Total amount:        %s\n", s.TotalTransactionAmount.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Matched amount:      %s\n", s.MatchedAmount.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Duration:            %s\n", s.ProcessingDuration))

	if len(s.CategoryCounts) > 0 {
		b.WriteString("\nBest-match categories:\n")
		for _, cat := range []scoring.Category{
			scoring.CategoryDarkGreen, scoring.CategoryGreen, scoring.CategoryYellow,
			scoring.CategoryOrange, scoring.CategoryRed,
		} {
			if n, ok := s.CategoryCounts[cat]; ok && n > 0 {
				b.WriteString(fmt.Sprintf("  %-11s %d\n", cat, n))
			}
		}
	}
}

func formatDate(tx *models.BankTransaction) string {
	if !tx.DateValid {
		return "invalid-date"
	}
	return tx.Date.Format("2006-01-02")
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
