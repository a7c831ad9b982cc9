package parsers

import (
	"fmt"

	"bank-matching-engine/internal/models"
	"bank-matching-engine/pkg/errors"
	"bank-matching-engine/pkg/logger"
)

// CandidateParserConfig describes the layout of a ledger entries CSV.
type CandidateParserConfig struct {
	IDColumn              string
	DateColumn            string
	AmountColumn          string
	DescriptionColumn     string
	PartyNameColumn       string
	InvoiceNumberColumn   string
	ReferenceColumn       string
	TransactionTypeColumn string

	HasHeader bool
	Delimiter rune

	ColumnAliases map[string]string
}

// DefaultCandidateParserConfig returns a config matching common ledger
// exports.
func DefaultCandidateParserConfig() *CandidateParserConfig {
	return &CandidateParserConfig{
		IDColumn:              "id",
		DateColumn:            "date",
		AmountColumn:          "amount",
		DescriptionColumn:     "description",
		PartyNameColumn:       "party_name",
		InvoiceNumberColumn:   "invoice_number",
		ReferenceColumn:       "reference",
		TransactionTypeColumn: "transaction_type",
		HasHeader:             true,
		Delimiter:             ',',
		ColumnAliases: map[string]string{
			"entry_id":     "id",
			"ledger_id":    "id",
			"entry_date":   "date",
			"posting_date": "date",
			"amt":          "amount",
			"party":        "party_name",
			"vendor":       "party_name",
			"customer":     "party_name",
			"invoice":      "invoice_number",
			"invoice_no":   "invoice_number",
			"ref":          "reference",
			"ref_no":       "reference",
			"type":         "transaction_type",
			"entry_type":   "transaction_type",
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *CandidateParserConfig) Validate() error {
	return validateParserConfig(c.Delimiter, map[string]string{
		"id":               c.IDColumn,
		"date":             c.DateColumn,
		"amount":           c.AmountColumn,
		"description":      c.DescriptionColumn,
		"party name":       c.PartyNameColumn,
		"transaction type": c.TransactionTypeColumn,
	})
}

// CandidateParser loads ledger candidate entries from CSV files.
type CandidateParser struct {
	config *CandidateParserConfig
	logger logger.Logger
}

// NewCandidateParser creates a parser, applying the default config when nil
// is given.
func NewCandidateParser(config *CandidateParserConfig) (*CandidateParser, error) {
	if config == nil {
		config = DefaultCandidateParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "candidate_parser", config, err)
	}
	return &CandidateParser{
		config: config,
		logger: logger.WithComponent("candidate_parser"),
	}, nil
}

// ParseFile reads every candidate from path. As with transactions, bad
// amounts or dates clear validity flags rather than dropping the record.
func (p *CandidateParser) ParseFile(path string) ([]*models.LedgerCandidate, *ParseStats, error) {
	c := p.config
	columns := []string{
		c.IDColumn, c.DateColumn, c.AmountColumn, c.DescriptionColumn,
		c.PartyNameColumn, c.InvoiceNumberColumn, c.ReferenceColumn, c.TransactionTypeColumn,
	}
	required := []string{c.IDColumn, c.DateColumn, c.AmountColumn, c.DescriptionColumn}

	var (
		candidates   []*models.LedgerCandidate
		recordErrors []*errors.EngineError
		skipped      int
		invalid      int
	)

	stats, err := forEachRecord(path, c.Delimiter, c.HasHeader, columns, required, c.ColumnAliases, p.logger,
		func(line int, cm columnMap, row []string) {
			id := cm.get(row, c.IDColumn)
			if id == "" {
				skipped++
				recordErrors = append(recordErrors, errors.ParseError(
					errors.CodeMissingColumn, path, line, c.IDColumn, "",
					fmt.Errorf("record has no entry ID")))
				return
			}
			cand := models.NewLedgerCandidateFromStrings(
				id,
				cm.get(row, c.DateColumn),
				cm.get(row, c.AmountColumn),
				cm.get(row, c.DescriptionColumn),
				cm.get(row, c.PartyNameColumn),
				cm.get(row, c.InvoiceNumberColumn),
				cm.get(row, c.ReferenceColumn),
				cm.get(row, c.TransactionTypeColumn),
			)
			if !cand.AmountValid || !cand.DateValid {
				invalid++
				recordErrors = append(recordErrors, errors.ParseError(
					errors.CodeInvalidData, path, line, "amount/date", id,
					fmt.Errorf("candidate %s loaded with invalid fields", id)))
			}
			candidates = append(candidates, cand)
		})
	if err != nil {
		return nil, nil, err
	}

	stats.ParsedRecords = len(candidates)
	stats.SkippedRecords += skipped
	stats.InvalidFields = invalid
	for _, recErr := range recordErrors {
		stats.addError(recErr)
	}

	p.logger.WithFields(logger.Fields{
		"file":       path,
		"candidates": len(candidates),
		"invalid":    stats.InvalidFields,
	}).Info("parsed ledger candidates")

	return candidates, stats, nil
}
