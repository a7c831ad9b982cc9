package parsers

import (
	"fmt"

	"bank-matching-engine/internal/models"
	"bank-matching-engine/pkg/errors"
	"bank-matching-engine/pkg/logger"
)

// TransactionParserConfig describes the layout of a bank statement CSV.
type TransactionParserConfig struct {
	IDColumn          string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	ReferenceColumn   string

	HasHeader bool
	Delimiter rune

	// ColumnAliases maps alternative header names onto logical columns,
	// e.g. "txn_id" -> IDColumn.
	ColumnAliases map[string]string
}

// DefaultTransactionParserConfig returns a config matching common statement
// exports.
func DefaultTransactionParserConfig() *TransactionParserConfig {
	return &TransactionParserConfig{
		IDColumn:          "id",
		DateColumn:        "date",
		DescriptionColumn: "description",
		AmountColumn:      "amount",
		ReferenceColumn:   "reference",
		HasHeader:         true,
		Delimiter:         ',',
		ColumnAliases: map[string]string{
			"txn_id":           "id",
			"transaction_id":   "id",
			"txn_date":         "date",
			"transaction_date": "date",
			"value_date":       "date",
			"narration":        "description",
			"particulars":      "description",
			"amt":              "amount",
			"ref":              "reference",
			"ref_no":           "reference",
			"utr":              "reference",
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *TransactionParserConfig) Validate() error {
	return validateParserConfig(c.Delimiter, map[string]string{
		"id":          c.IDColumn,
		"date":        c.DateColumn,
		"description": c.DescriptionColumn,
		"amount":      c.AmountColumn,
	})
}

// TransactionParser loads bank transactions from CSV files.
type TransactionParser struct {
	config *TransactionParserConfig
	logger logger.Logger
}

// NewTransactionParser creates a parser, applying the default config when
// nil is given.
func NewTransactionParser(config *TransactionParserConfig) (*TransactionParser, error) {
	if config == nil {
		config = DefaultTransactionParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "transaction_parser", config, err)
	}
	return &TransactionParser{
		config: config,
		logger: logger.WithComponent("transaction_parser"),
	}, nil
}

// ParseFile reads every transaction from path. Records with unparseable
// amounts or dates are kept with their validity flags cleared; records
// without an ID are skipped and counted.
func (p *TransactionParser) ParseFile(path string) ([]*models.BankTransaction, *ParseStats, error) {
	c := p.config
	columns := []string{c.IDColumn, c.DateColumn, c.DescriptionColumn, c.AmountColumn, c.ReferenceColumn}
	required := []string{c.IDColumn, c.DateColumn, c.DescriptionColumn, c.AmountColumn}

	var (
		transactions []*models.BankTransaction
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
					fmt.Errorf("record has no transaction ID")))
				return
			}
			tx := models.NewBankTransactionFromStrings(
				id,
				cm.get(row, c.DateColumn),
				cm.get(row, c.DescriptionColumn),
				cm.get(row, c.AmountColumn),
				cm.get(row, c.ReferenceColumn),
			)
			if !tx.AmountValid || !tx.DateValid {
				invalid++
				recordErrors = append(recordErrors, errors.ParseError(
					errors.CodeInvalidData, path, line, "amount/date", id,
					fmt.Errorf("transaction %s loaded with invalid fields", id)))
			}
			transactions = append(transactions, tx)
		})
	if err != nil {
		return nil, nil, err
	}

	stats.ParsedRecords = len(transactions)
	stats.SkippedRecords += skipped
	stats.InvalidFields = invalid
	for _, recErr := range recordErrors {
		stats.addError(recErr)
	}

	p.logger.WithFields(logger.Fields{
		"file":         path,
		"transactions": len(transactions),
		"invalid":      stats.InvalidFields,
	}).Info("parsed bank transactions")

	return transactions, stats, nil
}
