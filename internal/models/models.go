// Package models defines the data types exchanged between the matching
// engine and its collaborators: bank statement transactions on one side and
// accounting ledger candidates on the other.
//
// Both types are read-only inputs to the engine. Constructors never fail on
// malformed amount or date fields; instead they clear the corresponding
// validity flag so the analyzers can surface the problem as a diagnostic
// factor without aborting the candidate scan.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection represents the direction of money movement on a bank
// statement line.
type TransactionDirection string

const (
	// DirectionCredit represents money in (positive statement amount).
	DirectionCredit TransactionDirection = "CREDIT"
	// DirectionDebit represents money out (negative statement amount).
	DirectionDebit TransactionDirection = "DEBIT"
)

// BankTransaction represents one posted bank-statement line.
// Positive amounts are credits (money in), negative amounts are debits.
type BankTransaction struct {
	ID          string          `json:"id" csv:"id"`
	Date        time.Time       `json:"date" csv:"date"`
	Description string          `json:"description" csv:"description"`
	Amount      decimal.Decimal `json:"amount" csv:"amount"`
	Reference   string          `json:"reference,omitempty" csv:"reference"`

	// AmountValid and DateValid are cleared when the source field could not
	// be parsed. The engine scores such transactions with diagnostic factors
	// instead of rejecting them.
	AmountValid bool `json:"amount_valid"`
	DateValid   bool `json:"date_valid"`
}

// NewBankTransaction creates a transaction from already-typed fields.
func NewBankTransaction(id string, date time.Time, description string, amount decimal.Decimal, reference string) *BankTransaction {
	return &BankTransaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Reference:   reference,
		AmountValid: true,
		DateValid:   !date.IsZero(),
	}
}

// NewBankTransactionFromStrings creates a transaction from raw string fields.
// It never fails: unparseable amounts or dates clear the validity flags.
func NewBankTransactionFromStrings(id, dateStr, description, amountStr, reference string) *BankTransaction {
	tx := &BankTransaction{
		ID:          strings.TrimSpace(id),
		Description: strings.TrimSpace(description),
		Reference:   strings.TrimSpace(reference),
	}

	if amount, err := ParseAmount(amountStr); err == nil {
		tx.Amount = amount
		tx.AmountValid = true
	}

	if date, err := ParseDate(dateStr); err == nil {
		tx.Date = date
		tx.DateValid = true
	}

	return tx
}

// Validate performs basic validation on the BankTransaction.
func (t *BankTransaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}
	return nil
}

// IsCredit returns true when the transaction moves money in.
func (t *BankTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// IsDebit returns true when the transaction moves money out.
func (t *BankTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// Direction returns the transaction direction based on the amount sign.
func (t *BankTransaction) Direction() TransactionDirection {
	if t.IsDebit() {
		return DirectionDebit
	}
	return DirectionCredit
}

// SearchText returns the lower-cased description plus bank reference, the
// text the reference and party analyzers scan for candidate signals.
func (t *BankTransaction) SearchText() string {
	if t.Reference == "" {
		return strings.ToLower(t.Description)
	}
	return strings.ToLower(t.Description + " " + t.Reference)
}

// String returns a string representation of the BankTransaction.
func (t *BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction{ID: %s, Date: %s, Amount: %s, Description: %q}",
		t.ID, t.Date.Format("2006-01-02"), t.Amount.String(), t.Description)
}

// MarshalJSON implements custom JSON marshaling for BankTransaction.
func (t *BankTransaction) MarshalJSON() ([]byte, error) {
	type Alias BankTransaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: t.Amount.String(),
		Date:   t.Date.Format("2006-01-02"),
		Alias:  (*Alias)(t),
	})
}

// LedgerCandidate represents one accounting-side entry eligible for matching:
// a journal line, an open invoice, or similar.
type LedgerCandidate struct {
	ID              string          `json:"id" csv:"id"`
	Date            time.Time       `json:"date" csv:"date"`
	Amount          decimal.Decimal `json:"amount" csv:"amount"`
	Description     string          `json:"description,omitempty" csv:"description"`
	PartyName       string          `json:"party_name,omitempty" csv:"party_name"`
	InvoiceNumber   string          `json:"invoice_number,omitempty" csv:"invoice_number"`
	Reference       string          `json:"reference,omitempty" csv:"reference"`
	TransactionType string          `json:"transaction_type,omitempty" csv:"transaction_type"`

	AmountValid bool `json:"amount_valid"`
	DateValid   bool `json:"date_valid"`
}

// NewLedgerCandidate creates a candidate from already-typed fields.
func NewLedgerCandidate(id string, date time.Time, amount decimal.Decimal, description, partyName, invoiceNumber, transactionType string) *LedgerCandidate {
	return &LedgerCandidate{
		ID:              id,
		Date:            date,
		Amount:          amount,
		Description:     description,
		PartyName:       partyName,
		InvoiceNumber:   invoiceNumber,
		TransactionType: transactionType,
		AmountValid:     true,
		DateValid:       !date.IsZero(),
	}
}

// NewLedgerCandidateFromStrings creates a candidate from raw string fields.
// It never fails: unparseable amounts or dates clear the validity flags.
func NewLedgerCandidateFromStrings(id, dateStr, amountStr, description, partyName, invoiceNumber, reference, transactionType string) *LedgerCandidate {
	c := &LedgerCandidate{
		ID:              strings.TrimSpace(id),
		Description:     strings.TrimSpace(description),
		PartyName:       strings.TrimSpace(partyName),
		InvoiceNumber:   strings.TrimSpace(invoiceNumber),
		Reference:       strings.TrimSpace(reference),
		TransactionType: strings.ToLower(strings.TrimSpace(transactionType)),
	}

	if amount, err := ParseAmount(amountStr); err == nil {
		c.Amount = amount
		c.AmountValid = true
	}

	if date, err := ParseDate(dateStr); err == nil {
		c.Date = date
		c.DateValid = true
	}

	return c
}

// PrimaryReference returns the invoice number when present, falling back to
// the entry-level reference code.
func (c *LedgerCandidate) PrimaryReference() string {
	if c.InvoiceNumber != "" {
		return c.InvoiceNumber
	}
	return c.Reference
}

// Validate performs basic validation on the LedgerCandidate.
func (c *LedgerCandidate) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("candidate ID cannot be empty")
	}
	return nil
}

// String returns a string representation of the LedgerCandidate.
func (c *LedgerCandidate) String() string {
	return fmt.Sprintf("LedgerCandidate{ID: %s, Date: %s, Amount: %s, Party: %q, Type: %s}",
		c.ID, c.Date.Format("2006-01-02"), c.Amount.String(), c.PartyName, c.TransactionType)
}

// MarshalJSON implements custom JSON marshaling for LedgerCandidate.
func (c *LedgerCandidate) MarshalJSON() ([]byte, error) {
	type Alias LedgerCandidate
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: c.Amount.String(),
		Date:   c.Date.Format("2006-01-02"),
		Alias:  (*Alias)(c),
	})
}

// ParseAmount parses a decimal amount from a string, tolerating common
// currency symbols and thousand separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseDate attempts to parse a calendar date using the formats commonly
// found in bank exports and accounting systems.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"02/01/2006",
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"Jan 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// Normalize to date-only, midnight UTC.
			year, month, day := t.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}
