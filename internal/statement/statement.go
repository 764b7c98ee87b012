// Package statement reads ING bank CSV exports into normalized transaction
// intents.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Code is the transaction-type code in an ING export.
type Code string

const (
	CodeIncasso        Code = "IC" // direct debit
	CodeIDeal          Code = "ID"
	CodeCard           Code = "BA" // Betaalautomaat
	CodeOnlineBanking  Code = "GT"
	CodeTransfer       Code = "OV" // Overschrijving
	CodeBundledPayment Code = "VZ" // Verzamelbetaling
)

// Description returns a human-readable name for the code, or the raw code
// for types not in the known set.
func (c Code) Description() string {
	switch c {
	case CodeIncasso:
		return "incasso"
	case CodeIDeal:
		return "iDeal"
	case CodeCard:
		return "betaalautomaat"
	case CodeOnlineBanking:
		return "online bankieren"
	case CodeTransfer:
		return "overschrijving"
	case CodeBundledPayment:
		return "verzamelbetaling"
	}
	return string(c)
}

// Intent is a normalized bank statement row, ready to be posted to a book.
// Amount is always a positive magnitude; Debit tells which way it moves
// relative to the statement's own account.
type Intent struct {
	PostDate     time.Time
	Amount       decimal.Decimal
	Debit        bool
	Description  string
	Code         Code
	Counterparty string
}

// FieldMapping names the CSV columns a statement is read from.
type FieldMapping struct {
	Date           string
	Counterparty   string
	Account        string
	CounterAccount string
	Code           string
	Direction      string
	Amount         string
	SubType        string
	Notes          string
	Balance        string
	Tag            string
}

// DefaultFieldMapping returns the column names of a current ING export.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Date:           "Datum",
		Counterparty:   "Naam / Omschrijving",
		Account:        "Rekening",
		CounterAccount: "Tegenrekening",
		Code:           "Code",
		Direction:      "Af Bij",
		Amount:         "Bedrag (EUR)",
		SubType:        "Mutatiesoort",
		Notes:          "Mededelingen",
		Balance:        "Saldo na mutatie",
		Tag:            "Tag",
	}
}
