package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Split is one signed leg of a transaction against a single account.
// Positive value credits the account, negative debits it.
type Split struct {
	GUID        string
	TxGUID      string
	AccountGUID string
	Memo        string
	Value       decimal.Decimal
}

// Transaction is a double-entry transaction with its splits.
// PostDate carries the calendar day the transaction took effect;
// EnterDate records when it was written to the book.
type Transaction struct {
	GUID         string
	CurrencyGUID string
	Num          string
	PostDate     time.Time
	EnterDate    time.Time
	Description  string
	Splits       []Split
}

// Balance returns the sum of all split values. Zero for a balanced
// transaction.
func (t Transaction) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Value)
	}
	return total
}

// SplitFor returns the split posted against the given account, if any.
func (t Transaction) SplitFor(accountGUID string) (Split, bool) {
	for _, s := range t.Splits {
		if s.AccountGUID == accountGUID {
			return s, true
		}
	}
	return Split{}, false
}

// SameDay reports whether two timestamps fall on the same calendar date,
// ignoring any time-of-day component.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
