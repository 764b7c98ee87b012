// Package importer posts bank statement rows into a GnuCash book, one row
// per unit of work, skipping rows that already have an economically
// equivalent transaction on the target account.
package importer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/EdwinWenink/gnucash-scripts/internal/book"
	"github.com/EdwinWenink/gnucash-scripts/internal/model"
	"github.com/EdwinWenink/gnucash-scripts/internal/statement"
)

// Store is the slice of book behavior the importer needs.
type Store interface {
	DefaultCurrency() model.Commodity
	RootAccount() model.Account
	AccountByFullName(fullName string) (model.Account, error)
	AccountByName(name string) (model.Account, error)
	CreateAccount(name string, typ model.AccountType, parent model.Account, commodity model.Commodity) (model.Account, error)
	TransactionsOn(accountGUID string) ([]model.Transaction, error)
	AddTransaction(t *model.Transaction) error
	Save() error
	Cancel() error
}

// Status is the outcome of a single statement row.
type Status string

const (
	StatusImported         Status = "IMPORTED"
	StatusSkippedDuplicate Status = "SKIPPED_DUPLICATE"
	StatusError            Status = "ERROR"
)

// Outcome records what happened to one statement row.
type Outcome struct {
	Row          int
	Status       Status
	PostDate     time.Time
	Code         statement.Code
	Counterparty string
	Description  string
	Err          error
}

// Options configures an import run.
type Options struct {
	// TargetAccount is the full name of the bank account the statement
	// belongs to. It must already exist in the book.
	TargetAccount string

	// SkipMalformedRows logs and skips rows that fail to parse instead of
	// aborting the run.
	SkipMalformedRows bool
}

// Importer drives a single import run.
type Importer struct {
	store     Store
	log       zerolog.Logger
	opts      Options
	target    model.Account
	imbalance model.Account
	currency  model.Commodity
}

// New creates an Importer over a store.
func New(s Store, log zerolog.Logger, opts Options) *Importer {
	return &Importer{store: s, log: log, opts: opts}
}

// Target returns the resolved target account. Valid after ResolveAccounts.
func (imp *Importer) Target() model.Account { return imp.target }

// Imbalance returns the resolved imbalance account. Valid after
// ResolveAccounts.
func (imp *Importer) Imbalance() model.Account { return imp.imbalance }

// ResolveAccounts looks up the target account and the imbalance account,
// creating the latter under the root when it does not exist yet. Run once
// before the row loop.
func (imp *Importer) ResolveAccounts() error {
	imp.currency = imp.store.DefaultCurrency()

	target, err := imp.store.AccountByFullName(imp.opts.TargetAccount)
	if err != nil {
		return fmt.Errorf("resolving target account %q: %w", imp.opts.TargetAccount, err)
	}
	imp.target = target

	imbalanceName := ImbalanceAccountName(imp.currency)
	imbalance, err := imp.store.AccountByName(imbalanceName)
	if err == nil {
		imp.imbalance = imbalance
		return nil
	}
	if !errors.Is(err, book.ErrAccountNotFound) {
		return fmt.Errorf("resolving imbalance account %q: %w", imbalanceName, err)
	}
	imp.log.Info().Str("account", imbalanceName).Msg("creating imbalance account")
	imbalance, err = imp.store.CreateAccount(imbalanceName, model.AccountTypeBank, imp.store.RootAccount(), imp.currency)
	if err != nil {
		return fmt.Errorf("creating imbalance account %q: %w", imbalanceName, err)
	}
	// Commit the new account as its own unit of work so a duplicate first
	// row cannot cancel it away.
	if err := imp.store.Save(); err != nil {
		return fmt.Errorf("saving imbalance account %q: %w", imbalanceName, err)
	}
	imp.imbalance = imbalance
	return nil
}

// ImbalanceAccountName returns the GnuCash-convention holding account name
// for a currency, e.g. "Imbalance-EUR".
func ImbalanceAccountName(c model.Commodity) string {
	return "Imbalance-" + c.Mnemonic
}

// Run reads every row from the statement and posts it, returning the ordered
// per-row outcomes. Partial success is normal: the returned outcomes are
// meaningful even when err is non-nil.
func (imp *Importer) Run(r *statement.Reader) ([]Outcome, error) {
	if err := imp.ResolveAccounts(); err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for {
		intent, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !imp.opts.SkipMalformedRows {
				// Abort policy: drop any pending work and stop the run.
				_ = imp.store.Cancel()
				return outcomes, err
			}
			outcome := Outcome{Row: r.Row(), Status: StatusError, Err: err}
			imp.logOutcome(outcome)
			outcomes = append(outcomes, outcome)
			continue
		}

		duplicate, err := imp.post(intent)
		if err != nil {
			_ = imp.store.Cancel()
			return outcomes, fmt.Errorf("row %d: %w", r.Row(), err)
		}

		outcome := Outcome{
			Row:          r.Row(),
			PostDate:     intent.PostDate,
			Code:         intent.Code,
			Counterparty: intent.Counterparty,
			Description:  intent.Description,
			Status:       StatusImported,
		}
		if duplicate {
			outcome.Status = StatusSkippedDuplicate
		}
		imp.logOutcome(outcome)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// Summary aggregates outcomes into counts per status.
type Summary struct {
	Imported int
	Skipped  int
	Errored  int
}

// Summarize counts outcomes by status.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusImported:
			s.Imported++
		case StatusSkippedDuplicate:
			s.Skipped++
		case StatusError:
			s.Errored++
		}
	}
	return s
}

func (imp *Importer) logOutcome(o Outcome) {
	if o.Status == StatusError {
		imp.log.Warn().Err(o.Err).
			Int("row", o.Row).
			Str("outcome", string(o.Status)).
			Msg("statement row")
		return
	}
	imp.log.Info().
		Int("row", o.Row).
		Str("outcome", string(o.Status)).
		Str("date", o.PostDate.Format("2006-01-02")).
		Str("code", o.Code.Description()).
		Str("counterparty", o.Counterparty).
		Str("description", o.Description).
		Msg("statement row")
}

// newTransfer builds a balanced two-leg transaction moving amount from one
// account to another: +amount on to, -amount on from.
func newTransfer(amount decimal.Decimal, from, to model.Account, currency model.Commodity, description string, postDate time.Time) *model.Transaction {
	return &model.Transaction{
		CurrencyGUID: currency.GUID,
		PostDate:     postDate,
		EnterDate:    time.Now(),
		Description:  description,
		Splits: []model.Split{
			{AccountGUID: to.GUID, Value: amount},
			{AccountGUID: from.GUID, Value: amount.Neg()},
		},
	}
}
