// Package book opens and edits a GnuCash book kept in SQLite format.
//
// All reads and writes go through a single pending database transaction, the
// book's unit of work. Save commits the pending work and starts a fresh unit;
// Cancel throws the pending work away wholesale. Reads see staged changes, so
// callers observe live state rather than a snapshot taken at open time.
package book

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/EdwinWenink/gnucash-scripts/internal/model"
)

var (
	// ErrAccountNotFound is returned when an account lookup finds nothing.
	ErrAccountNotFound = errors.New("account not found")

	// ErrReadOnly is returned for any write against a read-only book.
	ErrReadOnly = errors.New("book is read-only")
)

// tsFormat is how GnuCash stores timestamps in SQLite.
const tsFormat = "2006-01-02 15:04:05"

// Book is an open GnuCash book.
type Book struct {
	db       *sql.DB
	tx       *sql.Tx
	path     string
	readOnly bool
	root     model.Account
	currency model.Commodity
}

// Open opens an existing book at path. With readOnly set, the underlying
// database is opened in read-only mode and every write returns ErrReadOnly.
func Open(path string, readOnly bool) (*Book, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	if readOnly {
		dsn += "&mode=ro"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening book: %w", err)
	}

	b := &Book{db: db, path: path, readOnly: readOnly}
	if err := b.begin(); err != nil {
		db.Close()
		return nil, err
	}
	if err := b.loadDefaults(); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// Create makes a new book at path with a root account and a single currency,
// then opens it. It fails if path already exists.
func Create(path, mnemonic string) (*Book, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("creating book: %s already exists", path)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}
	if err := initSchema(db, mnemonic); err != nil {
		db.Close()
		os.Remove(path)
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}

	return Open(path, false)
}

// Path returns the book's file path.
func (b *Book) Path() string { return b.path }

// ReadOnly reports whether the book rejects writes.
func (b *Book) ReadOnly() bool { return b.readOnly }

// RootAccount returns the book's root account.
func (b *Book) RootAccount() model.Account { return b.root }

// DefaultCurrency returns the book's currency.
func (b *Book) DefaultCurrency() model.Commodity { return b.currency }

// Save commits the pending unit of work and starts a new one.
func (b *Book) Save() error {
	if b.readOnly {
		return ErrReadOnly
	}
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("saving book: %w", err)
	}
	return b.begin()
}

// Cancel discards the entire pending unit of work and starts a new one.
// Everything staged since the last Save is lost, not only the most recent
// change.
func (b *Book) Cancel() error {
	if err := b.tx.Rollback(); err != nil {
		return fmt.Errorf("cancelling pending changes: %w", err)
	}
	return b.begin()
}

// Close discards any pending work and closes the book.
func (b *Book) Close() error {
	if b.tx != nil {
		_ = b.tx.Rollback()
		b.tx = nil
	}
	return b.db.Close()
}

func (b *Book) begin() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("starting unit of work: %w", err)
	}
	b.tx = tx
	return nil
}

// loadDefaults reads the root account and default currency. The book's
// currency is assumed uniform; the first CURRENCY commodity is taken as the
// default, matching a single-currency personal book.
func (b *Book) loadDefaults() error {
	row := b.tx.QueryRow(
		`SELECT guid, namespace, mnemonic, COALESCE(fullname, ''), fraction
		 FROM commodities WHERE namespace = 'CURRENCY' ORDER BY rowid LIMIT 1`)
	c := &b.currency
	if err := row.Scan(&c.GUID, &c.Namespace, &c.Mnemonic, &c.FullName, &c.Fraction); err != nil {
		return fmt.Errorf("reading default currency: %w", err)
	}

	row = b.tx.QueryRow(
		`SELECT a.guid, a.name, a.account_type, COALESCE(a.commodity_guid, ''),
		        COALESCE(a.description, ''), a.placeholder
		 FROM accounts a JOIN books bk ON bk.root_account_guid = a.guid`)
	a := &b.root
	var placeholder int
	if err := row.Scan(&a.GUID, &a.Name, &a.Type, &a.CommodityGUID, &a.Description, &placeholder); err != nil {
		return fmt.Errorf("reading root account: %w", err)
	}
	a.Placeholder = placeholder != 0
	return nil
}
