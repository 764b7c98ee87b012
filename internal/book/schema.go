package book

import (
	"database/sql"
	"fmt"

	"github.com/EdwinWenink/gnucash-scripts/internal/guid"
)

// schema is the subset of the GnuCash SQLite schema this tool touches.
const schema = `
CREATE TABLE commodities (
	guid      TEXT PRIMARY KEY,
	namespace TEXT NOT NULL,
	mnemonic  TEXT NOT NULL,
	fullname  TEXT,
	fraction  INTEGER NOT NULL DEFAULT 100
);

CREATE TABLE accounts (
	guid           TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	account_type   TEXT NOT NULL,
	commodity_guid TEXT REFERENCES commodities(guid),
	parent_guid    TEXT REFERENCES accounts(guid),
	description    TEXT,
	placeholder    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE transactions (
	guid          TEXT PRIMARY KEY,
	currency_guid TEXT NOT NULL REFERENCES commodities(guid),
	num           TEXT NOT NULL DEFAULT '',
	post_date     TEXT,
	enter_date    TEXT,
	description   TEXT
);

CREATE TABLE splits (
	guid            TEXT PRIMARY KEY,
	tx_guid         TEXT NOT NULL REFERENCES transactions(guid),
	account_guid    TEXT NOT NULL REFERENCES accounts(guid),
	memo            TEXT NOT NULL DEFAULT '',
	action          TEXT NOT NULL,
	reconcile_state TEXT NOT NULL,
	reconcile_date  TEXT,
	value_num       INTEGER NOT NULL,
	value_denom     INTEGER NOT NULL,
	quantity_num    INTEGER NOT NULL,
	quantity_denom  INTEGER NOT NULL
);

CREATE TABLE books (
	guid              TEXT PRIMARY KEY,
	root_account_guid TEXT NOT NULL REFERENCES accounts(guid)
);
`

// initSchema creates the tables plus a root account and single currency for
// a fresh book.
func initSchema(db *sql.DB, mnemonic string) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	currencyGUID := guid.New()
	rootGUID := guid.New()
	bookGUID := guid.New()

	if _, err := db.Exec(
		`INSERT INTO commodities (guid, namespace, mnemonic, fullname, fraction)
		 VALUES (?, 'CURRENCY', ?, ?, 100)`,
		currencyGUID, mnemonic, mnemonic); err != nil {
		return fmt.Errorf("creating default currency: %w", err)
	}
	if _, err := db.Exec(
		`INSERT INTO accounts (guid, name, account_type, commodity_guid, parent_guid, placeholder)
		 VALUES (?, 'Root Account', 'ROOT', ?, NULL, 1)`,
		rootGUID, currencyGUID); err != nil {
		return fmt.Errorf("creating root account: %w", err)
	}
	if _, err := db.Exec(
		`INSERT INTO books (guid, root_account_guid) VALUES (?, ?)`,
		bookGUID, rootGUID); err != nil {
		return fmt.Errorf("creating book row: %w", err)
	}
	return nil
}
