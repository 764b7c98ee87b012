package book

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/EdwinWenink/gnucash-scripts/internal/guid"
	"github.com/EdwinWenink/gnucash-scripts/internal/model"
)

// FullNameSeparator separates account path segments in a full name.
const FullNameSeparator = ":"

// AccountByFullName resolves an account by its colon-separated path from the
// root, e.g. "Activa:Huidige Activa:Lopende Rekening". The root account's own
// name is not part of the path. Returns ErrAccountNotFound when any segment
// is missing.
func (b *Book) AccountByFullName(fullName string) (model.Account, error) {
	segments := strings.Split(fullName, FullNameSeparator)
	parentGUID := b.root.GUID

	var acct model.Account
	for _, name := range segments {
		a, err := b.childAccount(parentGUID, name)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return model.Account{}, fmt.Errorf("%w: %q", ErrAccountNotFound, fullName)
			}
			return model.Account{}, err
		}
		acct = a
		parentGUID = a.GUID
	}
	acct.FullName = fullName
	return acct, nil
}

// AccountByName resolves an account by its simple name anywhere in the tree.
// When several accounts share the name, the first one wins.
func (b *Book) AccountByName(name string) (model.Account, error) {
	row := b.tx.QueryRow(accountSelect+` WHERE name = ? ORDER BY rowid LIMIT 1`, name)
	acct, err := scanAccount(row)
	if err != nil {
		return model.Account{}, err
	}
	fullName, err := b.fullNameOf(acct)
	if err != nil {
		return model.Account{}, err
	}
	acct.FullName = fullName
	return acct, nil
}

// CreateAccount stages a new account under parent in the pending unit of
// work.
func (b *Book) CreateAccount(name string, typ model.AccountType, parent model.Account, commodity model.Commodity) (model.Account, error) {
	if b.readOnly {
		return model.Account{}, ErrReadOnly
	}

	acct := model.Account{
		GUID:          guid.New(),
		Name:          name,
		Type:          typ,
		ParentGUID:    parent.GUID,
		CommodityGUID: commodity.GUID,
	}
	_, err := b.tx.Exec(
		`INSERT INTO accounts (guid, name, account_type, commodity_guid, parent_guid, placeholder)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		acct.GUID, acct.Name, string(acct.Type), acct.CommodityGUID, acct.ParentGUID)
	if err != nil {
		return model.Account{}, fmt.Errorf("creating account %q: %w", name, err)
	}

	if parent.IsRoot() {
		acct.FullName = name
	} else if parent.FullName != "" {
		acct.FullName = parent.FullName + FullNameSeparator + name
	}
	return acct, nil
}

const accountSelect = `
	SELECT guid, name, account_type, COALESCE(commodity_guid, ''),
	       COALESCE(parent_guid, ''), COALESCE(description, ''), placeholder
	FROM accounts`

func (b *Book) childAccount(parentGUID, name string) (model.Account, error) {
	row := b.tx.QueryRow(accountSelect+` WHERE parent_guid = ? AND name = ?`, parentGUID, name)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var placeholder int
	err := row.Scan(&a.GUID, &a.Name, (*string)(&a.Type), &a.CommodityGUID,
		&a.ParentGUID, &a.Description, &placeholder)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("reading account: %w", err)
	}
	a.Placeholder = placeholder != 0
	return a, nil
}

// fullNameOf walks parent links up to the root to build an account's full
// name.
func (b *Book) fullNameOf(acct model.Account) (string, error) {
	segments := []string{acct.Name}
	parent := acct.ParentGUID
	for parent != "" && parent != b.root.GUID {
		row := b.tx.QueryRow(accountSelect+` WHERE guid = ?`, parent)
		a, err := scanAccount(row)
		if err != nil {
			return "", fmt.Errorf("resolving full name of %q: %w", acct.Name, err)
		}
		segments = append([]string{a.Name}, segments...)
		parent = a.ParentGUID
	}
	return strings.Join(segments, FullNameSeparator), nil
}
