package model

// AccountType classifies accounts in the account tree. Values match the
// account_type column of a GnuCash book.
type AccountType string

const (
	AccountTypeRoot      AccountType = "ROOT"
	AccountTypeBank      AccountType = "BANK"
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeEquity    AccountType = "EQUITY"
)

// Commodity is a currency (or other tradable unit) a book prices accounts in.
// Fraction is the smallest representable unit per whole unit (100 for EUR).
type Commodity struct {
	GUID      string
	Namespace string
	Mnemonic  string
	FullName  string
	Fraction  int
}

// Account is one node in the book's account tree.
type Account struct {
	GUID          string
	Name          string
	FullName      string // colon-separated path from the root, e.g. "Activa:Lopende Rekening"
	Type          AccountType
	ParentGUID    string // empty for the root account
	CommodityGUID string
	Description   string
	Placeholder   bool
}

// IsRoot reports whether the account is the book's root.
func (a Account) IsRoot() bool {
	return a.Type == AccountTypeRoot
}
