package importer

import (
	"fmt"

	"github.com/EdwinWenink/gnucash-scripts/internal/statement"
)

// BalanceError reports a constructed transaction whose splits do not sum to
// zero. It signals a defect in transaction construction, never bad input.
type BalanceError struct {
	Description string
	Sum         string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("unbalanced transaction %q: splits sum to %s", e.Description, e.Sum)
}

// post turns one intent into a balanced two-leg transaction between the
// target and imbalance accounts and commits it, unless an equivalent
// transaction already exists. Reports whether the row was a duplicate.
//
// On a duplicate the whole pending unit of work is cancelled, not just this
// candidate. Because every non-duplicate row is saved immediately, the
// pending work at that point is only ever the candidate itself; batching
// saves across rows would make Cancel destructive and must not be
// introduced.
func (imp *Importer) post(intent statement.Intent) (duplicate bool, err error) {
	from, to := imp.imbalance, imp.target
	if intent.Debit {
		from, to = imp.target, imp.imbalance
	}

	txn := newTransfer(intent.Amount, from, to, imp.currency, intent.Description, intent.PostDate)
	if sum := txn.Balance(); !sum.IsZero() {
		return false, &BalanceError{Description: txn.Description, Sum: sum.String()}
	}

	// Live state: rows committed earlier in this run count as history.
	existing, err := imp.store.TransactionsOn(imp.target.GUID)
	if err != nil {
		return false, err
	}
	if IsDuplicate(*txn, imp.target.GUID, existing) {
		if err := imp.store.Cancel(); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := imp.store.AddTransaction(txn); err != nil {
		return false, err
	}
	if err := imp.store.Save(); err != nil {
		return false, err
	}
	return false, nil
}
