package importer

import (
	"github.com/EdwinWenink/gnucash-scripts/internal/model"
)

// IsDuplicate reports whether candidate is economically equivalent to any
// transaction in existing, judged relative to the target account.
//
// The match key is deliberately weak: post date (calendar day), absolute
// value of the target account's leg, and currency. Sign is ignored because
// direction relative to the target may be encoded either way in a balanced
// two-leg transaction. No identifier, description or counterparty is
// considered, so two unrelated transactions for the same amount on the same
// day are indistinguishable. That looseness matches the manual-review
// workflow these imports feed and is kept on purpose.
func IsDuplicate(candidate model.Transaction, targetGUID string, existing []model.Transaction) bool {
	candSplit, ok := candidate.SplitFor(targetGUID)
	if !ok {
		return false
	}
	candValue := candSplit.Value.Abs()

	for _, txn := range existing {
		if txn.CurrencyGUID != candidate.CurrencyGUID {
			continue
		}
		if !model.SameDay(txn.PostDate, candidate.PostDate) {
			continue
		}
		split, ok := txn.SplitFor(targetGUID)
		if !ok {
			continue
		}
		if split.Value.Abs().Equal(candValue) {
			return true
		}
	}
	return false
}
