package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/EdwinWenink/gnucash-scripts/internal/guid"
	"github.com/EdwinWenink/gnucash-scripts/internal/model"
)

// AddTransaction stages a transaction and its splits in the pending unit of
// work, assigning GUIDs as a side effect. The transaction only becomes
// durable on the next Save.
func (b *Book) AddTransaction(t *model.Transaction) error {
	if b.readOnly {
		return ErrReadOnly
	}

	if t.GUID == "" {
		t.GUID = guid.New()
	}
	_, err := b.tx.Exec(
		`INSERT INTO transactions (guid, currency_guid, num, post_date, enter_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.GUID, t.CurrencyGUID, t.Num,
		t.PostDate.Format(tsFormat), t.EnterDate.Format(tsFormat), t.Description)
	if err != nil {
		return fmt.Errorf("staging transaction: %w", err)
	}

	for i := range t.Splits {
		s := &t.Splits[i]
		if s.GUID == "" {
			s.GUID = guid.New()
		}
		s.TxGUID = t.GUID
		num, denom, err := valueToFixed(s.Value, b.currency.Fraction)
		if err != nil {
			return fmt.Errorf("staging split: %w", err)
		}
		// Real GnuCash books declare action, reconcile_state and the
		// quantity pair NOT NULL without defaults. New splits are
		// unreconciled; in a single-currency book quantity equals value.
		_, err = b.tx.Exec(
			`INSERT INTO splits (guid, tx_guid, account_guid, memo, action, reconcile_state,
			                     value_num, value_denom, quantity_num, quantity_denom)
			 VALUES (?, ?, ?, ?, '', 'n', ?, ?, ?, ?)`,
			s.GUID, s.TxGUID, s.AccountGUID, s.Memo, num, denom, num, denom)
		if err != nil {
			return fmt.Errorf("staging split: %w", err)
		}
	}
	return nil
}

// TransactionsOn returns every transaction with a split on the given
// account, splits included. Staged but unsaved transactions are visible.
func (b *Book) TransactionsOn(accountGUID string) ([]model.Transaction, error) {
	rows, err := b.tx.Query(
		`SELECT DISTINCT t.guid, t.currency_guid, t.num,
		        COALESCE(t.post_date, ''), COALESCE(t.enter_date, ''),
		        COALESCE(t.description, '')
		 FROM transactions t
		 JOIN splits s ON s.tx_guid = t.guid
		 WHERE s.account_guid = ?
		 ORDER BY t.post_date, t.guid`, accountGUID)
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var postDate, enterDate string
		if err := rows.Scan(&t.GUID, &t.CurrencyGUID, &t.Num, &postDate, &enterDate, &t.Description); err != nil {
			return nil, fmt.Errorf("reading transaction: %w", err)
		}
		if t.PostDate, err = parseTimestamp(postDate); err != nil {
			return nil, err
		}
		if t.EnterDate, err = parseTimestamp(enterDate); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	for i := range txns {
		if txns[i].Splits, err = b.splitsOf(txns[i].GUID); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// Balance returns the sum of all split values on an account.
func (b *Book) Balance(accountGUID string) (decimal.Decimal, error) {
	txns, err := b.TransactionsOn(accountGUID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, t := range txns {
		if s, ok := t.SplitFor(accountGUID); ok {
			total = total.Add(s.Value)
		}
	}
	return total, nil
}

func (b *Book) splitsOf(txGUID string) ([]model.Split, error) {
	rows, err := b.tx.Query(
		`SELECT guid, tx_guid, account_guid, memo, value_num, value_denom
		 FROM splits WHERE tx_guid = ? ORDER BY rowid`, txGUID)
	if err != nil {
		return nil, fmt.Errorf("reading splits: %w", err)
	}
	defer rows.Close()

	var splits []model.Split
	for rows.Next() {
		var s model.Split
		var num, denom int64
		if err := rows.Scan(&s.GUID, &s.TxGUID, &s.AccountGUID, &s.Memo, &num, &denom); err != nil {
			return nil, fmt.Errorf("reading split: %w", err)
		}
		s.Value = fixedToValue(num, denom)
		splits = append(splits, s)
	}
	return splits, rows.Err()
}

// valueToFixed converts a decimal to GnuCash num/denom fixed-point at the
// commodity's fraction. Values with more precision than the commodity
// carries are rejected rather than rounded.
func valueToFixed(v decimal.Decimal, fraction int) (num, denom int64, err error) {
	denom = int64(fraction)
	scaled := v.Mul(decimal.NewFromInt(denom))
	if !scaled.IsInteger() {
		return 0, 0, fmt.Errorf("value %s has more precision than commodity fraction %d", v, fraction)
	}
	return scaled.IntPart(), denom, nil
}

func fixedToValue(num, denom int64) decimal.Decimal {
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(denom))
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(tsFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
