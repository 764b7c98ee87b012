package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionBalance(t *testing.T) {
	txn := Transaction{
		Splits: []Split{
			{AccountGUID: "a", Value: decimal.NewFromFloat(-25.50)},
			{AccountGUID: "b", Value: decimal.NewFromFloat(25.50)},
		},
	}
	assert.True(t, txn.Balance().IsZero())

	txn.Splits[1].Value = decimal.NewFromFloat(25.51)
	assert.False(t, txn.Balance().IsZero())
}

func TestSplitFor(t *testing.T) {
	txn := Transaction{
		Splits: []Split{
			{AccountGUID: "target", Value: decimal.NewFromInt(-10)},
			{AccountGUID: "imbalance", Value: decimal.NewFromInt(10)},
		},
	}

	s, ok := txn.SplitFor("target")
	assert.True(t, ok)
	assert.Equal(t, "-10", s.Value.String())

	_, ok = txn.SplitFor("missing")
	assert.False(t, ok)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(morning, nextDay))
}
