package mongo

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fintrack/internal/core"
	"fintrack/internal/records"
)

func decode[T any](t *testing.T, doc bson.M) T {
	t.Helper()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var out T
	require.NoError(t, bson.Unmarshal(raw, &out))
	return out
}

func TestUserFilter(t *testing.T) {
	plain := userFilter("alice")
	ids := plain["userId"].(bson.M)["$in"].(bson.A)
	assert.Len(t, ids, 1)

	oid := primitive.NewObjectID()
	withOID := userFilter(oid.Hex())
	ids = withOID["userId"].(bson.M)["$in"].(bson.A)
	require.Len(t, ids, 2)
	assert.Equal(t, oid, ids[1])
}

func TestDateFilter(t *testing.T) {
	assert.Empty(t, dateFilter(core.DateRange{}))

	r, err := core.NewDateRange(core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31))
	require.NoError(t, err)
	f := dateFilter(r)
	assert.Equal(t, r.Start, f["$gte"])
	assert.Equal(t, r.End, f["$lte"])
}

func TestTransactionDocConversion(t *testing.T) {
	oid := primitive.NewObjectID()
	userOID := primitive.NewObjectID()
	when := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)

	doc := decode[transactionDoc](t, bson.M{
		"_id":         oid,
		"userId":      userOID,
		"amount":      42.5,
		"type":        "expense",
		"category":    "Food",
		"date":        primitive.NewDateTimeFromTime(when),
		"description": "lunch",
	})
	tx, err := doc.toTransaction()
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), tx.ID)
	assert.Equal(t, userOID.Hex(), tx.UserID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, core.Expense, tx.Type)
	assert.True(t, tx.Date.Equal(when))
}

func TestTransactionDocStringFields(t *testing.T) {
	doc := decode[transactionDoc](t, bson.M{
		"_id":    "t1",
		"userId": "u1",
		"amount": "12,30",
		"type":   "Income",
		"date":   "2025-01-05",
	})
	tx, err := doc.toTransaction()
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("12.30")))
	assert.Equal(t, core.NewDate(2025, 1, 5), tx.Date)
}

func TestTransactionDocMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
	}{
		{"unknown type", bson.M{"_id": "t", "amount": 1, "type": "transfer", "date": "2025-01-01"}},
		{"bad amount", bson.M{"_id": "t", "amount": "abc", "type": "income", "date": "2025-01-01"}},
		{"missing date", bson.M{"_id": "t", "amount": 1, "type": "income"}},
		{"boolean amount", bson.M{"_id": "t", "amount": true, "type": "income", "date": "2025-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode[transactionDoc](t, tt.doc).toTransaction()
			assert.True(t, errors.Is(err, records.ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestGoalAndBudgetDocConversion(t *testing.T) {
	g, err := decode[goalDoc](t, bson.M{
		"_id":          "g1",
		"userId":       "u1",
		"name":         "House",
		"targetAmount": int32(1000),
		"savedAmount":  int64(250),
	}).toGoal()
	require.NoError(t, err)
	assert.Nil(t, g.Deadline)
	assert.True(t, g.TargetAmount.Equal(decimal.NewFromInt(1000)))

	d128, err := primitive.ParseDecimal128("99.95")
	require.NoError(t, err)
	b, err := decode[budgetDoc](t, bson.M{"_id": "b1", "userId": "u1", "category": "Food", "amount": d128}).toBudget()
	require.NoError(t, err)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("99.95")))
}
