// Package mongo reads financial records from the MongoDB collections the
// product's API writes to.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/records"
)

const (
	transactionsCollection = "transactions"
	goalsCollection        = "goals"
	budgetsCollection      = "budgets"
)

// Source implements records.Source over MongoDB.
type Source struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

// Connect dials uri, pings the server and returns a Source over dbName.
func Connect(ctx context.Context, uri, dbName string, logger *log.Logger) (*Source, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping MongoDB")
	}
	s := New(client.Database(dbName), logger)
	s.client = client
	s.logger.Info("Connected to MongoDB", "database", dbName)
	return s, nil
}

// New wraps an existing database handle. Close is a no-op for such sources.
func New(db *mongo.Database, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Source{db: db, logger: logger.WithComponent(log.ComponentStorage)}
}

// Close disconnects the client opened by Connect.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ping reports whether the server is reachable.
func (s *Source) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

type transactionDoc struct {
	ID          any           `bson:"_id"`
	UserID      any           `bson:"userId"`
	Amount      bson.RawValue `bson:"amount"`
	Type        string        `bson:"type"`
	Category    string        `bson:"category"`
	Date        bson.RawValue `bson:"date"`
	Description string        `bson:"description"`
}

type goalDoc struct {
	ID           any           `bson:"_id"`
	UserID       any           `bson:"userId"`
	Name         string        `bson:"name"`
	Category     string        `bson:"category"`
	TargetAmount bson.RawValue `bson:"targetAmount"`
	SavedAmount  bson.RawValue `bson:"savedAmount"`
	TargetDate   bson.RawValue `bson:"targetDate"`
}

type budgetDoc struct {
	ID       any           `bson:"_id"`
	UserID   any           `bson:"userId"`
	Category string        `bson:"category"`
	Amount   bson.RawValue `bson:"amount"`
}

// Transactions implements records.Source
func (s *Source) Transactions(ctx context.Context, userID string, r core.DateRange) ([]core.Transaction, error) {
	filter := userFilter(userID)
	if dates := dateFilter(r); len(dates) > 0 {
		filter["date"] = dates
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	var docs []transactionDoc
	if err := s.find(ctx, transactionsCollection, filter, &docs, opts); err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(docs))
	for _, d := range docs {
		t, err := d.toTransaction()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	s.logger.DebugContext(ctx, "Transactions loaded", log.FieldUserID, userID, log.FieldRecords, len(out))
	return out, nil
}

// Goals implements records.Source
func (s *Source) Goals(ctx context.Context, userID string) ([]core.Goal, error) {
	var docs []goalDoc
	if err := s.find(ctx, goalsCollection, userFilter(userID), &docs, nil); err != nil {
		return nil, err
	}
	out := make([]core.Goal, 0, len(docs))
	for _, d := range docs {
		g, err := d.toGoal()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// Budgets implements records.Source. Documents with isActive=false are skipped;
// a missing flag counts as active.
func (s *Source) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	filter := userFilter(userID)
	filter["isActive"] = bson.M{"$ne": false}

	var docs []budgetDoc
	if err := s.find(ctx, budgetsCollection, filter, &docs, nil); err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(docs))
	for _, d := range docs {
		b, err := d.toBudget()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *Source) find(ctx context.Context, coll string, filter bson.M, into any, opts *options.FindOptions) error {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cursor, err := s.db.Collection(coll).Find(ctx, filter, findOpts...)
	if err != nil {
		return errors.Wrapf(err, "find %s", coll)
	}
	if err := cursor.All(ctx, into); err != nil {
		return errors.Wrapf(err, "decode %s", coll)
	}
	return nil
}

// userFilter matches userId stored either as a string or as an ObjectID.
func userFilter(userID string) bson.M {
	ids := bson.A{userID}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		ids = append(ids, oid)
	}
	return bson.M{"userId": bson.M{"$in": ids}}
}

func dateFilter(r core.DateRange) bson.M {
	m := bson.M{}
	if !r.Start.IsZero() {
		m["$gte"] = r.Start.UTC()
	}
	if !r.End.IsZero() {
		m["$lte"] = r.End.UTC()
	}
	return m
}

func (d transactionDoc) toTransaction() (core.Transaction, error) {
	id := idString(d.ID)
	amount, err := amountFromRaw(d.Amount)
	if err != nil {
		return core.Transaction{}, malformed("transaction", id, err)
	}
	typ, err := core.ParseTxType(d.Type)
	if err != nil {
		return core.Transaction{}, malformed("transaction", id, err)
	}
	date, err := timeFromRaw(d.Date)
	if err != nil || date.IsZero() {
		return core.Transaction{}, malformed("transaction", id, fmt.Errorf("bad date"))
	}
	return core.Transaction{
		ID:          id,
		UserID:      idString(d.UserID),
		Amount:      amount,
		Type:        typ,
		Category:    d.Category,
		Date:        date,
		Description: d.Description,
	}, nil
}

func (d goalDoc) toGoal() (core.Goal, error) {
	id := idString(d.ID)
	target, err := amountFromRaw(d.TargetAmount)
	if err != nil {
		return core.Goal{}, malformed("goal", id, err)
	}
	saved, err := amountFromRaw(d.SavedAmount)
	if err != nil {
		return core.Goal{}, malformed("goal", id, err)
	}
	g := core.Goal{
		ID:           id,
		UserID:       idString(d.UserID),
		Name:         d.Name,
		Category:     d.Category,
		TargetAmount: target,
		SavedAmount:  saved,
	}
	deadline, err := timeFromRaw(d.TargetDate)
	if err != nil {
		return core.Goal{}, malformed("goal", id, err)
	}
	if !deadline.IsZero() {
		g.Deadline = &deadline
	}
	return g, nil
}

func (d budgetDoc) toBudget() (core.Budget, error) {
	id := idString(d.ID)
	amount, err := amountFromRaw(d.Amount)
	if err != nil {
		return core.Budget{}, malformed("budget", id, err)
	}
	return core.Budget{ID: id, UserID: idString(d.UserID), Category: d.Category, Amount: amount}, nil
}

func malformed(kind, id string, cause error) error {
	return errors.Wrapf(records.ErrMalformedRecord, "%s %s: %v", kind, id, cause)
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// amountFromRaw accepts every numeric BSON type plus numeric strings.
// A missing or null field reads as zero.
func amountFromRaw(v bson.RawValue) (decimal.Decimal, error) {
	switch v.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return decimal.Zero, nil
	case bsontype.Double:
		return decimal.NewFromFloat(v.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(v.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(v.Int64()), nil
	case bsontype.Decimal128:
		return decimal.NewFromString(v.Decimal128().String())
	case bsontype.String:
		return core.ParseAmount(v.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %s", v.Type)
	}
}

// timeFromRaw accepts BSON dates and date strings. Missing or null yields zero.
func timeFromRaw(v bson.RawValue) (time.Time, error) {
	switch v.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return time.Time{}, nil
	case bsontype.DateTime:
		return time.UnixMilli(v.DateTime()).UTC(), nil
	case bsontype.String:
		return core.ParseDate(strings.TrimSpace(v.StringValue()))
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %s", v.Type)
	}
}
