package repository

import (
	"context"
	"fmt"
	"time"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	applogger "StockAccess/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultFinancialCollections maps each kind to its collection.
var DefaultFinancialCollections = map[models.FinancialKind]string{
	models.FinCashflow:          "financial_cashflow",
	models.FinIncome:            "financial_income",
	models.FinBalance:           "financial_balance",
	models.FinIndicator:         "financial_indicator",
	models.FinDailyBasic:        "financial_daily_basic",
	models.FinIndexConstituents: "index_constituents",
}

// MongoFinancialReader returns the latest statement documents of a kind.
type MongoFinancialReader struct {
	colls map[models.FinancialKind]*mongo.Collection
	instrumented
}

// NewMongoFinancialReader uses names to override collection names per kind.
func NewMongoFinancialReader(db *mongo.Database, names map[models.FinancialKind]string) *MongoFinancialReader {
	colls := make(map[models.FinancialKind]*mongo.Collection, len(DefaultFinancialCollections))
	for kind, name := range DefaultFinancialCollections {
		if n := names[kind]; n != "" {
			name = n
		}
		colls[kind] = db.Collection(name)
	}
	return &MongoFinancialReader{colls: colls}
}

// FetchDocs sorts by sortField descending (end_date when empty) and keeps
// the first periods documents; periods <= 0 keeps all. A nil query matches
// every document.
func (r *MongoFinancialReader) FetchDocs(ctx context.Context, kind models.FinancialKind, query interface{}, periods int, sortField string) ([]models.FinancialDoc, error) {
	const op = "fetch_financials"
	coll, ok := r.colls[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown financial kind %q", domrepo.ErrQuery, kind)
	}
	if query == nil {
		query = bson.M{}
	}
	if sortField == "" {
		sortField = "end_date"
	}
	began := time.Now()
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	if periods > 0 {
		opts.SetLimit(int64(periods))
	}
	cur, err := coll.Find(ctx, query, opts)
	if err != nil {
		err = classify(op, err)
		r.observe(op, coll.Name(), "", began, 0, err)
		return nil, err
	}
	docs := []models.FinancialDoc{}
	if err := cur.All(ctx, &docs); err != nil {
		err = classify(op, err)
		r.observe(op, coll.Name(), "", began, 0, err)
		return nil, err
	}
	r.observe(op, coll.Name(), "", began, len(docs), nil,
		applogger.String("sort", sortField),
		applogger.Int("periods", periods),
	)
	return docs, nil
}
