package repository

import (
	"context"
	"errors"
	"time"

	"StockAccess/internal/domain/models"
	applogger "StockAccess/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ScoreCollection = "stock_scores"

// compositeStyles are dimensions stored under composite_score.<style>.
var compositeStyles = map[string]struct{}{
	"balanced":         {},
	"aggressive":       {},
	"conservative":     {},
	"defensive":        {},
	"value_oriented":   {},
	"trading_oriented": {},
	"growth_oriented":  {},
	"cycle_oriented":   {},
}

// ScoreField returns the document field a dimension sorts on.
func ScoreField(dimension string) string {
	if _, ok := compositeStyles[dimension]; ok {
		return "composite_score." + dimension
	}
	return dimension + "_score"
}

// MongoScoreReader picks top scored symbols from the scores collection.
type MongoScoreReader struct {
	scores *mongo.Collection
	instrumented
}

func NewMongoScoreReader(db *mongo.Database, coll string) *MongoScoreReader {
	if coll == "" {
		coll = ScoreCollection
	}
	return &MongoScoreReader{scores: db.Collection(coll)}
}

type scoreDateDoc struct {
	ScoreDate string `bson:"score_date"`
}

// ResolveNearestScoreDate returns date when scores exist for it, else the
// latest earlier score date, else the latest score date overall, else date.
func (r *MongoScoreReader) ResolveNearestScoreDate(ctx context.Context, date string) (string, error) {
	const op = "resolve_score_date"
	began := time.Now()
	latest := options.FindOne().
		SetSort(bson.D{{Key: "score_date", Value: -1}}).
		SetProjection(bson.M{"_id": 0, "score_date": 1})
	for _, filter := range []bson.M{
		{"score_date": date},
		{"score_date": bson.M{"$lte": date}},
		{},
	} {
		var d scoreDateDoc
		err := r.scores.FindOne(ctx, filter, latest).Decode(&d)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			err = classify(op, err)
			r.observe(op, r.scores.Name(), "", began, 0, err, applogger.String("date", date))
			return "", err
		}
		if d.ScoreDate != "" {
			r.observe(op, r.scores.Name(), "", began, 1, nil,
				applogger.String("date", date),
				applogger.String("resolved", d.ScoreDate),
			)
			return d.ScoreDate, nil
		}
	}
	r.observe(op, r.scores.Name(), "", began, 0, nil, applogger.String("date", date))
	return date, nil
}

// SelectTop returns up to topN symbols by descending score. A topN of zero
// or less returns every scored symbol.
func (r *MongoScoreReader) SelectTop(ctx context.Context, date, dimension string, topN int, autoResolve bool) (*models.ScoreSelection, error) {
	const op = "select_top"
	if autoResolve {
		resolved, err := r.ResolveNearestScoreDate(ctx, date)
		if err != nil {
			return nil, err
		}
		date = resolved
	}
	began := time.Now()
	field := ScoreField(dimension)
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetProjection(bson.M{"_id": 0, "symbol": 1, field: 1})
	if topN > 0 {
		opts.SetLimit(int64(topN))
	}
	cur, err := r.scores.Find(ctx, bson.M{"score_date": date, field: bson.M{"$exists": true}}, opts)
	if err != nil {
		err = classify(op, err)
		r.observe(op, r.scores.Name(), "", began, 0, err, applogger.String("field", field))
		return nil, err
	}
	var docs []struct {
		Symbol string `bson:"symbol"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		err = classify(op, err)
		r.observe(op, r.scores.Name(), "", began, 0, err, applogger.String("field", field))
		return nil, err
	}
	sel := &models.ScoreSelection{ScoreDate: date, Dimension: dimension, Symbols: make([]string, 0, len(docs))}
	for _, d := range docs {
		if d.Symbol != "" {
			sel.Symbols = append(sel.Symbols, d.Symbol)
		}
	}
	r.observe(op, r.scores.Name(), "", began, len(sel.Symbols), nil,
		applogger.String("date", date),
		applogger.String("field", field),
	)
	return sel, nil
}
