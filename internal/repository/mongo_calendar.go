package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	domrepo "StockAccess/internal/domain/repository"
	applogger "StockAccess/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCalendar derives trading days from the dates present in the daily
// price collection.
type MongoCalendar struct {
	coll *mongo.Collection
	instrumented
}

func NewMongoCalendar(db *mongo.Database, dailyColl string) *MongoCalendar {
	if dailyColl == "" {
		dailyColl = DailyCollection
	}
	return &MongoCalendar{coll: db.Collection(dailyColl)}
}

// TradingDays returns the distinct string trade dates in [start, end],
// sorted ascending.
func (c *MongoCalendar) TradingDays(ctx context.Context, start, end string) ([]string, error) {
	const op = "trading_days"
	lo, hi, err := dayRange(start, end)
	if err != nil {
		return nil, err
	}
	began := time.Now()
	filter := bson.M{"trade_date": bson.M{"$gte": lo, "$lte": hi}}
	vals, err := c.coll.Distinct(ctx, "trade_date", filter)
	if err != nil {
		err = classify(op, err)
		if errors.Is(err, domrepo.ErrConnection) {
			c.observe(op, c.coll.Name(), "", began, 0, err)
			return nil, err
		}
		c.warn("mongo trading_days distinct failed, scanning", applogger.Error(err))
		vals, err = c.scanDates(ctx, filter)
		if err != nil {
			err = classify(op, err)
			c.observe(op, c.coll.Name(), "", began, 0, err)
			return nil, err
		}
	}
	days := make([]string, 0, len(vals))
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		days = append(days, s)
	}
	sort.Strings(days)
	c.observe(op, c.coll.Name(), "", began, len(days), nil,
		applogger.String("start", lo),
		applogger.String("end", hi),
	)
	return days, nil
}

// scanDates reads trade_date from every matching document.
func (c *MongoCalendar) scanDates(ctx context.Context, filter bson.M) ([]interface{}, error) {
	cur, err := c.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 0, "trade_date": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []interface{}
	for cur.Next(ctx) {
		if s, ok := cur.Current.Lookup("trade_date").StringValueOK(); ok {
			out = append(out, s)
		}
	}
	return out, cur.Err()
}
