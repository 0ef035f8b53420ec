package repository

import (
	"context"
	"strings"
	"time"

	"StockAccess/internal/domain/models"
	applogger "StockAccess/pkg/logger"
	"StockAccess/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const IndexCollection = "index_prices"

// MongoIndexReader reads index close series, falling back to stock closes
// for codes the index collection does not carry.
type MongoIndexReader struct {
	index *mongo.Collection
	stock *mongo.Collection
	instrumented
}

func NewMongoIndexReader(db *mongo.Database, indexColl, stockColl string) *MongoIndexReader {
	if indexColl == "" {
		indexColl = IndexCollection
	}
	if stockColl == "" {
		stockColl = DailyCollection
	}
	return &MongoIndexReader{index: db.Collection(indexColl), stock: db.Collection(stockColl)}
}

type closePoint struct {
	TradeDate string  `bson:"trade_date"`
	Close     float64 `bson:"close"`
}

func (r *MongoIndexReader) LoadRaw(ctx context.Context, tsCode, start, end string) (*models.IndexSeries, error) {
	pts, err := r.closes(ctx, "load_raw", r.index, bson.M{"ts_code": tsCode}, start, end)
	if err != nil {
		return nil, err
	}
	return &models.IndexSeries{Code: tsCode, Points: pts}, nil
}

// LoadNormalized divides every close by the first one. When the index
// collection has nothing for tsCode the stock closes of its bare symbol
// are used instead.
func (r *MongoIndexReader) LoadNormalized(ctx context.Context, tsCode, start, end string) (*models.IndexSeries, error) {
	const op = "load_normalized"
	out := &models.IndexSeries{Code: tsCode + "_norm", Points: []models.IndexPoint{}}
	pts, err := r.closes(ctx, op, r.index, bson.M{"ts_code": tsCode}, start, end)
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		pts, err = r.closes(ctx, op, r.stock, bson.M{"symbol": bareSymbol(tsCode)}, start, end)
		if err != nil {
			return nil, err
		}
	}
	if len(pts) == 0 || pts[0].Close == 0 {
		return out, nil
	}
	base := pts[0].Close
	for _, p := range pts {
		out.Points = append(out.Points, models.IndexPoint{Date: p.Date, Close: p.Close / base})
	}
	return out, nil
}

func (r *MongoIndexReader) closes(ctx context.Context, op string, coll *mongo.Collection, filter bson.M, start, end string) ([]models.IndexPoint, error) {
	began := time.Now()
	lo, hi, err := dayRange(start, end)
	if err != nil {
		return nil, err
	}
	filter["trade_date"] = bson.M{"$gte": lo, "$lte": hi}
	opts := options.Find().
		SetSort(bson.D{{Key: "trade_date", Value: 1}}).
		SetProjection(bson.M{"_id": 0, "trade_date": 1, "close": 1})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		err = classify(op, err)
		r.observe(op, coll.Name(), "", began, 0, err)
		return nil, err
	}
	var docs []closePoint
	if err := cur.All(ctx, &docs); err != nil {
		err = classify(op, err)
		r.observe(op, coll.Name(), "", began, 0, err)
		return nil, err
	}
	pts := make([]models.IndexPoint, 0, len(docs))
	for _, d := range docs {
		ts, perr := util.ParseTradeDate(d.TradeDate)
		if perr != nil {
			r.warn("mongo "+op+" skip point", applogger.String("trade_date", d.TradeDate), applogger.Error(perr))
			continue
		}
		pts = append(pts, models.IndexPoint{Date: ts, Close: d.Close})
	}
	r.observe(op, coll.Name(), "", began, len(pts), nil, applogger.String("start", lo), applogger.String("end", hi))
	return pts, nil
}

// bareSymbol strips an exchange suffix: 300722.SZ -> 300722.
func bareSymbol(tsCode string) string {
	if i := strings.LastIndexByte(tsCode, '.'); i > 0 {
		return tsCode[:i]
	}
	return tsCode
}
