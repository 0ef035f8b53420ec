package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/pkg/cache"
	applogger "StockAccess/pkg/logger"
	"StockAccess/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// Default collection names.
const (
	DailyCollection     = "volume_price"
	MinuteCollection    = "minute_bars"
	StockInfoCollection = "stock_info"
)

// PriceCollections names the collections a MongoPriceReader reads.
// Empty fields fall back to the defaults.
type PriceCollections struct {
	Daily  string
	Minute string
	Info   string
}

// MongoPriceReader implements PriceReader backed by MongoDB.
type MongoPriceReader struct {
	mode     domrepo.Mode
	price    *mongo.Collection
	info     *mongo.Collection
	cache    cache.Service
	cacheTTL time.Duration
	resolves singleflight.Group
	instrumented
}

func NewMongoPriceReader(db *mongo.Database, mode domrepo.Mode, cols PriceCollections) *MongoPriceReader {
	if !domrepo.IsValidMode(mode) {
		mode = domrepo.DefaultMode()
	}
	if cols.Daily == "" {
		cols.Daily = DailyCollection
	}
	if cols.Minute == "" {
		cols.Minute = MinuteCollection
	}
	if cols.Info == "" {
		cols.Info = StockInfoCollection
	}
	price := cols.Daily
	if mode == domrepo.ModeMinute {
		price = cols.Minute
	}
	return &MongoPriceReader{
		mode:  mode,
		price: db.Collection(price),
		info:  db.Collection(cols.Info),
	}
}

// SetSymbolCache memoises symbol to ts_code lookups. A zero ttl keeps
// entries until evicted.
func (r *MongoPriceReader) SetSymbolCache(c cache.Service, ttl time.Duration) {
	r.cache = c
	r.cacheTTL = ttl
}

func (r *MongoPriceReader) Mode() domrepo.Mode { return r.mode }

// Bounds normalises a start/end pair to the trade_date layout of the mode.
func (r *MongoPriceReader) Bounds(start, end string) (string, string, error) {
	if r.mode != domrepo.ModeMinute {
		return dayRange(start, end)
	}
	lo, err := util.MinuteBound(start, false)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	hi, err := util.MinuteBound(end, true)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	if lo > hi {
		return "", "", fmt.Errorf("%w: start %s after end %s", domrepo.ErrQuery, start, end)
	}
	return lo, hi, nil
}

func (r *MongoPriceReader) FetchBatch(ctx context.Context, symbols []string, start, end string) (models.Series, error) {
	const op = "fetch_batch"
	began := time.Now()
	symbols = util.DedupSymbols(symbols)
	lo, hi, err := r.Bounds(start, end)
	if err != nil {
		r.observe(op, began, 0, err)
		return nil, err
	}
	out := make(models.Series, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	for _, s := range symbols {
		out[s] = []models.Bar{}
	}

	filter := bson.M{
		"symbol":     bson.M{"$in": symbols},
		"trade_date": bson.M{"$gte": lo, "$lte": hi},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "symbol", Value: 1}, {Key: "trade_date", Value: 1}}).
		SetProjection(bson.M{"_id": 0, "symbol": 1, "trade_date": 1, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1})
	cur, err := r.price.Find(ctx, filter, opts)
	if err != nil {
		err = classify(op, err)
		r.observe(op, began, 0, err, applogger.Int("symbols", len(symbols)))
		return nil, err
	}
	defer cur.Close(ctx)

	loT, _ := util.ParseTradeDate(lo)
	hiT, _ := util.ParseTradeDate(hi)
	rows := 0
	for cur.Next(ctx) {
		ts, perr := tradeTime(cur.Current)
		if perr != nil {
			r.warn("mongo fetch_batch skip bar",
				applogger.String("symbol", cur.Current.Lookup("symbol").String()),
				applogger.String("trade_date", cur.Current.Lookup("trade_date").String()),
				applogger.Error(perr),
			)
			continue
		}
		if ts.Before(loT) || ts.After(hiT) {
			continue
		}
		var b models.Bar
		if err := cur.Decode(&b); err != nil {
			err = classify(op, fmt.Errorf("decode bar: %w", err))
			r.observe(op, began, rows, err)
			return nil, err
		}
		bars, ok := out[b.Symbol]
		if !ok {
			continue
		}
		b.Timestamp = ts
		// Timestamps in a series are unique; later duplicates are dropped.
		if n := len(bars); n > 0 && !bars[n-1].Timestamp.Before(ts) {
			continue
		}
		out[b.Symbol] = append(bars, b)
		rows++
	}
	if err := cur.Err(); err != nil {
		err = classify(op, err)
		r.observe(op, began, rows, err)
		return nil, err
	}
	r.observe(op, began, rows, nil,
		applogger.Int("symbols", len(symbols)),
		applogger.String("start", lo),
		applogger.String("end", hi),
	)
	return out, nil
}

func (r *MongoPriceReader) FetchFrame(ctx context.Context, symbols []string, start, end string, opts models.FrameOptions) (*models.Frame, error) {
	symbols = util.DedupSymbols(symbols)
	series, err := r.FetchBatch(ctx, symbols, start, end)
	if err != nil {
		return nil, err
	}
	return models.NewFrame(symbols, series, opts), nil
}

// tradeTime parses the trade_date of a raw bar document. Non-string
// values are an error.
func tradeTime(doc bson.Raw) (time.Time, error) {
	v := doc.Lookup("trade_date")
	s, ok := v.StringValueOK()
	if !ok {
		return time.Time{}, fmt.Errorf("trade_date has bson type %s", v.Type)
	}
	return util.ParseTradeDate(s)
}

type infoDoc struct {
	Symbol string `bson:"symbol"`
	TSCode string `bson:"ts_code"`
	Name   string `bson:"name"`
}

func (r *MongoPriceReader) FetchNames(ctx context.Context, symbols []string) (map[string]string, error) {
	const op = "fetch_names"
	began := time.Now()
	symbols = util.DedupSymbols(symbols)
	out := make(map[string]string, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}
	docs, err := r.findInfo(ctx, symbols, bson.M{"_id": 0, "symbol": 1, "name": 1})
	if err != nil {
		err = classify(op, err)
		r.observe(op, began, 0, err, applogger.Int("symbols", len(symbols)))
		return nil, err
	}
	for _, d := range docs {
		if d.Symbol == "" {
			continue
		}
		out[d.Symbol] = d.Name
	}
	r.observe(op, began, len(out), nil, applogger.Int("symbols", len(symbols)))
	return out, nil
}

func (r *MongoPriceReader) ResolveTSCode(ctx context.Context, symbol string) (string, bool, error) {
	const op = "resolve_ts_code"
	if symbol == "" {
		return "", false, nil
	}
	key := cache.GenerateKey("tscode", symbol)
	if r.cache != nil {
		var code string
		err := r.cache.Get(ctx, key, &code)
		if err == nil && code != "" {
			return code, true, nil
		}
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			r.warn("symbol cache get failed", applogger.String("key", key), applogger.Error(err))
		}
	}

	// Concurrent misses for one symbol share a single lookup.
	v, err, _ := r.resolves.Do(symbol, func() (interface{}, error) {
		began := time.Now()
		var d infoDoc
		err := r.info.FindOne(ctx, bson.M{"symbol": symbol}, options.FindOne().SetProjection(bson.M{"_id": 0, "ts_code": 1})).Decode(&d)
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.observe(op, began, 0, nil, applogger.String("symbol", symbol))
			return "", nil
		}
		if err != nil {
			err = classify(op, err)
			r.observe(op, began, 0, err, applogger.String("symbol", symbol))
			return "", err
		}
		if d.TSCode != "" {
			r.remember(ctx, map[string]interface{}{key: d.TSCode})
		}
		r.observe(op, began, 1, nil, applogger.String("symbol", symbol))
		return d.TSCode, nil
	})
	if err != nil {
		return "", false, err
	}
	code := v.(string)
	return code, code != "", nil
}

func (r *MongoPriceReader) ResolveMany(ctx context.Context, symbols []string) (map[string]string, error) {
	const op = "resolve_many"
	symbols = util.DedupSymbols(symbols)
	out := make(map[string]string, len(symbols))
	missing := symbols
	if r.cache != nil && len(symbols) > 0 {
		keys := make([]string, len(symbols))
		for i, s := range symbols {
			keys[i] = cache.GenerateKey("tscode", s)
		}
		hits, err := r.cache.MGet(ctx, keys...)
		if err != nil {
			r.warn("symbol cache mget failed", applogger.Error(err))
		}
		missing = missing[:0:0]
		for i, s := range symbols {
			if code := hits[keys[i]]; code != "" {
				out[s] = code
				continue
			}
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	began := time.Now()
	docs, err := r.findInfo(ctx, missing, bson.M{"_id": 0, "symbol": 1, "ts_code": 1})
	if err != nil {
		err = classify(op, err)
		r.observe(op, began, 0, err, applogger.Int("symbols", len(missing)))
		return nil, err
	}
	fresh := make(map[string]interface{}, len(docs))
	for _, d := range docs {
		if d.Symbol == "" || d.TSCode == "" {
			continue
		}
		out[d.Symbol] = d.TSCode
		fresh[cache.GenerateKey("tscode", d.Symbol)] = d.TSCode
	}
	r.remember(ctx, fresh)
	r.observe(op, began, len(fresh), nil, applogger.Int("symbols", len(missing)))
	return out, nil
}

type closeDoc struct {
	TSCode string  `bson:"ts_code"`
	Close  float64 `bson:"close"`
}

func (r *MongoPriceReader) FetchLatestClose(ctx context.Context, symbols []string, date string) (map[string]float64, error) {
	const op = "fetch_latest_close"
	if _, err := util.ParseTradeDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	codes, err := r.ResolveMany(ctx, symbols)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	bySymbol := make(map[string]string, len(codes))
	list := make([]string, 0, len(codes))
	for sym, code := range codes {
		bySymbol[code] = sym
		list = append(list, code)
	}

	began := time.Now()
	cur, err := r.price.Find(ctx,
		bson.M{"ts_code": bson.M{"$in": list}, "trade_date": date},
		options.Find().SetProjection(bson.M{"_id": 0, "ts_code": 1, "close": 1}),
	)
	if err != nil {
		err = classify(op, err)
		r.observe(op, began, 0, err, applogger.String("date", date))
		return nil, err
	}
	var docs []closeDoc
	if err := cur.All(ctx, &docs); err != nil {
		err = classify(op, err)
		r.observe(op, began, 0, err, applogger.String("date", date))
		return nil, err
	}
	for _, d := range docs {
		if sym, ok := bySymbol[d.TSCode]; ok {
			out[sym] = d.Close
		}
	}
	r.observe(op, began, len(out), nil, applogger.String("date", date))
	return out, nil
}

func (r *MongoPriceReader) findInfo(ctx context.Context, symbols []string, projection bson.M) ([]infoDoc, error) {
	cur, err := r.info.Find(ctx, bson.M{"symbol": bson.M{"$in": symbols}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	var docs []infoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *MongoPriceReader) remember(ctx context.Context, values map[string]interface{}) {
	if r.cache == nil || len(values) == 0 {
		return
	}
	if err := r.cache.MSet(ctx, values, r.cacheTTL); err != nil {
		r.warn("symbol cache set failed", applogger.Int("keys", len(values)), applogger.Error(err))
	}
}

func (r *MongoPriceReader) observe(op string, began time.Time, rows int, err error, fields ...applogger.Field) {
	r.instrumented.observe(op, r.price.Name(), string(r.mode), began, rows, err, fields...)
}
