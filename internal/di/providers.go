package di

import (
	"context"
	"fmt"
	"time"

	"StockAccess/internal/domain/repository"
	"StockAccess/internal/handler/api"
	internalrepo "StockAccess/internal/repository"
	"StockAccess/internal/service/ratelimit"
	"StockAccess/internal/service/tushare"
	"StockAccess/internal/usecase"
	"StockAccess/pkg/cache"
	pkgch "StockAccess/pkg/clickhouse"
	"StockAccess/pkg/config"
	xhttp "StockAccess/pkg/http"
	pkgkafka "StockAccess/pkg/kafka"
	applogger "StockAccess/pkg/logger"
	"StockAccess/pkg/metrics"
	pkgmongo "StockAccess/pkg/mongo"
	"StockAccess/pkg/server"
)

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Noop{}
	}
	return metrics.New(nil)
}

// ProvideMongoClient connects to MongoDB. A failed connect or ping is a
// connection error.
func ProvideMongoClient(cfg *config.Config, l *applogger.Logger) (*pkgmongo.Client, func(), error) {
	client, err := pkgmongo.NewClient(
		pkgmongo.WithURI(cfg.Mongo.URI),
		pkgmongo.WithDatabase(cfg.Mongo.Database),
		pkgmongo.WithAppName(cfg.Mongo.AppName),
		pkgmongo.WithPoolSize(cfg.Mongo.MaxPoolSize, cfg.Mongo.MinPoolSize),
		pkgmongo.WithTimeouts(cfg.Mongo.ConnectTimeout, cfg.Mongo.ServerSelectionTimeout, cfg.Mongo.SocketTimeout),
		pkgmongo.WithPingTimeout(cfg.Mongo.PingTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", repository.ErrConnection, err)
	}
	l.Info("mongo connected", applogger.String("database", cfg.Mongo.Database))
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(ctx); err != nil {
			l.Warn("mongo disconnect error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideSymbolCache builds the ts_code resolution cache. Type "none"
// yields a nil cache.
func ProvideSymbolCache(cfg *config.Config) (cache.Service, func(), error) {
	var (
		svc cache.Service
		err error
	)
	switch cfg.Cache.Type {
	case "none":
		return nil, func() {}, nil
	case "redis", "layered":
		var rc *cache.RedisCache
		rc, err = cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 0, 0),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = rc
		if cfg.Cache.Type == "layered" {
			svc = cache.NewLayeredCache(rc, cache.WithLayeredMemory(cfg.Cache.MemorySize, cfg.Cache.TTL))
		}
	default:
		svc = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemorySize))
	}
	return svc, func() { _ = svc.Close() }, nil
}

// PriceReaders groups the daily and minute readers.
type PriceReaders struct {
	Daily  *internalrepo.MongoPriceReader
	Minute *internalrepo.MongoPriceReader
}

// ProvidePriceReaders creates one reader per mode sharing the symbol cache.
func ProvidePriceReaders(client *pkgmongo.Client, symbols cache.Service, l *applogger.Logger, m repository.Metrics, cfg *config.Config) *PriceReaders {
	cols := internalrepo.PriceCollections{
		Daily:  cfg.Mongo.Collections.Daily,
		Minute: cfg.Mongo.Collections.Minute,
		Info:   cfg.Mongo.Collections.Info,
	}
	out := &PriceReaders{}
	for _, mode := range []repository.Mode{repository.ModeDaily, repository.ModeMinute} {
		r := internalrepo.NewMongoPriceReader(client.DB(), mode, cols)
		r.SetLogger(l)
		r.SetMetrics(m)
		if symbols != nil {
			r.SetSymbolCache(symbols, cfg.Cache.TTL)
		}
		if mode == repository.ModeMinute {
			out.Minute = r
		} else {
			out.Daily = r
		}
	}
	return out
}

// ProvidePricesUseCase creates the price use case.
func ProvidePricesUseCase(readers *PriceReaders) *usecase.PricesUseCase {
	return usecase.NewPricesUseCase(readers.Daily, readers.Minute)
}

// ProvideTushareClient creates the Tushare calendar client. Without a token
// it reports itself disabled.
func ProvideTushareClient(cfg *config.Config, l *applogger.Logger) *tushare.Client {
	c := tushare.New(cfg.Tushare.Token, cfg.Tushare.URL, cfg.Tushare.Timeout)
	c.SetLogger(l)
	c.SetLimiter(ratelimit.New(cfg.Tushare.RatePerMinute, 1))
	return c
}

// ProvideCalendarUseCase merges Tushare with the dates in the daily collection.
func ProvideCalendarUseCase(ts *tushare.Client, client *pkgmongo.Client, l *applogger.Logger, m repository.Metrics, cfg *config.Config) *usecase.CalendarUseCase {
	store := internalrepo.NewMongoCalendar(client.DB(), cfg.Mongo.Collections.Daily)
	store.SetLogger(l)
	store.SetMetrics(m)
	uc := usecase.NewCalendarUseCase(ts, store)
	uc.SetLogger(l)
	return uc
}

// ProvideReferenceUseCase creates the index, score, user and financial readers.
func ProvideReferenceUseCase(client *pkgmongo.Client, l *applogger.Logger, m repository.Metrics, cfg *config.Config) *usecase.ReferenceUseCase {
	db := client.DB()
	index := internalrepo.NewMongoIndexReader(db, cfg.Mongo.Collections.Index, cfg.Mongo.Collections.Daily)
	scores := internalrepo.NewMongoScoreReader(db, cfg.Mongo.Collections.Scores)
	users := internalrepo.NewMongoUserReader(db, "", "")
	financials := internalrepo.NewMongoFinancialReader(db, nil)
	for _, r := range []interface {
		SetLogger(*applogger.Logger)
		SetMetrics(repository.Metrics)
	}{index, scores, users, financials} {
		r.SetLogger(l)
		r.SetMetrics(m)
	}
	return usecase.NewReferenceUseCase(index, scores, users, financials)
}

// ProvideExportUseCase creates the export use case.
func ProvideExportUseCase(prices *usecase.PricesUseCase, l *applogger.Logger) *usecase.ExportUseCase {
	uc := usecase.NewExportUseCase(prices)
	uc.SetLogger(l)
	return uc
}

// ProvideHTTPHandler creates the Echo handler for the read API.
func ProvideHTTPHandler(
	l *applogger.Logger,
	prices *usecase.PricesUseCase,
	calendar *usecase.CalendarUseCase,
	reference *usecase.ReferenceUseCase,
	client *pkgmongo.Client,
) xhttp.Handler {
	return api.NewPricesEchoHandler(l, prices, calendar, reference, client.Health)
}

// ProvideHTTPServer creates the Echo server from the server section.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithRateLimit(cfg.Server.RateLimit.PerSecond, cfg.Server.RateLimit.Burst),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}

// Toolkit bundles what the command line tool needs.
type Toolkit struct {
	Config   *config.Config
	Logger   *applogger.Logger
	Prices   *usecase.PricesUseCase
	Calendar *usecase.CalendarUseCase
	Export   *usecase.ExportUseCase
}

// ProvideToolkit assembles a Toolkit.
func ProvideToolkit(cfg *config.Config, l *applogger.Logger, prices *usecase.PricesUseCase, calendar *usecase.CalendarUseCase, export *usecase.ExportUseCase) *Toolkit {
	return &Toolkit{Config: cfg, Logger: l, Prices: prices, Calendar: calendar, Export: export}
}

// OpenSink creates the named export sink for mode. Closing the sink
// releases its client.
func OpenSink(ctx context.Context, cfg *config.Config, name string, mode repository.Mode, l *applogger.Logger) (repository.BarSink, error) {
	switch name {
	case "clickhouse":
		return openClickHouseSink(ctx, cfg, mode, l)
	case "kafka":
		return openKafkaSink(cfg, mode, l)
	default:
		return nil, fmt.Errorf("unknown sink %q (want clickhouse or kafka)", name)
	}
}

func openClickHouseSink(ctx context.Context, cfg *config.Config, mode repository.Mode, l *applogger.Logger) (repository.BarSink, error) {
	ch := cfg.Export.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithAddr(ch.Host, ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithPool(4, 2, 0),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	sink := internalrepo.NewClickHouseBarSink(client.DB(), ch.Table, string(mode))
	sink.SetLogger(l)
	if err := client.InitSchema(ctx, sink.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return &ownedSink{BarSink: sink, close: client.Close}, nil
}

func openKafkaSink(cfg *config.Config, mode repository.Mode, l *applogger.Logger) (repository.BarSink, error) {
	k := cfg.Export.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithMaxAttempts(k.MaxAttempts),
		pkgkafka.WithBatch(k.BatchSize, k.BatchTimeout),
		pkgkafka.WithWriteTimeout(k.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaBarPublisher(producer, k.Topic, string(mode))
	pub.SetLogger(l)
	return pub, nil
}

// ownedSink closes the client behind a sink after the sink itself.
type ownedSink struct {
	repository.BarSink
	close func() error
}

func (s *ownedSink) Close() error {
	err := s.BarSink.Close()
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}
