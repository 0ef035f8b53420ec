package repository

import (
	"time"

	domrepo "StockAccess/internal/domain/repository"
	applogger "StockAccess/pkg/logger"
)

// instrumented carries the optional logger and metrics shared by the readers.
type instrumented struct {
	m domrepo.Metrics
	l *applogger.Logger
}

// SetLogger injects a structured logger.
func (i *instrumented) SetLogger(l *applogger.Logger) { i.l = l }

// SetMetrics injects a metrics recorder.
func (i *instrumented) SetMetrics(m domrepo.Metrics) { i.m = m }

func (i *instrumented) warn(msg string, fields ...applogger.Field) {
	if i.l != nil {
		i.l.Warn(msg, fields...)
	}
}

// observe logs and records one finished store call.
func (i *instrumented) observe(op, collection, mode string, began time.Time, rows int, err error, fields ...applogger.Field) {
	elapsed := time.Since(began)
	if i.m != nil {
		i.m.RecordQuery(op, mode)
		i.m.RecordLatency(op, elapsed.Seconds())
		if err != nil {
			i.m.RecordError(op, kindLabel(err))
		} else {
			i.m.RecordRows(op, rows)
		}
	}
	if i.l == nil {
		return
	}
	fields = append(fields,
		applogger.String("collection", collection),
		applogger.Int("rows", rows),
		applogger.Duration("duration_ms", elapsed),
	)
	if mode != "" {
		fields = append(fields, applogger.String("mode", mode))
	}
	if err != nil {
		i.l.Error("mongo "+op+" error", append(fields, applogger.Error(err))...)
		return
	}
	i.l.Info("mongo "+op+" ok", fields...)
}
