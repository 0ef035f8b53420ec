package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel)

	l.Info("mongo fetch_batch ok",
		String("collection", "volume_price"),
		Int("rows", 3),
		Duration("duration_ms", 1500*time.Millisecond),
		Strings("symbols", []string{"300722", "600519"}),
	)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if line["message"] != "mongo fetch_batch ok" {
		t.Fatalf("unexpected message %v", line["message"])
	}
	if line["collection"] != "volume_price" || line["rows"] != float64(3) || line["duration_ms"] != float64(1500) {
		t.Fatalf("unexpected fields %v", line)
	}
	if line["symbols"] != "300722, 600519" {
		t.Fatalf("unexpected symbols %v", line["symbols"])
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)

	l.Info("dropped")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	l.Error("kept", Error(errors.New("boom")))
	if !bytes.Contains(buf.Bytes(), []byte(`"error":"boom"`)) {
		t.Fatalf("missing error field: %q", buf.String())
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.InfoLevel).With(String("component", "price_reader"))
	l.Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"price_reader"`)) {
		t.Fatalf("missing component: %q", buf.String())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error")
	}
}
