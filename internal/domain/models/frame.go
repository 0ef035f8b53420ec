package models

import (
	"sort"
	"time"
)

// FrameRow is one timestamp of a Frame. Bars holds the bar of every symbol
// that has one at this timestamp; a missing key is an unset cell.
type FrameRow struct {
	Timestamp time.Time       `json:"timestamp"`
	Bars      map[string]*Bar `json:"bars"`
}

// Frame aligns several series on the union of their timestamps, one column
// group (open/high/low/close/volume) per symbol.
type Frame struct {
	Symbols []string   `json:"symbols"`
	Rows    []FrameRow `json:"rows"`
}

// FrameOptions tunes how a Frame is built.
type FrameOptions struct {
	// ForwardFill carries the last bar of a symbol into later unset cells.
	ForwardFill bool
}

// NewFrame pivots series into a Frame. Column groups follow symbols; rows are
// the sorted distinct timestamps of all series.
func NewFrame(symbols []string, series Series, opts FrameOptions) *Frame {
	index := make(map[int64]int)
	var stamps []time.Time
	for _, sym := range symbols {
		for _, b := range series[sym] {
			k := b.Timestamp.UnixNano()
			if _, seen := index[k]; seen {
				continue
			}
			index[k] = 0
			stamps = append(stamps, b.Timestamp)
		}
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	rows := make([]FrameRow, len(stamps))
	for i, ts := range stamps {
		index[ts.UnixNano()] = i
		rows[i] = FrameRow{Timestamp: ts, Bars: make(map[string]*Bar, len(symbols))}
	}
	for _, sym := range symbols {
		bars := series[sym]
		for i := range bars {
			rows[index[bars[i].Timestamp.UnixNano()]].Bars[sym] = &bars[i]
		}
	}

	f := &Frame{Symbols: append([]string(nil), symbols...), Rows: rows}
	if opts.ForwardFill {
		f.forwardFill()
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Index returns the row timestamps.
func (f *Frame) Index() []time.Time {
	out := make([]time.Time, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r.Timestamp
	}
	return out
}

// Column returns one value column for a symbol; nil entries are unset cells.
func (f *Frame) Column(symbol, field string) []*float64 {
	out := make([]*float64, len(f.Rows))
	for i, r := range f.Rows {
		b, ok := r.Bars[symbol]
		if !ok {
			continue
		}
		if v, ok := b.Field(field); ok {
			out[i] = &v
		}
	}
	return out
}

func (f *Frame) forwardFill() {
	last := make(map[string]*Bar, len(f.Symbols))
	for _, r := range f.Rows {
		for _, sym := range f.Symbols {
			if b, ok := r.Bars[sym]; ok {
				last[sym] = b
				continue
			}
			if prev := last[sym]; prev != nil {
				r.Bars[sym] = prev
			}
		}
	}
}
