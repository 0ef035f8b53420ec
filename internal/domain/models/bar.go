package models

import "time"

// Bar is one OHLCV record for a symbol at a daily or minute timestamp.
type Bar struct {
	Symbol    string    `bson:"symbol" json:"symbol"`
	TradeDate string    `bson:"trade_date" json:"trade_date"`
	Timestamp time.Time `bson:"-" json:"timestamp"`
	Open      float64   `bson:"open" json:"open"`
	High      float64   `bson:"high" json:"high"`
	Low       float64   `bson:"low" json:"low"`
	Close     float64   `bson:"close" json:"close"`
	Volume    float64   `bson:"volume" json:"volume"`
}

// Field returns the named OHLCV value; ok is false for an unknown field.
func (b *Bar) Field(name string) (v float64, ok bool) {
	switch name {
	case "open":
		return b.Open, true
	case "high":
		return b.High, true
	case "low":
		return b.Low, true
	case "close":
		return b.Close, true
	case "volume":
		return b.Volume, true
	default:
		return 0, false
	}
}

// BarFields lists the value columns of a bar in frame order.
var BarFields = []string{"open", "high", "low", "close", "volume"}

// Series maps a symbol to its bars in ascending timestamp order.
type Series map[string][]Bar

// Len returns the total number of bars across all symbols.
func (s Series) Len() int {
	n := 0
	for _, bars := range s {
		n += len(bars)
	}
	return n
}

// Flatten returns every bar ordered by the given symbol order, then timestamp.
// Symbols missing from order are skipped.
func (s Series) Flatten(order []string) []Bar {
	out := make([]Bar, 0, s.Len())
	for _, sym := range order {
		out = append(out, s[sym]...)
	}
	return out
}
