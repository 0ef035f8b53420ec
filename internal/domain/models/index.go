package models

import "time"

// IndexPoint is one close of an index (or a stock standing in for one).
type IndexPoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// IndexSeries is an ascending close series; Code carries a "_norm" suffix
// when the values are normalised to the first close.
type IndexSeries struct {
	Code   string       `json:"code"`
	Points []IndexPoint `json:"points"`
}
