package models

// ScoreSelection is the outcome of a top-N score query.
type ScoreSelection struct {
	ScoreDate string   `json:"score_date"`
	Dimension string   `json:"dimension"`
	Symbols   []string `json:"symbols"`
}
