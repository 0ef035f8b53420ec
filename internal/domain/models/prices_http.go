package models

// Requests for the HTTP endpoints. Query/param tags feed echo's binder,
// default tags feed creasty/defaults, validate tags feed validator.

type BatchRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	Start   string `query:"start" json:"start" validate:"required,numeric"`
	End     string `query:"end" json:"end" validate:"required,numeric"`
	Mode    string `query:"mode" json:"mode" default:"daily" validate:"oneof=daily minute"`
}

type FrameRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	Start   string `query:"start" json:"start" validate:"required,numeric"`
	End     string `query:"end" json:"end" validate:"required,numeric"`
	Mode    string `query:"mode" json:"mode" default:"daily" validate:"oneof=daily minute"`
	FFill   bool   `query:"ffill" json:"ffill"`
}

type NamesRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
}

type LatestCloseRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	Date    string `query:"date" json:"date" validate:"required,numeric,len=8"`
}

type CalendarRequest struct {
	Start  string `query:"start" json:"start" validate:"required,numeric,len=8"`
	End    string `query:"end" json:"end" validate:"required,numeric,len=8"`
	Prefer string `query:"prefer" json:"prefer" default:"tushare" validate:"oneof=tushare mongo"`
}

type IndexRequest struct {
	Code       string `param:"code" json:"code" validate:"required"`
	Start      string `query:"start" json:"start" validate:"required,numeric,len=8"`
	End        string `query:"end" json:"end" validate:"required,numeric,len=8"`
	Normalized bool   `query:"normalized" json:"normalized"`
}

type TopScoresRequest struct {
	Date        string `query:"date" json:"date" validate:"required,numeric,len=8"`
	Dimension   string `query:"dimension" json:"dimension" default:"balanced" validate:"required"`
	N           int    `query:"n" json:"n" default:"20" validate:"gte=1,lte=500"`
	AutoResolve string `query:"auto_resolve" json:"auto_resolve" default:"true" validate:"oneof=true false 1 0"`
}

type WatchlistRequest struct {
	Username string `param:"username" json:"username" validate:"required"`
}

type FinancialsRequest struct {
	Kind    string `param:"kind" json:"kind" validate:"oneof=cashflow income balance indicator daily_basic index_constituents"`
	TSCode  string `query:"ts_code" json:"ts_code"`
	Periods int    `query:"periods" json:"periods" default:"8" validate:"gte=0,lte=200"`
}
