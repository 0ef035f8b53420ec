package tushare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"StockAccess/internal/service/ratelimit"
	xhttp "StockAccess/pkg/http"
	applogger "StockAccess/pkg/logger"
)

const DefaultURL = "http://api.tushare.pro"

// ErrNoToken is returned when the client has no API token.
var ErrNoToken = errors.New("tushare: token not configured")

// Client calls the Tushare Pro HTTP API.
type Client struct {
	token string
	url   string
	http  *xhttp.Client
	rl    *ratelimit.Limiter
	l     *applogger.Logger
}

func New(token, url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{token: token, url: url, http: xhttp.NewClient(xhttp.WithTimeout(timeout))}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// SetLimiter throttles calls per API name. Tushare enforces per-minute
// quotas per endpoint.
func (c *Client) SetLimiter(rl *ratelimit.Limiter) { c.rl = rl }

// Enabled reports whether a token is configured.
func (c *Client) Enabled() bool { return c.token != "" }

type request struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// Query calls apiName and returns each item as a field name to value map.
func (c *Client) Query(ctx context.Context, apiName string, params map[string]string, fields string) ([]map[string]interface{}, error) {
	if !c.Enabled() {
		return nil, ErrNoToken
	}
	if c.rl != nil {
		if err := c.rl.Wait(ctx, apiName); err != nil {
			return nil, fmt.Errorf("tushare %s: %w", apiName, err)
		}
	}
	start := time.Now()
	var resp response
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodPost,
		URL:    c.url,
		Body:   request{APIName: apiName, Token: c.token, Params: params, Fields: fields},
	}, &resp)
	if err == nil && resp.Code != 0 {
		err = fmt.Errorf("code %d: %s", resp.Code, resp.Msg)
	}
	if err != nil {
		if c.l != nil {
			c.l.Error("tushare query error", applogger.String("api", apiName), applogger.Error(err))
		}
		return nil, fmt.Errorf("tushare %s: %w", apiName, err)
	}
	var rows []map[string]interface{}
	if resp.Data != nil {
		rows = make([]map[string]interface{}, 0, len(resp.Data.Items))
		for _, item := range resp.Data.Items {
			row := make(map[string]interface{}, len(resp.Data.Fields))
			for i, f := range resp.Data.Fields {
				if i < len(item) {
					row[f] = item[i]
				}
			}
			rows = append(rows, row)
		}
	}
	if c.l != nil {
		c.l.Debug("tushare query ok",
			applogger.String("api", apiName),
			applogger.Int("rows", len(rows)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return rows, nil
}

// TradingDays lists open days of the exchange calendar in [start, end],
// sorted ascending.
func (c *Client) TradingDays(ctx context.Context, start, end string) ([]string, error) {
	rows, err := c.Query(ctx, "trade_cal", map[string]string{
		"exchange":   "",
		"start_date": start,
		"end_date":   end,
		"is_open":    "1",
	}, "cal_date,is_open")
	if err != nil {
		return nil, err
	}
	days := make([]string, 0, len(rows))
	for _, r := range rows {
		if !isOpen(r["is_open"]) {
			continue
		}
		if d, ok := r["cal_date"].(string); ok && d != "" {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	return days, nil
}

func isOpen(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return x == 1
	case string:
		return x == "1"
	case bool:
		return x
	default:
		return false
	}
}
