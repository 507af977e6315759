package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"SMACrossover/internal/model"
)

const yahooAdjCloseKey = "adjclose"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API,
// translating the chart response into the same payload shape the Alpha
// Vantage fetcher produces.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchDailySeries fetches daily bars and translates them into a payload
// keyed by ISO date, using the adjusted close where Yahoo provides one.
func (f *YahooFetcher) FetchDailySeries(symbol string, days int) (*model.Payload, error) {
	rng := "2y"
	switch {
	case days <= 100:
		rng = "6mo"
	case days <= 250:
		rng = "1y"
	case days > 500:
		rng = "5y"
	}

	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=%s",
		url.PathEscape(symbol), rng)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	var adj []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}
	var closes []interface{}
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	series := make(map[string]map[string]string, len(result.Timestamp))
	latest := ""
	for i, ts := range result.Timestamp {
		value, ok := 0.0, false
		if i < len(adj) {
			value, ok = toFloat(adj[i])
		}
		if !ok && i < len(closes) {
			value, ok = toFloat(closes[i])
		}
		if !ok || value == 0 {
			continue // null bars (holidays etc.)
		}
		date := time.Unix(ts, 0).UTC().Format("2006-01-02")
		series[date] = map[string]string{
			yahooAdjCloseKey: strconv.FormatFloat(value, 'f', -1, 64),
		}
		if date > latest {
			latest = date
		}
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("yahoo: no usable bars returned for %s", symbol)
	}

	return &model.Payload{
		Symbol:        symbol,
		LastRefreshed: latest,
		Series:        series,
		Schema:        model.Schema{AdjustedClose: yahooAdjCloseKey},
	}, nil
}

// FetchSMASeries is not available from the chart API; deployments that fetch
// the SMA independently must use the Alpha Vantage provider.
func (f *YahooFetcher) FetchSMASeries(symbol string, period int) (*model.Payload, error) {
	return nil, fmt.Errorf("yahoo: provider-computed SMA series not supported")
}
