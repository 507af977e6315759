package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"SMACrossover/internal/model"
)

const (
	avDefaultBaseURL = "https://www.alphavantage.co/query"

	avDailyFunction = "TIME_SERIES_DAILY_ADJUSTED"
	avSMAFunction   = "SMA"

	// Alpha Vantage outputsize: compact returns the latest 100 data points.
	avOutputCompact     = "compact"
	avOutputFull        = "full"
	avCompactSizeLimit  = 100
	avAdjustedCloseKey  = "5. adjusted close"
	avSMAKey            = "SMA"
	avDailyRefreshedKey = "3. Last Refreshed"
	// The SMA endpoint uses a colon where the daily endpoint uses a period.
	avSMARefreshedKey = "3: Last Refreshed"
)

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage API.
type AlphaVantageFetcher struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates an Alpha Vantage fetcher. An empty baseURL
// selects the public endpoint.
func NewAlphaVantageFetcher(apiKey, baseURL string) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = avDefaultBaseURL
	}
	return &AlphaVantageFetcher{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

type avResponse struct {
	MetaData     map[string]string            `json:"Meta Data"`
	DailySeries  map[string]map[string]string `json:"Time Series (Daily)"`
	SMASeries    map[string]map[string]string `json:"Technical Analysis: SMA"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
}

func (f *AlphaVantageFetcher) query(params url.Values) (*avResponse, error) {
	params.Set("apikey", f.APIKey)
	reqURL := fmt.Sprintf("%s?%s", f.BaseURL, params.Encode())

	resp, err := f.Client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var decoded avResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if decoded.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", decoded.ErrorMessage)
	}
	if decoded.Note != "" {
		return nil, fmt.Errorf("alphavantage rate limit: %s", decoded.Note)
	}
	return &decoded, nil
}

// FetchDailySeries fetches the daily adjusted time series.
func (f *AlphaVantageFetcher) FetchDailySeries(symbol string, days int) (*model.Payload, error) {
	params := url.Values{}
	params.Set("function", avDailyFunction)
	params.Set("symbol", symbol)
	if days > avCompactSizeLimit {
		params.Set("outputsize", avOutputFull)
	} else {
		params.Set("outputsize", avOutputCompact)
	}

	decoded, err := f.query(params)
	if err != nil {
		return nil, err
	}
	if len(decoded.DailySeries) == 0 {
		return nil, fmt.Errorf("alphavantage: no daily data returned for %s, possibly invalid symbol or API key", symbol)
	}

	return &model.Payload{
		Symbol:        symbol,
		LastRefreshed: decoded.MetaData[avDailyRefreshedKey],
		Series:        decoded.DailySeries,
		Schema:        model.Schema{AdjustedClose: avAdjustedCloseKey},
	}, nil
}

// FetchSMASeries fetches the provider-computed daily SMA series.
func (f *AlphaVantageFetcher) FetchSMASeries(symbol string, period int) (*model.Payload, error) {
	params := url.Values{}
	params.Set("function", avSMAFunction)
	params.Set("symbol", symbol)
	params.Set("interval", "daily")
	params.Set("time_period", fmt.Sprintf("%d", period))
	params.Set("series_type", "close")

	decoded, err := f.query(params)
	if err != nil {
		return nil, err
	}
	if len(decoded.SMASeries) == 0 {
		return nil, fmt.Errorf("alphavantage: no SMA data returned for %s", symbol)
	}

	return &model.Payload{
		Symbol:        symbol,
		LastRefreshed: decoded.MetaData[avSMARefreshedKey],
		Series:        decoded.SMASeries,
		Schema:        model.Schema{AdjustedClose: avSMAKey},
	}, nil
}
