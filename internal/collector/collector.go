package collector

import (
	"fmt"
	"log"

	"SMACrossover/internal/analysis"
	"SMACrossover/internal/calculator"
	"SMACrossover/internal/model"
)

// SMASource selects how the SMA side of an observation is obtained.
type SMASource string

const (
	// SMAComputed derives the SMA from the same daily payload as the price
	// (single round-trip).
	SMAComputed SMASource = "computed"
	// SMAFetched pulls a provider-computed SMA series and reconciles it with
	// the price series by date.
	SMAFetched SMASource = "fetched"
)

// historyBuffer is extra daily history requested beyond the SMA period, so a
// run of market holidays cannot starve the window.
const historyBuffer = 50

// MockFetcher returns fixed payloads for development and testing.
type MockFetcher struct {
	Daily map[string]*model.Payload
	SMA   map[string]*model.Payload
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(symbol string, days int) (*model.Payload, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Daily[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no daily payload for %s", symbol)
	}
	return p, nil
}

func (m *MockFetcher) FetchSMASeries(symbol string, period int) (*model.Payload, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.SMA[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no SMA payload for %s", symbol)
	}
	return p, nil
}

// Collector runs the per-symbol pipeline: fetch, extract, SMA, synchronize,
// validate. Each call builds everything fresh from the fetched payloads and
// returns one validated observation; nothing is kept between calls.
type Collector struct {
	Fetcher      Fetcher
	Extractor    *analysis.Extractor
	Synchronizer *analysis.Synchronizer
	Period       int
	Source       SMASource
}

// NewCollector creates a collector for the given fetcher and SMA deployment.
func NewCollector(f Fetcher, ex *analysis.Extractor, sync *analysis.Synchronizer, period int, source SMASource) *Collector {
	return &Collector{
		Fetcher:      f,
		Extractor:    ex,
		Synchronizer: sync,
		Period:       period,
		Source:       source,
	}
}

// Snapshot produces the validated (date, price, sma) observation for one
// symbol.
func (c *Collector) Snapshot(symbol string) (*model.Observation, error) {
	payload, err := c.Fetcher.FetchDailySeries(symbol, c.Period+historyBuffer)
	if err != nil {
		return nil, fmt.Errorf("fetch daily series for %s: %w", symbol, err)
	}

	var price, sma model.DatedValue
	switch c.Source {
	case SMAFetched:
		price, sma, err = c.fetchedPair(symbol, payload)
	default:
		price, sma, err = c.computedPair(payload)
	}
	if err != nil {
		return nil, err
	}

	date, err := c.Synchronizer.ValidateSync(price, sma)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] %s snapshot for %s: price=%.2f sma=%.2f", symbol, date, price.Value, sma.Value)
	return &model.Observation{
		Symbol: symbol,
		Date:   date,
		Price:  price.Value,
		SMA:    sma.Value,
	}, nil
}

// computedPair derives the SMA locally from the daily payload.
func (c *Collector) computedPair(payload *model.Payload) (model.DatedValue, model.DatedValue, error) {
	point, err := c.Extractor.LatestPoint(payload)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	series, err := c.Extractor.Normalize(payload)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	result, err := calculator.SMA(series, c.Period, c.Extractor.Bounds)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	return model.DatedValue{Date: point.Date, Value: point.AdjustedClose},
		model.DatedValue{Date: result.Date, Value: result.Value}, nil
}

// fetchedPair pulls the provider SMA series and reduces both series at their
// latest common date.
func (c *Collector) fetchedPair(symbol string, payload *model.Payload) (model.DatedValue, model.DatedValue, error) {
	smaPayload, err := c.Fetcher.FetchSMASeries(symbol, c.Period)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, fmt.Errorf("fetch SMA series for %s: %w", symbol, err)
	}
	date, err := c.Synchronizer.LatestCommonDate(payload, smaPayload)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	pricePoint, err := c.Extractor.PointAt(payload, date)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	smaPoint, err := c.Extractor.PointAt(smaPayload, date)
	if err != nil {
		return model.DatedValue{}, model.DatedValue{}, err
	}
	return model.DatedValue{Date: pricePoint.Date, Value: pricePoint.AdjustedClose},
		model.DatedValue{Date: smaPoint.Date, Value: smaPoint.AdjustedClose}, nil
}
