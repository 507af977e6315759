package collector

import "SMACrossover/internal/model"

// Fetcher retrieves provider data and translates it into the provider-shaped
// payload the analysis core consumes. Each implementation owns the knowledge
// of its provider's field names and records them in the payload schema.
type Fetcher interface {
	// FetchDailySeries returns at least days of daily history for the symbol.
	FetchDailySeries(symbol string, days int) (*model.Payload, error)
	// FetchSMASeries returns a provider-computed SMA series, for deployments
	// that source the SMA independently instead of computing it locally.
	FetchSMASeries(symbol string, period int) (*model.Payload, error)
	Name() string
}
