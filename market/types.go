// Package market holds the core data model of the pipeline: the selection
// tuple, the normalized snapshot and price series, the fetch result sum type
// and the fetcher service that resolves selections against the provider.
package market

// Selection is the (coin, currency, range) tuple driving a fetch cycle.
// It is immutable per cycle; any field change starts a new cycle.
type Selection struct {
	CoinID     string
	CurrencyID string
	RangeDays  int
}

// Valid reports whether the selection can drive a fetch
func (s Selection) Valid() bool {
	return s.CoinID != "" && s.CurrencyID != "" && s.RangeDays > 0
}

// CoinSnapshot is the normalized point-in-time view of the selected coin
type CoinSnapshot struct {
	ID                string
	DisplayName       string
	Symbol            string
	LogoURL           string
	CurrentPrice      float64
	PriceChangePct24h float64
}

// PricePoint is a single chart point with its pre-rendered axis label
type PricePoint struct {
	Label string
	Price float64
}

// PriceSeries is the chronologically ordered price history for a selection.
// Order is trusted from the provider and never re-sorted.
type PriceSeries []PricePoint

// FetchStatus enumerates the states of a fetch cycle's result
type FetchStatus int

const (
	// StatusEmpty means no fetch has produced data yet
	StatusEmpty FetchStatus = iota
	// StatusLoading means the current cycle is still resolving
	StatusLoading
	// StatusSuccess means the current cycle resolved snapshot and series
	StatusSuccess
	// StatusFailed means the current cycle failed with a reason
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "empty"
	}
}

// FetchResult is the outcome of exactly one fetch cycle. Snapshot and Series
// always originate from the same cycle; data from different selections is
// never mixed.
type FetchResult struct {
	Status    FetchStatus
	Selection Selection
	Snapshot  CoinSnapshot
	Series    PriceSeries
	Err       *Failure
}

// EmptyResult is the state before any selection was made
func EmptyResult() FetchResult {
	return FetchResult{Status: StatusEmpty}
}
