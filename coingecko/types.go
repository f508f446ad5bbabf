package coingecko

// CoinDetail mirrors the provider's coin endpoint, trimmed to the fields the
// pipeline consumes. Nested market data is optional: the provider omits it
// for delisted coins, so absence must map to zero values downstream.
type CoinDetail struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	Image struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`

	MarketData *MarketData `json:"market_data"`
}

// MarketData holds the currency-scoped price fields of a coin detail response
type MarketData struct {
	// CurrentPrice maps currency id to price; a missing currency reads as 0
	CurrentPrice map[string]float64 `json:"current_price"`

	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// CurrentPriceIn returns the current price in the given currency, 0 when
// market data or the currency entry is missing
func (d *CoinDetail) CurrentPriceIn(currencyID string) float64 {
	if d.MarketData == nil {
		return 0
	}
	return d.MarketData.CurrentPrice[currencyID]
}

// ChangePct24h returns the 24h percentage change, 0 when market data is missing
func (d *CoinDetail) ChangePct24h() float64 {
	if d.MarketData == nil {
		return 0
	}
	return d.MarketData.PriceChangePercentage24h
}

// LogoURL returns the best available logo URL, empty when none was provided
func (d *CoinDetail) LogoURL() string {
	if d.Image.Large != "" {
		return d.Image.Large
	}
	return d.Image.Small
}

// ChartPoint is a single [timestampMillis, value] pair
type ChartPoint [2]float64

// MarketChart mirrors the provider's market chart endpoint
type MarketChart struct {
	// Prices contains historical price data as [timestamp, price] pairs,
	// chronologically ordered by the provider
	Prices []ChartPoint `json:"prices"`
}
