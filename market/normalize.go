package market

import (
	"math"
	"strings"

	"github.com/coinscope/market-pipeline/catalog"
	"github.com/coinscope/market-pipeline/coingecko"
	"github.com/coinscope/market-pipeline/format"
)

// NormalizeSnapshot converts a provider coin detail into a CoinSnapshot.
// Missing nested fields read as zero values; a missing image reads as an
// empty logo URL which the rendering layer treats as "no logo".
func NormalizeSnapshot(detail *coingecko.CoinDetail, selection Selection) CoinSnapshot {
	displayName := detail.Name
	symbol := strings.ToUpper(detail.Symbol)

	// Prefer catalog metadata when the provider response is sparse
	if meta, ok := catalog.ResolveCoin(selection.CoinID); ok {
		if displayName == "" {
			displayName = meta.DisplayName
		}
		if symbol == "" {
			symbol = meta.Symbol
		}
	}

	return CoinSnapshot{
		ID:                detail.ID,
		DisplayName:       displayName,
		Symbol:            symbol,
		LogoURL:           detail.LogoURL(),
		CurrentPrice:      detail.CurrentPriceIn(selection.CurrencyID),
		PriceChangePct24h: detail.ChangePct24h(),
	}
}

// NormalizeSeries converts provider chart points into a PriceSeries,
// preserving upstream order. Labels follow the range-keyed policy and
// prices are rounded to two fractional digits.
func NormalizeSeries(chart *coingecko.MarketChart, rangeDays int) PriceSeries {
	series := make(PriceSeries, 0, len(chart.Prices))

	for _, point := range chart.Prices {
		series = append(series, PricePoint{
			Label: format.TimeLabel(int64(point[0]), rangeDays),
			Price: roundTo2(point[1]),
		})
	}

	return series
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
