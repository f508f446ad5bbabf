package analysis

import (
	"fmt"
	"strings"

	"github.com/coinscope/market-pipeline/catalog"
	"github.com/coinscope/market-pipeline/format"
	"github.com/coinscope/market-pipeline/market"
)

// BuildPrompt deterministically renders the analysis prompt for a resolved
// data set. The same snapshot, series and selection always produce the same
// prompt, which makes generated summaries cacheable.
func BuildPrompt(snapshot market.CoinSnapshot, series market.PriceSeries, currencyID string, rangeDays int) string {
	currencyCode := strings.ToUpper(currencyID)
	if meta, ok := catalog.ResolveCurrency(currencyID); ok {
		currencyCode = meta.Code
	}

	var sb strings.Builder

	sb.WriteString("You are a cryptocurrency market analyst. ")
	sb.WriteString("Write a short, plain-language market summary (2-3 sentences) for the data below. ")
	sb.WriteString("Do not give financial advice.\n\n")

	fmt.Fprintf(&sb, "Coin: %s (%s)\n", snapshot.DisplayName, snapshot.Symbol)
	fmt.Fprintf(&sb, "Currency: %s\n", currencyCode)
	fmt.Fprintf(&sb, "Current price: %s\n", format.CurrencyAmount(snapshot.CurrentPrice, currencyID))
	fmt.Fprintf(&sb, "24h change: %s\n", format.Percent(snapshot.PriceChangePct24h))
	fmt.Fprintf(&sb, "\nPrice history (%d days, chronological):\n", rangeDays)

	for _, point := range series {
		fmt.Fprintf(&sb, "%s: %s\n", point.Label, format.ChartPrice(point.Price))
	}

	return sb.String()
}
