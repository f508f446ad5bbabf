// Package format holds the pure display-formatting policy: currency symbols,
// change-direction classification, chart axis labels and price rendering.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/coinscope/market-pipeline/catalog"
)

// PriceColor classifies a percentage change for display
type PriceColor int

const (
	ColorNeutral PriceColor = iota
	ColorPositive
	ColorNegative
)

func (c PriceColor) String() string {
	switch c {
	case ColorPositive:
		return "positive"
	case ColorNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// CurrencySymbol returns the display symbol for a currency id,
// or an empty string when the currency is unknown
func CurrencySymbol(currencyID string) string {
	meta, ok := catalog.ResolveCurrency(currencyID)
	if !ok {
		return ""
	}
	return meta.Symbol
}

// ClassifyChange maps a percentage change to its display color
func ClassifyChange(pct float64) PriceColor {
	switch {
	case pct > 0:
		return ColorPositive
	case pct < 0:
		return ColorNegative
	default:
		return ColorNeutral
	}
}

// TimeLabel renders a chart axis label for a timestamp in milliseconds.
// Granularity follows the requested range: intraday ranges get clock time,
// ranges up to a month get a calendar date, longer ranges month and year.
func TimeLabel(timestampMillis int64, rangeDays int) string {
	ts := time.UnixMilli(timestampMillis).Local()

	switch {
	case rangeDays <= 1:
		return ts.Format("15:04")
	case rangeDays <= 30:
		return ts.Format("Jan 02")
	default:
		return ts.Format("Jan 2006")
	}
}

// ChartPrice renders a price rounded to two fractional digits for point labels
func ChartPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// CurrencyAmount renders a price with its currency symbol and thousands
// separators. Prices below one unit keep six fractional digits so small-cap
// coins stay readable; everything else gets the usual two.
func CurrencyAmount(price float64, currencyID string) string {
	pattern := "#,###.##"
	if price < 1 {
		pattern = "#,###.######"
	}
	return CurrencySymbol(currencyID) + humanize.FormatFloat(pattern, price)
}

// Percent renders a percentage change to two decimals with a trailing sign
func Percent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}
