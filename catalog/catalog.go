// Package catalog provides static lookup of the coins and currencies the
// pipeline supports. It is pure and performs no I/O; unknown identifiers
// degrade to zero values rather than failing.
package catalog

// CoinMeta describes a supported coin
type CoinMeta struct {
	ID          string
	DisplayName string
	Symbol      string
}

// CurrencyMeta describes a supported quote currency
type CurrencyMeta struct {
	ID     string
	Code   string
	Symbol string
}

var coins = map[string]CoinMeta{
	"bitcoin":       {ID: "bitcoin", DisplayName: "Bitcoin", Symbol: "BTC"},
	"ethereum":      {ID: "ethereum", DisplayName: "Ethereum", Symbol: "ETH"},
	"binancecoin":   {ID: "binancecoin", DisplayName: "BNB", Symbol: "BNB"},
	"solana":        {ID: "solana", DisplayName: "Solana", Symbol: "SOL"},
	"ripple":        {ID: "ripple", DisplayName: "XRP", Symbol: "XRP"},
	"cardano":       {ID: "cardano", DisplayName: "Cardano", Symbol: "ADA"},
	"dogecoin":      {ID: "dogecoin", DisplayName: "Dogecoin", Symbol: "DOGE"},
	"polkadot":      {ID: "polkadot", DisplayName: "Polkadot", Symbol: "DOT"},
	"litecoin":      {ID: "litecoin", DisplayName: "Litecoin", Symbol: "LTC"},
	"chainlink":     {ID: "chainlink", DisplayName: "Chainlink", Symbol: "LINK"},
	"avalanche-2":   {ID: "avalanche-2", DisplayName: "Avalanche", Symbol: "AVAX"},
	"matic-network": {ID: "matic-network", DisplayName: "Polygon", Symbol: "MATIC"},
}

var currencies = map[string]CurrencyMeta{
	"usd": {ID: "usd", Code: "USD", Symbol: "$"},
	"eur": {ID: "eur", Code: "EUR", Symbol: "€"},
	"gbp": {ID: "gbp", Code: "GBP", Symbol: "£"},
	"jpy": {ID: "jpy", Code: "JPY", Symbol: "¥"},
	"inr": {ID: "inr", Code: "INR", Symbol: "₹"},
	"rub": {ID: "rub", Code: "RUB", Symbol: "₽"},
	"krw": {ID: "krw", Code: "KRW", Symbol: "₩"},
	"btc": {ID: "btc", Code: "BTC", Symbol: "₿"},
}

// ResolveCoin looks up metadata for a coin identifier
func ResolveCoin(coinID string) (CoinMeta, bool) {
	meta, ok := coins[coinID]
	return meta, ok
}

// ResolveCurrency looks up metadata for a currency identifier
func ResolveCurrency(currencyID string) (CurrencyMeta, bool) {
	meta, ok := currencies[currencyID]
	return meta, ok
}

// Coins returns the identifiers of all supported coins
func Coins() []string {
	ids := make([]string, 0, len(coins))
	for id := range coins {
		ids = append(ids, id)
	}
	return ids
}

// Currencies returns the identifiers of all supported currencies
func Currencies() []string {
	ids := make([]string, 0, len(currencies))
	for id := range currencies {
		ids = append(ids, id)
	}
	return ids
}
