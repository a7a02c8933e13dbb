package binance

import "strings"

// symbolToAsset maps known exchange tickers to internal asset ids.
var symbolToAsset = map[string]string{
	"btc": "bitcoin",
	"eth": "ethereum",
	"bnb": "binancecoin",
	"sol": "solana",
	"ada": "cardano",
}

// ResolveAssetID translates an exchange ticker to an internal asset id.
// Lookup is case-insensitive. Unknown tickers fall back to the lowercased
// input; the resulting id may not belong to any tracked asset, which the
// store handles as a no-op.
func ResolveAssetID(symbol string) string {
	s := strings.ToLower(symbol)
	if id, ok := symbolToAsset[s]; ok {
		return id
	}
	return s
}
