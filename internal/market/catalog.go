package market

import "strings"

// DefaultCatalog returns the seed state for the tracked assets. Prices start
// at 0 and are populated by the live feed; market caps and volumes are
// display seeds overwritten on the first tick and the startup volume refresh.
func DefaultCatalog() []Asset {
	return []Asset{
		{
			ID:                "bitcoin",
			Name:              "Bitcoin",
			Symbol:            "BTC",
			MarketCap:         680_000_000_000,
			Volume24h:         28_500_000_000,
			CirculatingSupply: 19_500_000,
			MaxSupply:         21_000_000,
		},
		{
			ID:                "ethereum",
			Name:              "Ethereum",
			Symbol:            "ETH",
			MarketCap:         240_000_000_000,
			Volume24h:         15_700_000_000,
			CirculatingSupply: 120_000_000,
		},
		{
			ID:                "binancecoin",
			Name:              "BNB",
			Symbol:            "BNB",
			MarketCap:         47_000_000_000,
			Volume24h:         980_000_000,
			CirculatingSupply: 153_000_000,
			MaxSupply:         200_000_000,
		},
		{
			ID:                "solana",
			Name:              "Solana",
			Symbol:            "SOL",
			MarketCap:         42_000_000_000,
			Volume24h:         2_100_000_000,
			CirculatingSupply: 410_000_000,
		},
		{
			ID:                "cardano",
			Name:              "Cardano",
			Symbol:            "ADA",
			MarketCap:         15_800_000_000,
			Volume24h:         850_000_000,
			CirculatingSupply: 35_000_000_000,
			MaxSupply:         45_000_000_000,
		},
	}
}

// TradeSymbols collects the exchange tickers used to build the stream
// subscription.
func TradeSymbols(assets []Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.Symbol)
	}
	return out
}

// PairSymbol returns the full exchange trade symbol for an asset, e.g.
// "BTCUSDT".
func PairSymbol(a Asset) string {
	return strings.ToUpper(a.Symbol) + "USDT"
}
