package market

// Sample is a single price observation for one asset.
type Sample struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
}

// Asset is the tracked state of one catalog entry. Price, MarketCap, the
// change percentages, Series and LastUpdate are derived by ApplySample; the
// remaining fields are fixed at catalog load.
type Asset struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"` // exchange-facing ticker, e.g. "BTC"
	Price             float64  `json:"price"`  // 0 before the first tick
	Change1h          float64  `json:"change1h"`
	Change24h         float64  `json:"change24h"`
	Change7d          float64  `json:"change7d"`
	MarketCap         float64  `json:"marketCap"`
	Volume24h         float64  `json:"volume24h"`
	CirculatingSupply float64  `json:"circulatingSupply"`
	MaxSupply         float64  `json:"maxSupply,omitempty"` // 0 when uncapped
	Series            []Sample `json:"series"`              // timestamp-ascending, 7-day retention
	LastUpdate        int64    `json:"lastUpdate"`          // epoch milliseconds
}

// ConnectionStatus describes the upstream feed connection.
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}
