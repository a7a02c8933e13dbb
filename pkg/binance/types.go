package binance

import "strings"

// TradeEvent represents a single message from the combined trade stream.
// Only trade events are processed; every other event type is ignored upstream.
type TradeEvent struct {
	Event     string `json:"e"` // event type, e.g. "trade"
	Symbol    string `json:"s"` // upper-case ticker plus quote asset, e.g. "BTCUSDT"
	Price     string `json:"p"` // string-encoded decimal price
	TradeTime int64  `json:"T"` // event time in epoch milliseconds; 0 when the exchange omitted it
}

// StreamURL builds the combined trade-stream endpoint for the given tickers.
// The join format (lowercase ticker, "usdt@trade" suffix, '/'-separated) must
// match the upstream feed exactly.
func StreamURL(base string, symbols []string) string {
	tokens := make([]string, 0, len(symbols))
	for _, s := range symbols {
		tokens = append(tokens, strings.ToLower(s)+"usdt@trade")
	}
	return strings.TrimRight(base, "/") + "/ws/" + strings.Join(tokens, "/")
}
