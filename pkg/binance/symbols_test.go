package binance

import "testing"

func TestResolveAssetID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"btc", "bitcoin"},
		{"BTC", "bitcoin"},
		{"Eth", "ethereum"},
		{"bnb", "binancecoin"},
		{"sol", "solana"},
		{"ada", "cardano"},
		{"DOGE", "doge"}, // unknown ticker falls back to lowercased input
		{"", ""},
	}

	for _, c := range cases {
		if got := ResolveAssetID(c.in); got != c.want {
			t.Errorf("ResolveAssetID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStreamURL(t *testing.T) {
	got := StreamURL("wss://stream.binance.com:9443", []string{"BTC", "ETH", "ADA"})
	want := "wss://stream.binance.com:9443/ws/btcusdt@trade/ethusdt@trade/adausdt@trade"
	if got != want {
		t.Errorf("StreamURL = %q, want %q", got, want)
	}
}

func TestStreamURLSingleSymbol(t *testing.T) {
	got := StreamURL("wss://stream.binance.com:9443/", []string{"sol"})
	want := "wss://stream.binance.com:9443/ws/solusdt@trade"
	if got != want {
		t.Errorf("StreamURL = %q, want %q", got, want)
	}
}
