package stream

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"pricewatch/internal/market"
	"pricewatch/pkg/binance"

	"go.uber.org/zap"
)

// MakeMessageHandler returns a function that handles incoming stream frames:
// decode, filter to trade events, resolve the asset id and commit the sample
// to the store. Malformed frames are logged and discarded; they never affect
// connection state.
func MakeMessageHandler(logger *zap.Logger, store *market.Store) func(msg []byte) {
	return func(msg []byte) {
		var ev binance.TradeEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			logger.Warn("discarding undecodable frame", zap.Error(err))
			return
		}
		if ev.Event != "trade" {
			return // subscription acks, pings and other event types
		}

		price, err := strconv.ParseFloat(ev.Price, 64)
		if err != nil || price < 0 {
			logger.Warn("discarding trade with bad price",
				zap.String("symbol", ev.Symbol),
				zap.String("price", ev.Price))
			return
		}

		timestamp := ev.TradeTime
		if timestamp == 0 {
			timestamp = time.Now().UnixMilli() // exchange omitted the event time
		}

		id := binance.ResolveAssetID(strings.TrimSuffix(ev.Symbol, "USDT"))
		store.ApplyPriceSample(id, price, timestamp)
	}
}
