package tracker

import (
	"context"
	"fmt"
	"strconv"

	"pricewatch/config"
	"pricewatch/internal/api"
	"pricewatch/internal/binance/stream"
	"pricewatch/internal/market"
	"pricewatch/internal/sink"
	"pricewatch/pkg/binance"
	"pricewatch/pkg/storage/postgres"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Start wires the catalog, store, sinks, stream client and read API together
// and opens the trade stream. It returns the stream client so the caller owns
// its lifetime; ctx bounds the background retention sweep.
func Start(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*binance.WSClient, error) {
	store := market.NewStore(logger)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		store.AddSink(sink.NewRedisPublisher(rdb, cfg.Redis.KeyTTL, logger))
		logger.Info("redis sink enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Brokers...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.Hash{},
		}
		store.AddSink(sink.NewKafkaPublisher(writer, logger))
		logger.Info("kafka sink enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	if cfg.Postgres.Enabled {
		pg, err := postgres.InitializeAndMigrateTradeRecord(cfg.Postgres, cfg.Log.Environment, true)
		if err != nil {
			return nil, fmt.Errorf("trade archive: %w", err)
		}
		archiver := sink.NewArchiver(pg, logger)
		store.AddSink(archiver)
		archiver.StartRetention(ctx)
		logger.Info("trade archive enabled", zap.String("dbname", cfg.Postgres.DBName))
	}

	assets := market.DefaultCatalog()
	if cfg.Binance.REST.SeedVolumes {
		seedVolumes(ctx, cfg.Binance.REST, assets, logger)
	}
	store.SetCatalog(assets)

	if cfg.API.Enabled {
		server := api.NewServer(cfg.API.Addr, store, logger)
		go func() {
			if err := server.Run(); err != nil {
				logger.Error("api server stopped", zap.Error(err))
			}
		}()
	}

	client := binance.NewWSClient(cfg.Binance.WS.URL, store, logger)
	client.SetRetryPolicy(cfg.Binance.WS.ReconnectAttempts, cfg.Binance.WS.ReconnectDelay)
	client.SetMessageHandler(stream.MakeMessageHandler(logger, store))

	if err := client.Connect(market.TradeSymbols(assets)); err != nil {
		// The client keeps retrying on its own; surface the first failure only.
		logger.Warn("initial stream connect failed", zap.Error(err))
	}

	return client, nil
}

// seedVolumes overwrites the catalog's hardcoded 24h volume seeds with live
// figures from the exchange ticker. Runs once, before the catalog is
// committed; a failure keeps the seeds and is not fatal.
func seedVolumes(ctx context.Context, cfg config.RESTConfig, assets []market.Asset, logger *zap.Logger) {
	rest := binance.NewRESTClient(cfg.BaseURL, cfg.Timeout)

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pairs := make([]string, 0, len(assets))
	for _, a := range assets {
		pairs = append(pairs, market.PairSymbol(a))
	}

	tickers, err := rest.GetTicker24h(reqCtx, pairs)
	if err != nil {
		logger.Warn("volume seed skipped", zap.Error(err))
		return
	}

	bySymbol := make(map[string]binance.Ticker24h, len(tickers))
	for _, t := range tickers {
		bySymbol[t.Symbol] = t
	}

	for i := range assets {
		t, ok := bySymbol[market.PairSymbol(assets[i])]
		if !ok {
			continue
		}
		volume, err := strconv.ParseFloat(t.QuoteVolume, 64)
		if err != nil {
			logger.Warn("bad quote volume", zap.String("symbol", t.Symbol), zap.String("value", t.QuoteVolume))
			continue
		}
		assets[i].Volume24h = volume
	}
	logger.Info("volume seeds refreshed", zap.Int("tickers", len(tickers)))
}
