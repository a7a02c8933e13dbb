package sink

import (
	"context"
	"encoding/json"
	"time"

	"pricewatch/internal/market"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statusChannel = "stream.status"

// RedisPublisher mirrors each committed asset state into redis and announces
// it on a per-asset pub/sub channel for downstream presentation consumers.
// Delivery is best-effort: failures are logged and dropped.
type RedisPublisher struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, ttl: ttl, logger: logger}
}

func (p *RedisPublisher) CatalogReplaced(assets []market.Asset) {
	ctx, cancel := p.ctx()
	defer cancel()

	pipe := p.rdb.Pipeline()
	for _, a := range assets {
		payload, err := json.Marshal(a)
		if err != nil {
			p.logger.Warn("failed to encode asset", zap.String("id", a.ID), zap.Error(err))
			continue
		}
		pipe.Set(ctx, "asset:"+a.ID, payload, p.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warn("redis catalog write failed", zap.Error(err))
	}
}

func (p *RedisPublisher) AssetUpdated(asset market.Asset) {
	payload, err := json.Marshal(asset)
	if err != nil {
		p.logger.Warn("failed to encode asset", zap.String("id", asset.ID), zap.Error(err))
		return
	}

	ctx, cancel := p.ctx()
	defer cancel()

	// Atomic update via pipeline: the cached copy and the pub/sub
	// notification go out together.
	pipe := p.rdb.Pipeline()
	pipe.Set(ctx, "asset:"+asset.ID, payload, p.ttl)
	pipe.Publish(ctx, "prices."+asset.ID, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warn("redis update failed", zap.String("id", asset.ID), zap.Error(err))
	}
}

func (p *RedisPublisher) ConnectionChanged(connected bool) {
	p.publishStatus(map[string]any{"connected": connected})
}

func (p *RedisPublisher) StreamError(message string) {
	p.publishStatus(map[string]any{"error": message})
}

func (p *RedisPublisher) publishStatus(v map[string]any) {
	payload, _ := json.Marshal(v)

	ctx, cancel := p.ctx()
	defer cancel()

	if err := p.rdb.Publish(ctx, statusChannel, payload).Err(); err != nil {
		p.logger.Warn("redis status publish failed", zap.Error(err))
	}
}

func (p *RedisPublisher) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Second)
}
