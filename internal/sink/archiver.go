package sink

import (
	"context"
	"time"

	"pricewatch/internal/market"
	"pricewatch/pkg/storage/postgres"

	"go.uber.org/zap"
)

// Archiver appends each committed sample to the postgres trade archive. The
// archive is write-only for this process; nothing is ever read back into the
// store, so restarts begin empty as designed.
type Archiver struct {
	pg     *postgres.PostgresClient
	logger *zap.Logger
}

func NewArchiver(pg *postgres.PostgresClient, logger *zap.Logger) *Archiver {
	return &Archiver{pg: pg, logger: logger}
}

func (a *Archiver) CatalogReplaced(assets []market.Asset) {}

func (a *Archiver) AssetUpdated(asset market.Asset) {
	record := &postgres.TradeRecord{
		AssetID:   asset.ID,
		Symbol:    asset.Symbol,
		Price:     asset.Price,
		MarketCap: asset.MarketCap,
		Timestamp: time.UnixMilli(asset.LastUpdate),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := a.pg.InsertTrade(ctx, record); err != nil {
		a.logger.Warn("failed to archive trade", zap.String("id", asset.ID), zap.Error(err))
	}
}

func (a *Archiver) ConnectionChanged(connected bool) {}

func (a *Archiver) StreamError(message string) {}

// StartRetention deletes archived rows older than the retention window once
// a day until ctx is cancelled. The first sweep runs immediately.
func (a *Archiver) StartRetention(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			a.pruneOnce(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (a *Archiver) pruneOnce(ctx context.Context) {
	cutoff := time.Now().Add(-market.RetentionWindow)

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := a.pg.DeleteOldTrades(sweepCtx, cutoff); err != nil {
		a.logger.Warn("archive retention sweep failed", zap.Error(err))
		return
	}
	a.logger.Info("archive retention sweep complete", zap.Time("cutoff", cutoff))
}
