package postgres

import (
	"context"
	"time"
)

func (p *PostgresClient) InsertTrade(ctx context.Context, record *TradeRecord) error {
	return p.DB.WithContext(ctx).Create(record).Error
}

// GetTradesInRange returns archived trades for one asset, timestamp-ascending.
func (p *PostgresClient) GetTradesInRange(ctx context.Context, assetID string, from, to time.Time) ([]TradeRecord, error) {
	var trades []TradeRecord
	err := p.DB.WithContext(ctx).
		Where("asset_id = ? AND timestamp >= ? AND timestamp <= ?", assetID, from, to).
		Order("timestamp asc").
		Find(&trades).Error

	if err != nil {
		return nil, err
	}
	return trades, nil
}

// DeleteOldTrades removes archived trades older than the given cutoff.
func (p *PostgresClient) DeleteOldTrades(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("timestamp < ?", before).
		Delete(&TradeRecord{}).Error
}
