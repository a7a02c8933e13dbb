package postgres

import "time"

// TradeRecord is one committed price sample archived for auditing. The
// archive is append-only and write-only from the tracker process; state is
// never restored from it.
type TradeRecord struct {
	ID uint `gorm:"primaryKey"`

	AssetID string `gorm:"type:text;not null;index:idx_trade_asset"`
	Symbol  string `gorm:"type:text;not null"`

	Price     float64 `gorm:"type:numeric;not null"`
	MarketCap float64 `gorm:"type:numeric;not null"`

	Timestamp time.Time `gorm:"not null;index:idx_trade_timestamp"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (TradeRecord) TableName() string {
	return "trade_record"
}
