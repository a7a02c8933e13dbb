package postgres_test

import (
	"context"
	"testing"
	"time"

	"pricewatch/pkg/storage/postgres"
)

// go test -v --run TestTradeArchiveFlow
func TestTradeArchiveFlow(t *testing.T) {
	cfg := testConfig(t)

	client, err := postgres.InitializeAndMigrateTradeRecord(cfg, "dev", true)
	if err != nil {
		t.Fatalf("failed to initialize archive: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	record := &postgres.TradeRecord{
		AssetID:   "bitcoin",
		Symbol:    "BTC",
		Price:     50000.0,
		MarketCap: 50000.0 * 19500000,
		Timestamp: now,
	}
	if err := client.InsertTrade(ctx, record); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := client.GetTradesInRange(ctx, "bitcoin", now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected at least one archived trade")
	}
	if got[len(got)-1].Price != 50000.0 {
		t.Errorf("unexpected trade values: %+v", got[len(got)-1])
	}

	if err := client.DeleteOldTrades(ctx, now.Add(time.Hour)); err != nil {
		t.Errorf("delete failed: %v", err)
	}

	remaining, err := client.GetTradesInRange(ctx, "bitcoin", now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("select after delete failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected empty archive after retention delete, got %d rows", len(remaining))
	}
}
