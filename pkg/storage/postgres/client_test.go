package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"pricewatch/config"
	"pricewatch/pkg/storage/postgres"
)

func testConfig(t *testing.T) config.PostgresConfig {
	t.Helper()
	if os.Getenv("PRICEWATCH_PG_TEST") == "" {
		t.Skip("set PRICEWATCH_PG_TEST to run tests against a local postgres")
	}
	return config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "yourpw",
		DBName:   "pricewatch_test",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}
}

// go test -v --run ^TestPostgresInvalidDSN$
func TestPostgresInvalidDSN(t *testing.T) {
	invalidDSN := "host=invalid port=5432 user=fail password=fail dbname=fail sslmode=disable"

	_, err := postgres.NewClient(invalidDSN)
	if err == nil {
		t.Fatal("expected error for invalid DSN, got nil")
	}
}

// go test -v --run ^TestPostgresClientWithConfig$
func TestPostgresClientWithConfig(t *testing.T) {
	cfg := testConfig(t)

	if err := postgres.CreateDatabase(cfg, "dev"); err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	client, err := postgres.NewClient(cfg.DSN("dev"))
	if err != nil {
		t.Fatalf("failed to create postgres client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !client.IsHealthy(ctx) {
		t.Fatal("expected healthy DB connection")
	}

	if err := client.AutoMigrateTradeRecord(); err != nil {
		t.Fatalf("auto migration failed: %v", err)
	}
}
