package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "host=db user=app password=secret dbname=invoicing port=5433 sslmode=disable")
	t.Setenv("DB_HOST", "ignored")

	cfg := Load()
	assert.Equal(t, "host=db user=app password=secret dbname=invoicing port=5433 sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_BuildsDSNFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "invoicing")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "billing")
	t.Setenv("DB_PORT", "6543")

	cfg := Load()
	assert.Equal(t, "host=db.internal user=invoicing password=pw dbname=billing port=6543 sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("ADDR", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Contains(t, cfg.DatabaseURL, "host=localhost")
}
