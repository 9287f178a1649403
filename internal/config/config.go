package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds everything read from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	StorageDir  string
	CORSOrigin  string
}

func Load() Config {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = DSNFromParts(
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "postgres"),
			getenv("DB_PASSWORD", "postgres"),
			getenv("DB_NAME", "invoicing"),
			getenv("DB_PORT", "5432"),
		)
	}
	cfg := Config{
		Addr:        getenv("ADDR", ":8080"),
		DatabaseURL: databaseURL,
		StorageDir:  getenv("STORAGE_DIR", "./data/documents"),
		CORSOrigin:  getenv("CORS_ORIGIN", "http://localhost:3000"),
	}
	return cfg
}

// InitDB opens the postgres connection or dies trying.
func InitDB(cfg Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to database")
	}
	return db
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// DSNFromParts is a helper for deployments that configure the database
// via separate variables instead of a single URL.
func DSNFromParts(host, user, password, name, port string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", host, user, password, name, port)
}
