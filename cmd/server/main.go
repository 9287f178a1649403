package main

import (
	"time"

	"invoicing-backend/internal/config"
	"invoicing-backend/internal/mail"
	"invoicing-backend/internal/models"
	"invoicing-backend/internal/routes"
	"invoicing-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on system env")
	}
	config.SetupLogger()

	cfg := config.Load()
	db := config.InitDB(cfg)

	db.AutoMigrate(
		&models.Company{},
		&models.Contact{},
		&models.Invoice{},
		&models.LineItem{},
		&models.SequenceCounter{},
	)

	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot initialize document storage")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Company-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, store, mail.LogMailer{})

	r.Run(cfg.Addr)
}
