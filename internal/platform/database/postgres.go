package database

import (
	"codecourse/internal/platform/config"
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog"
)

var DB *sql.DB

func Connect(logger zerolog.Logger) {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error opening database")
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = Migrate(ctx, DB); err != nil {
		logger.Fatal().Err(err).Msg("Error applying schema")
	}

	logger.Info().Msg("Successfully connected to PostgreSQL database")
}

func Close(logger zerolog.Logger) {
	if DB != nil {
		DB.Close()
		logger.Info().Msg("Database connection closed")
	}
}
