package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cookbook-service/internal/config"
	"cookbook-service/internal/domain/asset"
	"cookbook-service/internal/repository/postgres"
	"cookbook-service/pkg/logger"

	"github.com/joho/godotenv"
)

const setupTimeout = 2 * time.Minute

var tables = []string{"users", "recipes", "favorites", "shopping_lists", "assets", "audit_events", "schema_migrations"}

func main() {
	_ = godotenv.Load(".env")

	log := logger.New(config.EnvDevelopment, "info", "setup-db")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx, log); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	seeded, err := postgres.NewAssetRepository(db).Seed(ctx, asset.Seed())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed assets")
	}
	log.Info().Int64("assets", seeded).Msg("reference assets seeded")

	missing := 0
	for _, table := range tables {
		var exists bool
		err := db.Pool.QueryRow(ctx, `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`, table).Scan(&exists)
		switch {
		case err != nil:
			log.Error().Err(err).Str("table", table).Msg("failed to check table")
			missing++
		case !exists:
			log.Error().Str("table", table).Msg("table missing")
			missing++
		default:
			log.Info().Str("table", table).Msg("table present")
		}
	}

	if missing > 0 {
		os.Exit(1)
	}

	fmt.Println("Database setup complete. Next: go run ./cmd/cookbook")
}
