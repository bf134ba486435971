package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/config"
	"cookbook-service/internal/http"
	"cookbook-service/internal/infra/cache"
	"cookbook-service/internal/repository/postgres"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/logger"
	"cookbook-service/pkg/metrics"
	"cookbook-service/pkg/password"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	envFilePath      = ".env"
	serviceName      = "cookbook"
	serverAddrPrefix = ":"
	exitConfigFatal  = 78
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	envErr := godotenv.Load(envFilePath)

	cfg, err := config.Load()
	if err != nil {
		log := logger.New(config.EnvProduction, "info", serviceName)
		if apperrors.IsFatal(err) {
			log.Error().Err(err).Msg("refusing to start with invalid configuration")
			os.Exit(exitConfigFatal)
		}
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.Server.Environment, cfg.Server.LogLevel, serviceName)
	if envErr != nil {
		log.Debug().Msg(".env file not found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		if apperrors.IsFatal(err) {
			log.Error().Err(err).Msg("refusing to start")
			os.Exit(exitConfigFatal)
		}
		log.Fatal().Err(err).Msg("service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	codec, err := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Lifetime)
	if err != nil {
		return err
	}

	hasher, err := password.NewHasher(cfg.App.BcryptCost)
	if err != nil {
		return apperrors.Configuration("invalid bcrypt cost", err)
	}

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("database connection established")

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, log); err != nil {
			return err
		}
	}

	m := metrics.New(prometheus.NewRegistry())

	backends, err := connectInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backends.close(log)

	userRepo := postgres.NewUserRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	listRepo := postgres.NewShoppingListRepository(db)
	assetCatalog := cache.NewAssetCatalog(postgres.NewAssetRepository(db), backends.store, cfg.Redis.AssetCacheTTL, m, log)

	seeded, err := assetCatalog.Seed(ctx)
	if err != nil {
		return err
	}
	if seeded > 0 {
		log.Info().Int64("assets", seeded).Msg("seeded reference assets")
	}

	authenticator := auth.NewAuthenticator(codec, userRepo, cfg.Session.CookieName,
		auth.WithFailureObserver(m),
		auth.WithLogger(log),
	)
	sessions := auth.NewSessionIssuer(codec, cfg.Session.CookieName, auth.CookiePolicyFor(cfg.Server.Environment),
		auth.WithSessionObserver(m),
	)

	deps := &http.ServerDependencies{
		Config:        cfg,
		Logger:        log,
		Health:        db,
		Users:         userRepo,
		Recipes:       recipeRepo,
		ShoppingLists: listRepo,
		Assets:        assetCatalog,
		Hasher:        hasher,
		Authenticator: authenticator,
		Sessions:      sessions,
		Audit:         audit.NewRecorder(postgres.NewAuditRepository(db), log),
		Metrics:       m,
	}
	if backends.photos != nil {
		deps.Photos = backends.photos
	}

	server := http.NewServer(deps)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Environment).Msg("starting HTTP server")
		if err := server.Start(serverAddrPrefix + cfg.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server exited gracefully")
	return nil
}
