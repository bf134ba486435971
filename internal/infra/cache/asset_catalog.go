package cache

import (
	"context"
	"encoding/json"
	"time"

	"cookbook-service/internal/domain/asset"
	"cookbook-service/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const catalogKey = "assets:catalog"

type LookupObserver interface {
	ObserveCacheLookup(operation string, hit bool)
}

// AssetCatalog serves the dropdown catalog from the cache and falls back to
// the repository on a miss. Every mutation drops the cached copy. Cache
// errors are logged and never fail a request.
type AssetCatalog struct {
	repo     repository.AssetRepository
	store    Store
	ttl      time.Duration
	observer LookupObserver
	logger   zerolog.Logger
}

func NewAssetCatalog(repo repository.AssetRepository, store Store, ttl time.Duration, observer LookupObserver, logger zerolog.Logger) *AssetCatalog {
	return &AssetCatalog{
		repo:     repo,
		store:    store,
		ttl:      ttl,
		observer: observer,
		logger:   logger.With().Str("component", "asset_catalog").Logger(),
	}
}

func (a *AssetCatalog) Catalog(ctx context.Context) (*asset.Catalog, error) {
	if cached, ok := a.cached(ctx); ok {
		return cached, nil
	}

	assets, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	catalog := asset.BuildCatalog(assets)

	if raw, err := json.Marshal(catalog); err == nil {
		if err := a.store.Set(ctx, catalogKey, raw, a.ttl); err != nil {
			a.logger.Warn().Err(err).Msg("failed to store asset catalog")
		}
	}

	return &catalog, nil
}

func (a *AssetCatalog) cached(ctx context.Context) (*asset.Catalog, bool) {
	raw, err := a.store.Get(ctx, catalogKey)
	if err != nil {
		a.logger.Warn().Err(err).Msg("asset catalog cache unavailable")
	}

	hit := err == nil && raw != nil
	if a.observer != nil {
		a.observer.ObserveCacheLookup("asset_catalog", hit)
	}
	if !hit {
		return nil, false
	}

	var catalog asset.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		a.logger.Warn().Err(err).Msg("discarding corrupt asset catalog")
		a.invalidate(ctx)
		return nil, false
	}

	return &catalog, true
}

func (a *AssetCatalog) Create(ctx context.Context, kind asset.Kind, input asset.Input) (*asset.Asset, error) {
	created, err := a.repo.Create(ctx, kind, input)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx)
	return created, nil
}

func (a *AssetCatalog) Update(ctx context.Context, kind asset.Kind, id uuid.UUID, input asset.Input) (*asset.Asset, error) {
	updated, err := a.repo.Update(ctx, kind, id, input)
	if err != nil {
		return nil, err
	}
	a.invalidate(ctx)
	return updated, nil
}

func (a *AssetCatalog) Delete(ctx context.Context, kind asset.Kind, id uuid.UUID) error {
	if err := a.repo.Delete(ctx, kind, id); err != nil {
		return err
	}
	a.invalidate(ctx)
	return nil
}

// Seed loads the default assets into an empty table.
func (a *AssetCatalog) Seed(ctx context.Context) (int64, error) {
	n, err := a.repo.Seed(ctx, asset.Seed())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.invalidate(ctx)
	}
	return n, nil
}

func (a *AssetCatalog) invalidate(ctx context.Context) {
	if err := a.store.Delete(ctx, catalogKey); err != nil {
		a.logger.Warn().Err(err).Msg("failed to invalidate asset catalog")
	}
}
