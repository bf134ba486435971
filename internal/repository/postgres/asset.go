package postgres

import (
	"context"
	"fmt"

	"cookbook-service/internal/domain/asset"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func scanAsset(row pgx.Row) (*asset.Asset, error) {
	a := &asset.Asset{}
	err := row.Scan(&a.ID, &a.Kind, &a.Label, &a.Decimal)
	return a, err
}

func (r *AssetRepository) List(ctx context.Context) ([]asset.Asset, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, kind, label, decimal FROM assets ORDER BY created_at, label`)
	if err != nil {
		return nil, errFailedListAssets(err)
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, errFailedScanAsset(err)
		}
		assets = append(assets, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListAssets(err)
	}

	return assets, nil
}

func (r *AssetRepository) Create(ctx context.Context, kind asset.Kind, input asset.Input) (*asset.Asset, error) {
	query := `
		INSERT INTO assets (kind, label, decimal)
		VALUES ($1, $2, $3)
		RETURNING id, kind, label, decimal
	`

	a, err := scanAsset(r.db.Pool.QueryRow(ctx, query, kind, input.Label, input.Decimal))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf(msgAssetExistsFmt, kind, input.Label))
		}
		return nil, errFailedCreateAsset(err)
	}

	return a, nil
}

func (r *AssetRepository) Update(ctx context.Context, kind asset.Kind, id uuid.UUID, input asset.Input) (*asset.Asset, error) {
	query := `
		UPDATE assets SET label = $3, decimal = COALESCE($4, decimal)
		WHERE id = $1 AND kind = $2
		RETURNING id, kind, label, decimal
	`

	a, err := scanAsset(r.db.Pool.QueryRow(ctx, query, id, kind, input.Label, input.Decimal))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(fmt.Sprintf(msgAssetNotFoundFmt, id))
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf(msgAssetExistsFmt, kind, input.Label))
		}
		return nil, errFailedUpdateAsset(err)
	}

	return a, nil
}

func (r *AssetRepository) Delete(ctx context.Context, kind asset.Kind, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM assets WHERE id = $1 AND kind = $2`, id, kind)
	if err != nil {
		return errFailedDeleteAsset(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(fmt.Sprintf(msgAssetNotFoundFmt, id))
	}

	return nil
}

// Seed bulk-loads assets when the table is empty and returns how many rows
// were written. A populated table is left alone.
func (r *AssetRepository) Seed(ctx context.Context, assets []asset.Asset) (int64, error) {
	var written int64

	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM assets`).Scan(&count); err != nil {
			return errFailedSeedAssets(err)
		}
		if count > 0 {
			return nil
		}

		rows := make([][]any, 0, len(assets))
		for _, a := range assets {
			rows = append(rows, []any{uuid.New(), string(a.Kind), a.Label, a.Decimal})
		}

		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{"assets"},
			[]string{"id", "kind", "label", "decimal"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return errFailedSeedAssets(err)
		}
		written = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}
