package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/user94a/pratico-server/internal/models"
)

// AssetRepo persists assets. All reads are scoped to an owner: a user can
// never see or mutate another user's assets.
type AssetRepo struct {
	DB *sql.DB
}

func NewAssetRepo(db *sql.DB) *AssetRepo {
	return &AssetRepo{DB: db}
}

// Create inserts a new asset and returns it fully populated. A duplicate
// (owner_id, identifier) pair returns ErrConflict; any other failure wraps
// ErrStorage. The insert either fully succeeds or performs no mutation.
func (r *AssetRepo) Create(ctx context.Context, ownerID int, name, assetType, identifier string) (models.Asset, error) {
	var asset models.Asset
	var ident sql.NullString
	if identifier != "" {
		ident = sql.NullString{String: identifier, Valid: true}
	}

	var scanned sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO assets (owner_id, name, type, identifier)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, owner_id, name, type, identifier, created_at`,
		ownerID, name, assetType, ident,
	).Scan(
		&asset.ID,
		&asset.OwnerID,
		&asset.Name,
		&asset.Type,
		&scanned,
		&asset.CreatedAt,
	)
	if err != nil {
		if uniqueViolation(err) {
			return models.Asset{}, ErrConflict
		}
		return models.Asset{}, fmt.Errorf("%w: create asset: %v", ErrStorage, err)
	}
	if scanned.Valid {
		asset.Identifier = scanned.String
	}
	return asset, nil
}

// GetByID returns the asset if it exists and belongs to ownerID.
func (r *AssetRepo) GetByID(ctx context.Context, ownerID, id int) (models.Asset, error) {
	var asset models.Asset
	var ident sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, name, type, identifier, created_at
		 FROM assets
		 WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&asset.ID, &asset.OwnerID, &asset.Name, &asset.Type, &ident, &asset.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, ErrNotFound
	}
	if err != nil {
		return models.Asset{}, fmt.Errorf("%w: get asset: %v", ErrStorage, err)
	}
	if ident.Valid {
		asset.Identifier = ident.String
	}
	return asset, nil
}

// ListByOwner returns the owner's assets ordered by id, with pagination.
func (r *AssetRepo) ListByOwner(ctx context.Context, ownerID, limit, offset int) ([]models.Asset, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, owner_id, name, type, identifier, created_at
		 FROM assets
		 WHERE owner_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list assets: %v", ErrStorage, err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var ident sql.NullString
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Type, &ident, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan asset: %v", ErrStorage, err)
		}
		if ident.Valid {
			a.Identifier = ident.String
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteByID removes the asset if it belongs to ownerID. Deadlines and
// documents go with it via ON DELETE CASCADE.
func (r *AssetRepo) DeleteByID(ctx context.Context, ownerID, id int) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM assets WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: delete asset: %v", ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete asset: %v", ErrStorage, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
