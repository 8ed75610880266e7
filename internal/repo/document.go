package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/user94a/pratico-server/internal/models"
)

// DocumentRepo persists document metadata attached to assets.
type DocumentRepo struct {
	DB *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db}
}

// Create attaches a document to an asset owned by ownerID. The subquery
// ownership check makes a cross-owner attach insert nothing.
func (r *DocumentRepo) Create(ctx context.Context, ownerID, assetID int, title, fileURL string) (models.Document, error) {
	var doc models.Document
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO documents (asset_id, title, file_url)
		 SELECT $1, $2, $3
		 WHERE EXISTS (SELECT 1 FROM assets WHERE id = $1 AND owner_id = $4)
		 RETURNING id, asset_id, title, file_url, created_at`,
		assetID, title, fileURL, ownerID,
	).Scan(&doc.ID, &doc.AssetID, &doc.Title, &doc.FileURL, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Document{}, ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: create document: %v", ErrStorage, err)
	}
	return doc, nil
}

// ListByAsset returns all documents for an asset owned by ownerID.
func (r *DocumentRepo) ListByAsset(ctx context.Context, ownerID, assetID int) ([]models.Document, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT d.id, d.asset_id, d.title, d.file_url, d.created_at
		 FROM documents d
		 JOIN assets a ON a.id = d.asset_id
		 WHERE d.asset_id = $1 AND a.owner_id = $2
		 ORDER BY d.id`,
		assetID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrStorage, err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.AssetID, &d.Title, &d.FileURL, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", ErrStorage, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// DeleteByID removes a document if its asset belongs to ownerID.
func (r *DocumentRepo) DeleteByID(ctx context.Context, ownerID, id int) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM documents d
		 USING assets a
		 WHERE d.id = $1 AND a.id = d.asset_id AND a.owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("%w: delete document: %v", ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete document: %v", ErrStorage, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
