package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/user94a/pratico-server/internal/models"
)

// TemplateRepo reads deadline templates. Templates are reference data seeded
// by migrations; this repo never writes them.
type TemplateRepo struct {
	DB *sql.DB
}

func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{DB: db}
}

// ResolveByType returns all templates for the given asset type, ordered by
// id so that expansion order is deterministic across runs. An asset type
// with no templates yields an empty slice, not an error.
func (r *TemplateRepo) ResolveByType(ctx context.Context, assetType string) ([]models.DeadlineTemplate, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, asset_type, title, interval_expression, recurring
		 FROM deadline_templates
		 WHERE asset_type = $1
		 ORDER BY id`,
		assetType,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve templates: %v", ErrStorage, err)
	}
	defer rows.Close()

	var templates []models.DeadlineTemplate
	for rows.Next() {
		var t models.DeadlineTemplate
		if err := rows.Scan(&t.ID, &t.AssetType, &t.Title, &t.IntervalExpression, &t.Recurring); err != nil {
			return nil, fmt.Errorf("%w: scan template: %v", ErrStorage, err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}
