package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/user94a/pratico-server/internal/models"
)

// DeadlineRepo persists per-asset deadlines.
type DeadlineRepo struct {
	DB *sql.DB
}

func NewDeadlineRepo(db *sql.DB) *DeadlineRepo {
	return &DeadlineRepo{DB: db}
}

// Create inserts a deadline for an asset. The insert is idempotent per
// (asset_id, template_id): re-running expansion for the same asset hits the
// ON CONFLICT clause and returns the already-existing row instead of a
// duplicate.
func (r *DeadlineRepo) Create(ctx context.Context, assetID, templateID int, title string, dueAt time.Time, recurringInterval time.Duration) (models.Deadline, error) {
	var d models.Deadline
	var interval sql.NullInt64
	if recurringInterval > 0 {
		interval = sql.NullInt64{Int64: int64(recurringInterval), Valid: true}
	}

	var scanned sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO deadlines (asset_id, template_id, title, due_at, status, recurring_interval)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (asset_id, template_id) DO UPDATE SET title = deadlines.title
		 RETURNING id, asset_id, template_id, title, due_at, status, recurring_interval, created_at`,
		assetID, templateID, title, dueAt, models.DeadlineStatusPending, interval,
	).Scan(&d.ID, &d.AssetID, &d.TemplateID, &d.Title, &d.DueAt, &d.Status, &scanned, &d.CreatedAt)
	if err != nil {
		return models.Deadline{}, fmt.Errorf("%w: create deadline: %v", ErrStorage, err)
	}
	if scanned.Valid {
		d.RecurringInterval = time.Duration(scanned.Int64)
	}
	return d, nil
}

// ListByAsset returns all deadlines for an asset owned by ownerID, soonest
// due first.
func (r *DeadlineRepo) ListByAsset(ctx context.Context, ownerID, assetID int) ([]models.Deadline, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT d.id, d.asset_id, d.template_id, d.title, d.due_at, d.status, d.recurring_interval, d.created_at
		 FROM deadlines d
		 JOIN assets a ON a.id = d.asset_id
		 WHERE d.asset_id = $1 AND a.owner_id = $2
		 ORDER BY d.due_at, d.id`,
		assetID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list deadlines: %v", ErrStorage, err)
	}
	defer rows.Close()
	return scanDeadlines(rows)
}

// ListUpcoming returns the owner's deadlines due before the given time,
// across all assets, soonest first.
func (r *DeadlineRepo) ListUpcoming(ctx context.Context, ownerID int, before time.Time, limit int) ([]models.Deadline, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT d.id, d.asset_id, d.template_id, d.title, d.due_at, d.status, d.recurring_interval, d.created_at
		 FROM deadlines d
		 JOIN assets a ON a.id = d.asset_id
		 WHERE a.owner_id = $1 AND d.due_at < $2 AND d.status <> $3
		 ORDER BY d.due_at, d.id
		 LIMIT $4`,
		ownerID, before, models.DeadlineStatusDone, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list upcoming deadlines: %v", ErrStorage, err)
	}
	defer rows.Close()
	return scanDeadlines(rows)
}

// UpdateStatus sets the status of a deadline owned (via its asset) by
// ownerID. Returns ErrNotFound when the deadline does not exist or belongs
// to someone else.
func (r *DeadlineRepo) UpdateStatus(ctx context.Context, ownerID, id int, status string) (models.Deadline, error) {
	var d models.Deadline
	var scanned sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		`UPDATE deadlines d
		 SET status = $1
		 FROM assets a
		 WHERE d.id = $2 AND a.id = d.asset_id AND a.owner_id = $3
		 RETURNING d.id, d.asset_id, d.template_id, d.title, d.due_at, d.status, d.recurring_interval, d.created_at`,
		status, id, ownerID,
	).Scan(&d.ID, &d.AssetID, &d.TemplateID, &d.Title, &d.DueAt, &d.Status, &scanned, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Deadline{}, ErrNotFound
	}
	if err != nil {
		return models.Deadline{}, fmt.Errorf("%w: update deadline status: %v", ErrStorage, err)
	}
	if scanned.Valid {
		d.RecurringInterval = time.Duration(scanned.Int64)
	}
	return d, nil
}

// MarkOverdue flips every pending deadline past its due date to overdue and
// returns how many rows changed. Called by the background sweeper.
func (r *DeadlineRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE deadlines SET status = $1 WHERE status = $2 AND due_at < $3`,
		models.DeadlineStatusOverdue, models.DeadlineStatusPending, now,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: mark overdue: %v", ErrStorage, err)
	}
	return res.RowsAffected()
}

func scanDeadlines(rows *sql.Rows) ([]models.Deadline, error) {
	var list []models.Deadline
	for rows.Next() {
		var d models.Deadline
		var interval sql.NullInt64
		if err := rows.Scan(&d.ID, &d.AssetID, &d.TemplateID, &d.Title, &d.DueAt, &d.Status, &interval, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan deadline: %v", ErrStorage, err)
		}
		if interval.Valid {
			d.RecurringInterval = time.Duration(interval.Int64)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
