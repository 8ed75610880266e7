package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDeadlineRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	due := time.Now().Add(365 * 24 * time.Hour)
	interval := int64(365 * 24 * time.Hour)
	mock.ExpectQuery(`INSERT INTO deadlines`).
		WithArgs(10, 1, "Insurance renewal", due, "pending", sql.NullInt64{Int64: interval, Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "template_id", "title", "due_at", "status", "recurring_interval", "created_at"}).
			AddRow(100, 10, 1, "Insurance renewal", due, "pending", interval, time.Now()))

	repo := NewDeadlineRepo(db)
	d, err := repo.Create(context.Background(), 10, 1, "Insurance renewal", due, time.Duration(interval))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID != 100 || d.Status != "pending" || d.RecurringInterval != time.Duration(interval) {
		t.Errorf("unexpected deadline: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDeadlineRepo_Create_NonRecurring(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	due := time.Now().Add(90 * 24 * time.Hour)
	mock.ExpectQuery(`INSERT INTO deadlines`).
		WithArgs(10, 2, "Inspection", due, "pending", sql.NullInt64{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "template_id", "title", "due_at", "status", "recurring_interval", "created_at"}).
			AddRow(101, 10, 2, "Inspection", due, "pending", nil, time.Now()))

	repo := NewDeadlineRepo(db)
	d, err := repo.Create(context.Background(), 10, 2, "Inspection", due, 0)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.RecurringInterval != 0 {
		t.Errorf("recurring interval %v, want 0", d.RecurringInterval)
	}
}

func TestDeadlineRepo_Create_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO deadlines`).
		WillReturnError(sql.ErrConnDone)

	repo := NewDeadlineRepo(db)
	_, err = repo.Create(context.Background(), 10, 1, "x", time.Now(), 0)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("got %v, want ErrStorage", err)
	}
}

func TestDeadlineRepo_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE deadlines`).
		WithArgs("done", 99, 1).
		WillReturnError(sql.ErrNoRows)

	repo := NewDeadlineRepo(db)
	_, err = repo.UpdateStatus(context.Background(), 1, 99, "done")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDeadlineRepo_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE deadlines SET status = \$1 WHERE status = \$2 AND due_at < \$3`).
		WithArgs("overdue", "pending", now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewDeadlineRepo(db)
	n, err := repo.MarkOverdue(context.Background(), now)
	if err != nil {
		t.Fatalf("MarkOverdue: %v", err)
	}
	if n != 3 {
		t.Errorf("marked %d, want 3", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDeadlineRepo_ListByAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT d.id, d.asset_id, d.template_id, d.title, d.due_at, d.status, d.recurring_interval, d.created_at`).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "template_id", "title", "due_at", "status", "recurring_interval", "created_at"}).
			AddRow(1, 10, 1, "Insurance renewal", now, "pending", int64(time.Hour), now).
			AddRow(2, 10, 2, "Inspection", now, "pending", nil, now))

	repo := NewDeadlineRepo(db)
	list, err := repo.ListByAsset(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(list) != 2 || list[0].RecurringInterval != time.Hour || list[1].RecurringInterval != 0 {
		t.Errorf("unexpected list: %+v", list)
	}
}
