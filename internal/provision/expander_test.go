package provision

import (
	"context"
	"testing"
	"time"

	"github.com/user94a/pratico-server/internal/models"
	"github.com/user94a/pratico-server/internal/repo"
)

// fakeDeadlineWriter records created deadlines and fails for template IDs in
// failOn.
type fakeDeadlineWriter struct {
	nextID  int
	created []models.Deadline
	failOn  map[int]bool
}

func (f *fakeDeadlineWriter) Create(_ context.Context, assetID, templateID int, title string, dueAt time.Time, recurring time.Duration) (models.Deadline, error) {
	if f.failOn[templateID] {
		return models.Deadline{}, repo.ErrStorage
	}
	f.nextID++
	d := models.Deadline{
		ID:                f.nextID,
		AssetID:           assetID,
		TemplateID:        templateID,
		Title:             title,
		DueAt:             dueAt,
		Status:            models.DeadlineStatusPending,
		RecurringInterval: recurring,
	}
	f.created = append(f.created, d)
	return d, nil
}

var testAsset = models.Asset{
	ID:        10,
	OwnerID:   1,
	Name:      "My car",
	Type:      models.AssetTypeCar,
	CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
}

func TestExpand_AllSucceed(t *testing.T) {
	writer := &fakeDeadlineWriter{}
	e := NewExpander(writer, time.Second)

	templates := []models.DeadlineTemplate{
		{ID: 1, AssetType: "car", Title: "Insurance renewal", IntervalExpression: "1 year", Recurring: true},
		{ID: 2, AssetType: "car", Title: "Inspection", IntervalExpression: "90 days"},
	}

	result := e.Expand(context.Background(), testAsset, templates)
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if len(result.Created) != 2 {
		t.Fatalf("created %d deadlines, want 2", len(result.Created))
	}

	wantDue := testAsset.CreatedAt.Add(365 * 24 * time.Hour)
	if !result.Created[0].DueAt.Equal(wantDue) {
		t.Errorf("deadline 0 due %v, want %v", result.Created[0].DueAt, wantDue)
	}
	// Recurring template keeps its parsed interval; non-recurring does not.
	if result.Created[0].RecurringInterval != 365*24*time.Hour {
		t.Errorf("deadline 0 recurring interval %v", result.Created[0].RecurringInterval)
	}
	if result.Created[1].RecurringInterval != 0 {
		t.Errorf("deadline 1 recurring interval %v, want 0", result.Created[1].RecurringInterval)
	}
}

func TestExpand_MalformedIntervalSkipsOnlyThatTemplate(t *testing.T) {
	writer := &fakeDeadlineWriter{}
	e := NewExpander(writer, time.Second)

	templates := []models.DeadlineTemplate{
		{ID: 1, Title: "Good A", IntervalExpression: "1 year"},
		{ID: 2, Title: "Bad", IntervalExpression: "abc days"},
		{ID: 3, Title: "Good B", IntervalExpression: "30 days"},
	}

	result := e.Expand(context.Background(), testAsset, templates)
	if len(result.Created) != 2 {
		t.Fatalf("created %d deadlines, want 2", len(result.Created))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(result.Failures))
	}
	if result.Failures[0].TemplateID != 2 {
		t.Errorf("failure references template %d, want 2", result.Failures[0].TemplateID)
	}
	// Expansion proceeds in template order around the failure.
	if writer.created[0].TemplateID != 1 || writer.created[1].TemplateID != 3 {
		t.Errorf("unexpected creation order: %+v", writer.created)
	}
}

func TestExpand_WriteFailureDoesNotAbort(t *testing.T) {
	writer := &fakeDeadlineWriter{failOn: map[int]bool{1: true}}
	e := NewExpander(writer, time.Second)

	templates := []models.DeadlineTemplate{
		{ID: 1, Title: "Fails", IntervalExpression: "1 year"},
		{ID: 2, Title: "Succeeds", IntervalExpression: "30 days"},
	}

	result := e.Expand(context.Background(), testAsset, templates)
	if len(result.Created) != 1 || result.Created[0].TemplateID != 2 {
		t.Fatalf("unexpected created: %+v", result.Created)
	}
	if len(result.Failures) != 1 || result.Failures[0].TemplateID != 1 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if result.Failures[0].Reason != "storage error" {
		t.Errorf("reason %q, want %q", result.Failures[0].Reason, "storage error")
	}
}

func TestExpand_NoTemplates(t *testing.T) {
	e := NewExpander(&fakeDeadlineWriter{}, time.Second)
	result := e.Expand(context.Background(), testAsset, nil)
	if len(result.Created) != 0 || len(result.Failures) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestExpand_DueAtNeverBeforeCreation(t *testing.T) {
	writer := &fakeDeadlineWriter{}
	e := NewExpander(writer, time.Second)

	templates := []models.DeadlineTemplate{
		{ID: 1, Title: "Zero offset", IntervalExpression: "0 days"},
	}
	result := e.Expand(context.Background(), testAsset, templates)
	if len(result.Created) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Created[0].DueAt.Before(testAsset.CreatedAt) {
		t.Errorf("due_at %v before created_at %v", result.Created[0].DueAt, testAsset.CreatedAt)
	}
}

// stallingWriter blocks on the template IDs in stallOn until the write's own
// context expires, then succeeds for everything else.
type stallingWriter struct {
	fakeDeadlineWriter
	stallOn map[int]bool
}

func (w *stallingWriter) Create(ctx context.Context, assetID, templateID int, title string, dueAt time.Time, recurring time.Duration) (models.Deadline, error) {
	if w.stallOn[templateID] {
		<-ctx.Done()
		return models.Deadline{}, ctx.Err()
	}
	return w.fakeDeadlineWriter.Create(ctx, assetID, templateID, title, dueAt, recurring)
}

func TestExpand_SlowWriteOnlyConsumesItsOwnBudget(t *testing.T) {
	writer := &stallingWriter{stallOn: map[int]bool{1: true}}
	e := NewExpander(writer, 20*time.Millisecond)

	templates := []models.DeadlineTemplate{
		{ID: 1, Title: "Stuck", IntervalExpression: "1 year"},
		{ID: 2, Title: "Fast A", IntervalExpression: "30 days"},
		{ID: 3, Title: "Fast B", IntervalExpression: "90 days"},
	}

	// Each write gets its own timeout, so the stuck insert for template 1
	// cannot starve templates 2 and 3.
	result := e.Expand(context.Background(), testAsset, templates)
	if len(result.Created) != 2 {
		t.Fatalf("created %d deadlines, want 2: %+v", len(result.Created), result)
	}
	if result.Created[0].TemplateID != 2 || result.Created[1].TemplateID != 3 {
		t.Errorf("unexpected created: %+v", result.Created)
	}
	if len(result.Failures) != 1 || result.Failures[0].TemplateID != 1 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if result.Failures[0].Reason != "storage error" {
		t.Errorf("reason %q, want %q", result.Failures[0].Reason, "storage error")
	}
}

// Re-running expansion relies on the writer's idempotent insert. The fake
// mimics the ON CONFLICT behavior by returning the existing row, so a second
// run creates nothing new.
func TestExpand_RerunUsesIdempotentWriter(t *testing.T) {
	writer := &idempotentWriter{seen: make(map[[2]int]models.Deadline)}
	e := NewExpander(writer, time.Second)

	templates := []models.DeadlineTemplate{
		{ID: 1, Title: "A", IntervalExpression: "1 year"},
	}

	first := e.Expand(context.Background(), testAsset, templates)
	second := e.Expand(context.Background(), testAsset, templates)
	if len(first.Created) != 1 || len(second.Created) != 1 {
		t.Fatalf("unexpected results: %+v / %+v", first, second)
	}
	if first.Created[0].ID != second.Created[0].ID {
		t.Errorf("rerun produced a new deadline: %d vs %d", first.Created[0].ID, second.Created[0].ID)
	}
	if writer.inserts != 1 {
		t.Errorf("writer performed %d inserts, want 1", writer.inserts)
	}
}

type idempotentWriter struct {
	nextID  int
	inserts int
	seen    map[[2]int]models.Deadline
}

func (w *idempotentWriter) Create(_ context.Context, assetID, templateID int, title string, dueAt time.Time, recurring time.Duration) (models.Deadline, error) {
	key := [2]int{assetID, templateID}
	if d, ok := w.seen[key]; ok {
		return d, nil
	}
	w.nextID++
	w.inserts++
	d := models.Deadline{ID: w.nextID, AssetID: assetID, TemplateID: templateID, Title: title, DueAt: dueAt, RecurringInterval: recurring}
	w.seen[key] = d
	return d, nil
}
