// Package provision implements asset provisioning: creating an asset and
// materializing its deadlines from the templates for its type.
package provision

import (
	"context"
	"log/slog"
	"time"

	"github.com/user94a/pratico-server/internal/interval"
	"github.com/user94a/pratico-server/internal/metrics"
	"github.com/user94a/pratico-server/internal/models"
)

// DeadlineWriter persists one deadline. Implemented by repo.DeadlineRepo.
type DeadlineWriter interface {
	Create(ctx context.Context, assetID, templateID int, title string, dueAt time.Time, recurringInterval time.Duration) (models.Deadline, error)
}

// ExpansionFailure records one template that could not be expanded.
type ExpansionFailure struct {
	TemplateID int    `json:"template_id"`
	Reason     string `json:"reason"`
}

// ExpansionResult is the full tally of an expansion run: which deadlines
// were created and which templates failed, in template order.
type ExpansionResult struct {
	Created  []models.Deadline
	Failures []ExpansionFailure
}

// Expander turns deadline templates into concrete deadlines for an asset.
type Expander struct {
	Deadlines DeadlineWriter

	// WriteTimeout bounds each individual deadline write. A stuck insert
	// for one template cannot consume the time budget of the remaining
	// templates.
	WriteTimeout time.Duration
}

func NewExpander(deadlines DeadlineWriter, writeTimeout time.Duration) *Expander {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Expander{Deadlines: deadlines, WriteTimeout: writeTimeout}
}

// Expand processes templates in order. A template with a malformed interval
// or a failed write is recorded as a failure and the rest keep going; the
// expansion never aborts early and never rolls anything back. Each deadline
// is due at asset.CreatedAt + parsed interval, so due_at is never before the
// asset's creation time.
func (e *Expander) Expand(ctx context.Context, asset models.Asset, templates []models.DeadlineTemplate) ExpansionResult {
	var result ExpansionResult
	for _, tmpl := range templates {
		dur, err := interval.Parse(tmpl.IntervalExpression)
		if err != nil {
			slog.Warn("deadline expansion: malformed interval",
				"asset_id", asset.ID,
				"template_id", tmpl.ID,
				"expression", tmpl.IntervalExpression,
				"error", err)
			metrics.IncExpansionFailures("malformed_interval")
			result.Failures = append(result.Failures, ExpansionFailure{
				TemplateID: tmpl.ID,
				Reason:     err.Error(),
			})
			continue
		}

		var recurring time.Duration
		if tmpl.Recurring {
			recurring = dur
		}

		writeCtx, cancel := context.WithTimeout(ctx, e.WriteTimeout)
		d, err := e.Deadlines.Create(writeCtx, asset.ID, tmpl.ID, tmpl.Title, asset.CreatedAt.Add(dur), recurring)
		cancel()
		if err != nil {
			slog.Error("deadline expansion: write failed",
				"asset_id", asset.ID,
				"template_id", tmpl.ID,
				"error", err)
			metrics.IncExpansionFailures("storage")
			result.Failures = append(result.Failures, ExpansionFailure{
				TemplateID: tmpl.ID,
				Reason:     "storage error",
			})
			continue
		}
		metrics.IncDeadlinesCreated()
		result.Created = append(result.Created, d)
	}
	return result
}
