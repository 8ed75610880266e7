package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user94a/pratico-server/internal/middleware"
	"github.com/user94a/pratico-server/internal/models"
	"github.com/user94a/pratico-server/internal/repo"
)

// DeadlineHandler serves deadline reads and status changes. Deadlines are
// only ever created by the provisioning flow; this handler never inserts.
type DeadlineHandler struct {
	Repo *repo.DeadlineRepo
}

// ListAssetDeadlines returns all deadlines of one asset, soonest first.
func (h *DeadlineHandler) ListAssetDeadlines(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	assetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	deadlines, err := h.Repo.ListByAsset(r.Context(), identity.UserID, assetID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deadlines)
}

// ListUpcoming returns the caller's open deadlines across all assets.
// Query: due_before (RFC 3339, default now+30 days), limit (default 50).
func (h *DeadlineHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	before := time.Now().Add(30 * 24 * time.Hour)
	if s := r.URL.Query().Get("due_before"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			JSONError(w, "invalid due_before, want RFC 3339", http.StatusBadRequest)
			return
		}
		before = t
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}

	deadlines, err := h.Repo.ListUpcoming(r.Context(), identity.UserID, before, limit)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deadlines)
}

// UpdateStatus changes a deadline's status. Body: {"status": "pending"|"done"|"overdue"}.
func (h *DeadlineHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid deadline id", http.StatusBadRequest)
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.KnownDeadlineStatus(input.Status) {
		JSONValidationError(w, "validation failed", map[string]string{"status": "must be pending, done, or overdue"}, http.StatusBadRequest)
		return
	}

	d, err := h.Repo.UpdateStatus(r.Context(), identity.UserID, id, input.Status)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "deadline not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}
