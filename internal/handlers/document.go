package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/user94a/pratico-server/internal/middleware"
	"github.com/user94a/pratico-server/internal/repo"
)

// DocumentHandler serves document metadata attached to assets.
type DocumentHandler struct {
	Repo *repo.DocumentRepo
}

// CreateDocument attaches a document to an asset. Body: {"title": "...", "file_url": "..."}.
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
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

	var input struct {
		Title   string `json:"title"`
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Title == "" {
		fields["title"] = "required"
	}
	if input.FileURL == "" {
		fields["file_url"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	doc, err := h.Repo.Create(r.Context(), identity.UserID, assetID, input.Title, input.FileURL)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "asset not found", http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

// ListDocuments returns the documents of one asset.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
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

	docs, err := h.Repo.ListByAsset(r.Context(), identity.UserID, assetID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

// DeleteDocument removes a document.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteByID(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "document not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
