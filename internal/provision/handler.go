package provision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user94a/pratico-server/internal/auth"
	"github.com/user94a/pratico-server/internal/handlers"
	"github.com/user94a/pratico-server/internal/metrics"
	"github.com/user94a/pratico-server/internal/models"
	"github.com/user94a/pratico-server/internal/repo"
)

// AssetCreator persists a new asset. Implemented by repo.AssetRepo.
type AssetCreator interface {
	Create(ctx context.Context, ownerID int, name, assetType, identifier string) (models.Asset, error)
}

// TemplateResolver looks up the deadline templates for an asset type.
// Implemented by repo.TemplateRepo.
type TemplateResolver interface {
	ResolveByType(ctx context.Context, assetType string) ([]models.DeadlineTemplate, error)
}

// AuditLogger records provisioning events. Implemented by repo.AuditRepo.
type AuditLogger interface {
	Log(ctx context.Context, userID int, action, resourceType string, resourceID int, details string) error
}

// Handler serves POST /assets. It authenticates the caller, validates the
// request, creates the asset, and expands the type's deadline templates into
// concrete deadlines. Dependencies are injected so tests can substitute
// fakes for the identity provider and the store.
type Handler struct {
	Auth      auth.Authenticator
	Assets    AssetCreator
	Templates TemplateResolver
	Expander  *Expander
	Audit     AuditLogger

	// CallTimeout bounds each external call (auth check, repository
	// writes) so a stuck backend surfaces as an error instead of a hung
	// request.
	CallTimeout time.Duration

	validate *validator.Validate
}

func NewHandler(a auth.Authenticator, assets AssetCreator, templates TemplateResolver, expander *Expander, audit AuditLogger, callTimeout time.Duration) *Handler {
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	return &Handler{
		Auth:        a,
		Assets:      assets,
		Templates:   templates,
		Expander:    expander,
		Audit:       audit,
		CallTimeout: callTimeout,
		validate:    validator.New(),
	}
}

type createAssetInput struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	Type       string `json:"type" validate:"required,oneof=car house other"`
	Identifier string `json:"identifier" validate:"max=64"`
}

type createAssetResponse struct {
	Asset            models.Asset       `json:"asset"`
	DeadlinesCreated int                `json:"deadlines_created"`
	Warnings         []ExpansionFailure `json:"warnings,omitempty"`
}

// CreateAsset handles POST /assets.
//
// Everything up to the asset insert is fail-fast with no mutation: a 401,
// 400, 409, or 500 at that point leaves the store untouched. Once the asset
// exists the request always responds 200; expansion failures are reported in
// the body as warnings, never rolled back.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	// ===== Authenticate =====
	identity, err := h.authenticate(r)
	if err != nil {
		handlers.JSONError(w, authErrorMessage(err), http.StatusUnauthorized)
		return
	}

	// ===== Validate input =====
	var input createAssetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(input); err != nil {
		handlers.JSONValidationError(w, "validation failed", validationFields(err), http.StatusBadRequest)
		return
	}

	// ===== Create asset =====
	ctx, cancel := context.WithTimeout(r.Context(), h.CallTimeout)
	asset, err := h.Assets.Create(ctx, identity.UserID, input.Name, input.Type, input.Identifier)
	cancel()
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			handlers.JSONError(w, "an asset with this identifier already exists", http.StatusConflict)
			return
		}
		slog.Error("create asset failed", "owner_id", identity.UserID, "error", err)
		handlers.JSONError(w, handlers.ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncAssetsProvisioned(asset.Type)

	// ===== Expand deadline templates =====
	// Nothing past this point can fail the request: the asset exists and
	// stays; per-template failures become warnings in the response.
	ctx, cancel = context.WithTimeout(r.Context(), h.CallTimeout)
	templates, err := h.Templates.ResolveByType(ctx, asset.Type)
	cancel()

	var result ExpansionResult
	if err != nil {
		slog.Error("resolve templates failed", "asset_id", asset.ID, "asset_type", asset.Type, "error", err)
		result.Failures = append(result.Failures, ExpansionFailure{Reason: "storage error"})
	} else {
		// The expander bounds each write on its own; no loop-wide budget
		// that one slow insert could exhaust.
		result = h.Expander.Expand(r.Context(), asset, templates)
	}

	if h.Audit != nil {
		ctx, cancel = context.WithTimeout(r.Context(), h.CallTimeout)
		details := fmt.Sprintf("deadlines_created=%d failures=%d", len(result.Created), len(result.Failures))
		if err := h.Audit.Log(ctx, identity.UserID, "provision", "asset", asset.ID, details); err != nil {
			slog.Warn("audit log failed", "asset_id", asset.ID, "error", err)
		}
		cancel()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(createAssetResponse{
		Asset:            asset,
		DeadlinesCreated: len(result.Created),
		Warnings:         result.Failures,
	})
}

// authenticate extracts the bearer token and verifies it within the call
// timeout. No mutation may happen before this returns successfully.
func (h *Handler) authenticate(r *http.Request) (auth.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return auth.Identity{}, auth.ErrMissingToken
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return auth.Identity{}, auth.ErrMissingToken
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.CallTimeout)
	defer cancel()
	return h.Auth.Authenticate(ctx, token)
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing authorization header"
	case errors.Is(err, auth.ErrExpiredToken):
		return "token expired"
	default:
		return "invalid token"
	}
}

// validationFields flattens validator errors into a field -> rule map for
// the 400 response body.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return fields
}
