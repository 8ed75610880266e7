package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user94a/pratico-server/internal/auth"
)

func TestAuth_ValidToken(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := auth.IssueToken(secret, 3, "bob", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	var got auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
	})
	handler := Auth(auth.NewJWTAuthenticator(secret))(next)

	r := httptest.NewRequest("GET", "/assets", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if got.UserID != 3 || got.Username != "bob" {
		t.Errorf("unexpected identity: %+v", got)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := Auth(auth.NewJWTAuthenticator([]byte("s")))(next)

	r := httptest.NewRequest("GET", "/assets", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if called {
		t.Error("next handler called without credentials")
	}
}

func TestAuth_BadToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := Auth(auth.NewJWTAuthenticator([]byte("s")))(next)

	r := httptest.NewRequest("GET", "/assets", nil)
	r.Header.Set("Authorization", "Bearer nonsense")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}
