package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func serviceAuthHandler(t *testing.T, token string) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing token: %v", err)
	}

	return ServiceAuth(string(hash))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestServiceAuth_ValidToken(t *testing.T) {
	t.Parallel()

	handler := serviceAuthHandler(t, "qb_live_sekrit")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer qb_live_sekrit")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestServiceAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	handler := serviceAuthHandler(t, "qb_live_sekrit")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestServiceAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	handler := serviceAuthHandler(t, "qb_live_sekrit")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "qb_live_sekrit")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestServiceAuth_WrongToken(t *testing.T) {
	t.Parallel()

	handler := serviceAuthHandler(t, "qb_live_sekrit")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer qb_live_wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestServiceAuth_BearerIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	handler := serviceAuthHandler(t, "qb_live_sekrit")

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "bearer qb_live_sekrit")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}
