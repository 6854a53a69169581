package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	handler := BearerAuth("secret-token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	handler := BearerAuth("secret-token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	handler := BearerAuth("secret-token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Basic secret-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_WrongToken(t *testing.T) {
	handler := BearerAuth("secret-token")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer not-the-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth_EmptyTokenDisablesAuth(t *testing.T) {
	handler := BearerAuth("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
