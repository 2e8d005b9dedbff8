package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminAuthMiddleware(t *testing.T) {
	const adminToken = "0123456789abcdef0123456789abcdef"

	newHandler := func(t *testing.T, called *bool) http.Handler {
		t.Helper()
		m := NewAdminAuthMiddleware(adminToken)
		return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if called != nil {
				*called = true
			}
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("allows request with correct bearer token", func(t *testing.T) {
		var called bool
		handler := newHandler(t, &called)

		req := httptest.NewRequest("POST", "/admin/auth", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})

	t.Run("rejects request without authorization header", func(t *testing.T) {
		var called bool
		handler := newHandler(t, &called)

		req := httptest.NewRequest("POST", "/admin/auth", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "ADMIN_UNAUTHORIZED")
		assert.False(t, called)
	})

	t.Run("rejects wrong token", func(t *testing.T) {
		var called bool
		handler := newHandler(t, &called)

		req := httptest.NewRequest("POST", "/admin/auth", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("rejects non-bearer scheme", func(t *testing.T) {
		handler := newHandler(t, nil)

		req := httptest.NewRequest("POST", "/admin/auth", nil)
		req.Header.Set("Authorization", "Basic "+adminToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects everything when configured token is empty", func(t *testing.T) {
		m := NewAdminAuthMiddleware("")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("POST", "/admin/auth", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
