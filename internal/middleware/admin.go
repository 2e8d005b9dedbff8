package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/tupleap/authgate/internal/errors"
	"github.com/tupleap/authgate/internal/util"
)

// AdminAuthMiddleware gates the admin surface behind a single shared bearer
// secret. The comparison is constant-time and happens before any tenant-code
// logic runs.
type AdminAuthMiddleware struct {
	adminToken string
}

func NewAdminAuthMiddleware(adminToken string) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{adminToken: adminToken}
}

func (m *AdminAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" || m.adminToken == "" || !util.ConstantTimeEqual(token, m.adminToken) {
			log.Warn().Str("path", r.URL.Path).Msg("admin auth failed")
			writeError(w, apperrors.AdminUnauthorized())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
