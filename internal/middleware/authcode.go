package middleware

import (
	"context"
	"net/http"

	"github.com/tupleap/authgate/internal/config"
	"github.com/tupleap/authgate/internal/gatekeeper"
)

type contextKey string

const AuthInfoContextKey contextKey = "authInfo"

// AuthInfo is the authenticated identity attached to admitted requests.
type AuthInfo struct {
	AuthCode string
	TenantID string
	Username string
}

func GetAuthInfo(ctx context.Context) *AuthInfo {
	if info, ok := ctx.Value(AuthInfoContextKey).(*AuthInfo); ok {
		return info
	}
	return nil
}

// AuthCodeMiddleware rejects any request whose TUPLEAP_AUTHCODE header does
// not resolve to a valid, active, unexpired code. Nothing downstream runs on
// a deny.
type AuthCodeMiddleware struct {
	gk *gatekeeper.Gatekeeper
}

func NewAuthCodeMiddleware(gk *gatekeeper.Gatekeeper) *AuthCodeMiddleware {
	return &AuthCodeMiddleware{gk: gk}
}

func (m *AuthCodeMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.Header.Get(config.AuthCodeHeader)

		decision := m.gk.Authorize(r.Context(), code)
		if !decision.Allowed {
			writeError(w, decision.Reason)
			return
		}

		info := &AuthInfo{
			AuthCode: code,
			TenantID: decision.TenantID,
			Username: decision.Username,
		}
		ctx := context.WithValue(r.Context(), AuthInfoContextKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
