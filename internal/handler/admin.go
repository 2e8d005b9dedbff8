package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/tupleap/authgate/internal/errors"
	"github.com/tupleap/authgate/internal/repository"
	"github.com/tupleap/authgate/internal/service"
	"github.com/tupleap/authgate/internal/util"
)

type AdminHandler struct {
	adminService    *service.AdminService
	adminMiddleware func(http.Handler) http.Handler
}

func NewAdminHandler(
	adminService *service.AdminService,
	adminMiddleware func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		adminMiddleware: adminMiddleware,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.adminMiddleware)
		r.Post("/auth/generate", h.GenerateAuthCode)
		r.Post("/auth", h.ListAuthCodes)
		r.Post("/auth/deactivate", h.DeactivateAuthCode)
	})

	return r
}

type generateAuthCodeRequest struct {
	TenantID  string     `json:"tenant_id"`
	Username  string     `json:"username"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type generateAuthCodeResponse struct {
	AuthCode  string     `json:"auth_code"`
	TenantID  string     `json:"tenant_id"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (h *AdminHandler) GenerateAuthCode(w http.ResponseWriter, r *http.Request) {
	var req generateAuthCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	ac, err := h.adminService.GenerateAuthCode(r.Context(), service.GenerateParams{
		TenantID:  req.TenantID,
		Username:  req.Username,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// The only response that ever carries the plaintext code.
	writeJSON(w, http.StatusOK, generateAuthCodeResponse{
		AuthCode:  ac.AuthCode,
		TenantID:  ac.TenantID,
		Username:  ac.Username,
		CreatedAt: ac.CreatedAt,
		ExpiresAt: ac.ExpiresAt,
	})
}

type listAuthCodesRequest struct {
	TenantID string `json:"tenant_id,omitempty"`
	Username string `json:"username,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type authCodeSummary struct {
	AuthCode   string     `json:"auth_code"`
	TenantID   string     `json:"tenant_id"`
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
	IsActive   bool       `json:"is_active"`
	UsageCount uint64     `json:"usage_count"`
	CreatedBy  string     `json:"created_by"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (h *AdminHandler) ListAuthCodes(w http.ResponseWriter, r *http.Request) {
	var req listAuthCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	codes, err := h.adminService.ListAuthCodes(r.Context(), repository.ListFilter{
		TenantID: req.TenantID,
		Username: req.Username,
		Limit:    req.Limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]authCodeSummary, 0, len(codes))
	for _, ac := range codes {
		summaries = append(summaries, authCodeSummary{
			AuthCode:   util.MaskCode(ac.AuthCode),
			TenantID:   ac.TenantID,
			Username:   ac.Username,
			CreatedAt:  ac.CreatedAt,
			IsActive:   ac.IsActive,
			UsageCount: ac.UsageCount,
			CreatedBy:  ac.CreatedBy,
			ExpiresAt:  ac.ExpiresAt,
		})
	}

	writeJSON(w, http.StatusOK, summaries)
}

type deactivateAuthCodeRequest struct {
	AuthCode string `json:"auth_code"`
}

func (h *AdminHandler) DeactivateAuthCode(w http.ResponseWriter, r *http.Request) {
	var req deactivateAuthCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if err := h.adminService.DeactivateAuthCode(r.Context(), req.AuthCode); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
