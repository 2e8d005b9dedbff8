package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tupleap/authgate/internal/cache"
	apperrors "github.com/tupleap/authgate/internal/errors"
	"github.com/tupleap/authgate/internal/model"
	"github.com/tupleap/authgate/internal/repository"
	"github.com/tupleap/authgate/internal/util"
)

// The admin surface has a single shared principal; every issued code records
// it as the creator.
const adminPrincipal = "admin"

// AdminService issues, lists and deactivates auth codes. It talks straight to
// the durable store: issuance is write-through and listing bypasses the
// validation cache for freshness.
type AdminService struct {
	repo  repository.AuthCodeRepository
	cache *cache.ValidationCache
}

func NewAdminService(repo repository.AuthCodeRepository, c *cache.ValidationCache) *AdminService {
	return &AdminService{repo: repo, cache: c}
}

// GenerateParams are the admin-supplied fields for a new code.
type GenerateParams struct {
	TenantID  string
	Username  string
	ExpiresAt *time.Time
}

// GenerateAuthCode mints a new code and writes it synchronously. The returned
// AuthCode carries the plaintext code; this is the only time it is exposed.
func (s *AdminService) GenerateAuthCode(ctx context.Context, params GenerateParams) (*model.AuthCode, error) {
	if params.TenantID == "" {
		return nil, apperrors.MissingRequired("tenant_id")
	}
	if params.Username == "" {
		return nil, apperrors.MissingRequired("username")
	}
	if params.ExpiresAt != nil && !params.ExpiresAt.After(time.Now()) {
		return nil, apperrors.ValidationError("expires_at must be in the future")
	}

	code, err := util.GenerateAuthCode()
	if err != nil {
		return nil, apperrors.Internal("failed to generate auth code").WithCause(err)
	}

	ac, err := s.repo.Insert(ctx, model.CreateAuthCodeParams{
		AuthCode:  code,
		TenantID:  params.TenantID,
		Username:  params.Username,
		CreatedBy: adminPrincipal,
		ExpiresAt: params.ExpiresAt,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("authCode", util.MaskCode(code)).
		Str("tenantId", params.TenantID).
		Str("username", params.Username).
		Msg("auth code issued")

	return ac, nil
}

// ListAuthCodes reads codes from the store, ordered by (tenant_id, auth_code).
// Usage counts reflect the last successful flush and may lag real-time usage
// by up to one accumulation window.
func (s *AdminService) ListAuthCodes(ctx context.Context, filter repository.ListFilter) ([]model.AuthCode, error) {
	codes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return codes, nil
}

// DeactivateAuthCode flips a code's activity flag off and evicts any cached
// snapshot so this process stops honoring it immediately. Other processes
// converge within one cache TTL.
func (s *AdminService) DeactivateAuthCode(ctx context.Context, code string) error {
	if code == "" {
		return apperrors.MissingRequired("auth_code")
	}

	ac, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return apperrors.Database(err)
	}
	if ac == nil {
		return apperrors.NotFound("auth code")
	}

	if err := s.repo.Deactivate(ctx, code); err != nil {
		return apperrors.Database(err)
	}
	s.cache.Remove(code)

	log.Info().
		Str("authCode", util.MaskCode(code)).
		Str("tenantId", ac.TenantID).
		Msg("auth code deactivated")

	return nil
}
