package gatekeeper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tupleap/authgate/internal/cache"
	apperrors "github.com/tupleap/authgate/internal/errors"
	"github.com/tupleap/authgate/internal/repository"
	"github.com/tupleap/authgate/internal/usage"
	"github.com/tupleap/authgate/internal/util"
)

// Decision is the outcome of authorizing one request.
type Decision struct {
	Allowed  bool
	TenantID string
	Username string
	Reason   *apperrors.AppError
}

// Gatekeeper is the request-path decision function. It consults the
// validation cache, falls back to the durable store on a miss, applies the
// activity and expiry rules, and feeds the usage accumulator on allow.
type Gatekeeper struct {
	repo     repository.AuthCodeRepository
	cache    *cache.ValidationCache
	recorder usage.Recorder
}

func New(repo repository.AuthCodeRepository, c *cache.ValidationCache, recorder usage.Recorder) *Gatekeeper {
	return &Gatekeeper{
		repo:     repo,
		cache:    c,
		recorder: recorder,
	}
}

// Authorize validates an auth code and returns an allow or a deny with a
// reason. It suspends only on a cache miss's store round-trip; the usage
// record on allow is fire-and-forget.
func (g *Gatekeeper) Authorize(ctx context.Context, code string) Decision {
	if code == "" {
		return deny(apperrors.MissingCredential())
	}

	snap, ok := g.cache.Get(code)
	if !ok {
		ac, err := g.repo.FindByCode(ctx, code)
		if err != nil {
			// Fail closed: an unverifiable credential is never an allow,
			// and never reported as merely unknown.
			log.Error().Err(err).Msg("auth code lookup failed")
			return deny(apperrors.StoreUnavailable(err))
		}
		if ac == nil {
			log.Warn().Str("authCode", util.MaskCode(code)).Msg("unknown auth code")
			return deny(apperrors.UnknownCredential())
		}

		snap = cache.Snapshot{
			TenantID:  ac.TenantID,
			Username:  ac.Username,
			IsActive:  ac.IsActive,
			ExpiresAt: ac.ExpiresAt,
		}
		g.cache.Put(code, snap)
	}

	if !snap.IsActive {
		return deny(apperrors.InactiveCredential())
	}
	if snap.ExpiresAt != nil && !snap.ExpiresAt.After(time.Now()) {
		return deny(apperrors.ExpiredCredential())
	}

	g.recorder.Record(code)

	return Decision{
		Allowed:  true,
		TenantID: snap.TenantID,
		Username: snap.Username,
	}
}

func deny(reason *apperrors.AppError) Decision {
	return Decision{Reason: reason}
}
