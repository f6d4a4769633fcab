// Package services – CreditService
//
// This file implements the CreditService, which owns the daily usage-credit
// allowance. The profiles table is the single source of truth; there is no
// secondary optimistic cache whose divergence would need reconciling. The
// daily reset is evaluated lazily at the top of every entry point rather than
// by a background timer: the check is cheap and idempotent, so running it on
// each read or mutation preserves correctness without scheduling.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Credits is the balance snapshot returned by every credit operation.
type Credits struct {
	Current int         `json:"current"`
	Max     int         `json:"max"`
	Plan    domain.Plan `json:"plan"`
}

// CreditService provides credit balance reads, consumption, daily resets,
// and plan upgrades. A missing profile is created on first access with the
// free plan's default allowance.
type CreditService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now returns the current time; overridable in tests. Nil means
	// time.Now (UTC is applied internally).
	Now func() time.Time
}

// NewCreditService constructs a CreditService bound to db.
func NewCreditService(db *gorm.DB) *CreditService {
	return &CreditService{DB: db}
}

func (s *CreditService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the current balance for userID, creating a default free
// profile on first sight and applying the daily reset when due.
func (s *CreditService) Get(ctx context.Context, userID string) (Credits, error) {
	tr := otel.Tracer("services/CreditService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return s.load(ctx, s.DB, userID)
}

// Consume spends n credits for userID, clamped at zero: consuming more than
// the remaining balance leaves the balance at zero rather than failing.
// Callers that require a credit to be available must check Current before
// entering the generation path.
func (s *CreditService) Consume(ctx context.Context, userID string, n int) (Credits, error) {
	tr := otel.Tracer("services/CreditService")
	ctx, span := tr.Start(ctx, "Consume",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("credits.n", n),
		),
	)
	defer span.End()

	return s.ConsumeIn(ctx, s.DB, userID, n)
}

// ConsumeIn is Consume bound to an explicit handle, letting the generation
// orchestrator spend a credit inside its own transaction.
func (s *CreditService) ConsumeIn(ctx context.Context, db *gorm.DB, userID string, n int) (Credits, error) {
	if n < 0 {
		n = 0
	}

	p, err := s.ensureFresh(ctx, db, userID)
	if err != nil {
		return Credits{}, err
	}

	used := p.CreditsUsed + n
	if used > p.MaxCredits {
		used = p.MaxCredits
	}
	if used != p.CreditsUsed {
		if err := repo.SaveCreditState(ctx, db, userID, used, p.LastResetAt); err != nil {
			return Credits{}, err
		}
		p.CreditsUsed = used
	}
	return snapshot(p), nil
}

// Upgrade moves userID to the named plan. The new allowance takes effect
// immediately as a full refill regardless of prior consumption.
func (s *CreditService) Upgrade(ctx context.Context, userID string, plan domain.Plan) (Credits, error) {
	tr := otel.Tracer("services/CreditService")
	ctx, span := tr.Start(ctx, "Upgrade",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("plan", string(plan)),
		),
	)
	defer span.End()

	if !plan.Valid() {
		return Credits{}, ErrInvalidPlan
	}

	now := s.now()
	if _, err := repo.EnsureProfile(ctx, s.DB, userID, now); err != nil {
		return Credits{}, err
	}
	if err := repo.SetPlan(ctx, s.DB, userID, plan, now); err != nil {
		return Credits{}, err
	}
	return Credits{Current: plan.Credits(), Max: plan.Credits(), Plan: plan}, nil
}

// load fetches the profile (creating it if needed), applies a pending daily
// reset, and returns the snapshot.
func (s *CreditService) load(ctx context.Context, db *gorm.DB, userID string) (Credits, error) {
	p, err := s.ensureFresh(ctx, db, userID)
	if err != nil {
		return Credits{}, err
	}
	return snapshot(p), nil
}

// ensureFresh returns the profile with the daily reset applied. The reset
// compares calendar days in UTC; repeating the call within the same day is a
// no-op.
func (s *CreditService) ensureFresh(ctx context.Context, db *gorm.DB, userID string) (*domain.Profile, error) {
	now := s.now()
	p, err := repo.EnsureProfile(ctx, db, userID, now)
	if err != nil {
		return nil, err
	}

	if p.CreditsUsed > 0 && startOfDay(p.LastResetAt) != startOfDay(now) {
		if err := repo.SaveCreditState(ctx, db, userID, 0, now); err != nil {
			return nil, err
		}
		p.CreditsUsed = 0
		p.LastResetAt = now
	} else if startOfDay(p.LastResetAt) != startOfDay(now) {
		// Nothing consumed, but advance the marker so the day comparison
		// stays cheap and monotone.
		if err := repo.SaveCreditState(ctx, db, userID, 0, now); err != nil {
			return nil, err
		}
		p.LastResetAt = now
	}
	return p, nil
}

func snapshot(p *domain.Profile) Credits {
	current := p.MaxCredits - p.CreditsUsed
	if current < 0 {
		current = 0
	}
	return Credits{Current: current, Max: p.MaxCredits, Plan: p.Plan}
}

// startOfDay truncates t to UTC midnight.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
