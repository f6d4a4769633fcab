// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Profile
// model, which is the authoritative credit store.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Credit arithmetic (clamping, daily
// reset decisions, plan allotments) lives in services.CreditService.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sectionforge/go-section-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetProfile fetches a profile by user id, or ErrNotFound if missing.
func GetProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).Where("id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureProfile fetches the profile for userID, creating a default free-plan
// profile on first sight. The insert ignores conflicts so concurrent first
// requests converge on a single row.
func EnsureProfile(ctx context.Context, db *gorm.DB, userID string, now time.Time) (*domain.Profile, error) {
	p := &domain.Profile{
		ID:          userID,
		Plan:        domain.PlanFree,
		MaxCredits:  domain.PlanFree.Credits(),
		CreditsUsed: 0,
		LastResetAt: now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, userID)
}

// SaveCreditState persists the credit counters for a profile. It is the
// single write path for consumption and daily resets.
func SaveCreditState(ctx context.Context, db *gorm.DB, userID string, creditsUsed int, lastResetAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"credits_used":  creditsUsed,
			"last_reset_at": lastResetAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPlan moves a profile to the given plan, replacing the credit ceiling and
// zeroing consumption (an upgrade is an immediate full refill).
func SetPlan(ctx context.Context, db *gorm.DB, userID string, plan domain.Plan, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"plan":          plan,
			"max_credits":   plan.Credits(),
			"credits_used":  0,
			"last_reset_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
