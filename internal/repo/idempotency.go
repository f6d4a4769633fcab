// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Generation
// model used to implement safe-retry semantics for POST /generate: a replay
// returns the stored artifact without spending a second credit.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
)

// ErrDuplicate indicates that a generation record already exists for the
// given (user_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetGeneration returns a non-expired record or ErrNotFound.
func GetGeneration(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Generation, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Generation
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateGeneration inserts a record and returns ErrDuplicate on unique violation.
func CreateGeneration(ctx context.Context, db *gorm.DB, userID, key, chatID, messageID string, status int, ttl time.Duration) (*domain.Generation, error) {
	now := time.Now().UTC()
	rec := &domain.Generation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Key:       key,
		ChatID:    chatID,
		MessageID: messageID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
