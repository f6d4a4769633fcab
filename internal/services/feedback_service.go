// Package services – FeedbackService
//
// This file implements the FeedbackService, which governs how users rate
// generated artifacts (-1 or +1). It enforces the business rules (message
// existence, session ownership, assistant-only restriction, uniqueness) and
// persists feedback atomically.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/repo"
)

// FeedbackService implements the use-cases around artifact feedback. Each
// call opens its own transaction so the ownership checks and the insert are
// atomic.
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	DB *gorm.DB
}

// Leave records a feedback value for messageID on behalf of userID.
//
// Semantics:
//   - value must be exactly -1 or 1; otherwise ErrInvalidFeedback.
//   - messageID must exist; otherwise ErrMessageNotFound.
//   - The message must belong to a session owned by userID, and only
//     assistant messages (the generated artifacts) can be rated; otherwise
//     ErrForbiddenFeedback.
//   - A user may rate a message at most once; a second attempt yields
//     ErrDuplicateFeedback.
func (s *FeedbackService) Leave(ctx context.Context, userID, messageID string, value int) error {
	if value != -1 && value != 1 {
		return ErrInvalidFeedback
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msg, err := repo.GetMessage(tx, messageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrNotFound) {
				return ErrMessageNotFound
			}
			return err
		}

		if _, err := repo.GetChat(ctx, tx, msg.ChatID, userID); err != nil {
			return ErrForbiddenFeedback
		}

		if msg.Role != "assistant" {
			return ErrForbiddenFeedback
		}

		if err := repo.CreateFeedback(ctx, tx, messageID, userID, value); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateFeedback
			}
			return err
		}
		return nil
	})
}

// isDuplicate detects unique-constraint violations across drivers that may
// not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
