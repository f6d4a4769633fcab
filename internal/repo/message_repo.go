// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// and ChatImage models.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
)

// CreateMessage inserts a new message row.
func CreateMessage(db *gorm.DB, chatID, role, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListMessages returns messages ordered deterministically (CreatedAt ASC, ID ASC).
func ListMessages(db *gorm.DB, chatID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetMessage fetches a message by ID.
func GetMessage(db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateChatImage records the uploaded screenshot reference for a chat.
func CreateChatImage(db *gorm.DB, chatID, imageURL string) (*domain.ChatImage, error) {
	img := &domain.ChatImage{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	return img, db.Create(img).Error
}

// ListChatImages returns the image records for a chat, oldest first.
func ListChatImages(db *gorm.DB, chatID string) ([]domain.ChatImage, error) {
	var out []domain.ChatImage
	err := db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}
