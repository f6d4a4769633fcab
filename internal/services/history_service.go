// Package services – HistoryService
//
// This file implements the HistoryService, which owns the generation history:
// listing a user's past sessions grouped into relative date buckets, loading a
// single session with its messages and uploaded images, and deleting sessions
// one at a time or wholesale.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Date bucket labels, newest first. Buckets are derived from CreatedAt at read
// time so a chat migrates between them as days pass without any writes.
const (
	BucketToday     = "Today"
	BucketYesterday = "Yesterday"
	BucketWeek      = "Previous 7 Days"
	BucketOlder     = "Older"
)

// ChatSummary is a history list entry: the chat metadata plus its derived
// date bucket.
type ChatSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	DateBucket string    `json:"date_bucket"`
}

// ChatDetail is a fully loaded session: the chat, its messages in
// chronological order, and the screenshots it was generated from.
type ChatDetail struct {
	Chat     domain.Chat        `json:"chat"`
	Messages []domain.Message   `json:"messages"`
	Images   []domain.ChatImage `json:"images"`
}

// HistoryService lists, loads, and deletes a user's generation sessions.
type HistoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Now returns the current time; overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// NewHistoryService constructs a HistoryService bound to db.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

func (s *HistoryService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// List returns all of the user's chats, newest first, each labeled with its
// date bucket.
func (s *HistoryService) List(ctx context.Context, userID string) ([]ChatSummary, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	chats, err := repo.ListChats(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(chats), nil
}

// ListPage returns one page of the user's chats plus the total count.
func (s *HistoryService) ListPage(ctx context.Context, userID string, offset, limit int) ([]ChatSummary, int64, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page.offset", offset),
			attribute.Int("page.limit", limit),
		),
	)
	defer span.End()

	total, err := repo.CountChats(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	chats, err := repo.ListChatsPage(ctx, s.DB, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return s.summarize(chats), total, nil
}

// Get loads a single chat the user owns, with its messages and images.
// Returns ErrChatNotFound when the chat does not exist or belongs to someone
// else.
func (s *HistoryService) Get(ctx context.Context, userID, chatID string) (*ChatDetail, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("chat.id", chatID),
		),
	)
	defer span.End()

	c, err := repo.GetChat(ctx, s.DB, chatID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}

	msgs, err := repo.ListMessages(s.DB.WithContext(ctx), chatID, 0)
	if err != nil {
		return nil, err
	}
	imgs, err := repo.ListChatImages(s.DB.WithContext(ctx), chatID)
	if err != nil {
		return nil, err
	}
	return &ChatDetail{Chat: *c, Messages: msgs, Images: imgs}, nil
}

// Create starts a new empty session for userID with the given title. A blank
// title falls back to the schema default.
func (s *HistoryService) Create(ctx context.Context, userID, title string) (*domain.Chat, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		title = "New section"
	}
	return repo.CreateChat(ctx, s.DB, userID, title)
}

// Rename changes the title of a chat the user owns. A blank title is
// rejected with ErrInvalidTitle. Returns ErrChatNotFound when the chat does
// not exist or belongs to someone else.
func (s *HistoryService) Rename(ctx context.Context, userID, chatID, title string) error {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "Rename",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("chat.id", chatID),
		),
	)
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}

	err := repo.UpdateChatTitle(ctx, s.DB, chatID, userID, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	return err
}

// Delete removes one chat the user owns, including its messages and images.
// Returns ErrChatNotFound when the chat does not exist or belongs to someone
// else.
func (s *HistoryService) Delete(ctx context.Context, userID, chatID string) error {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("chat.id", chatID),
		),
	)
	defer span.End()

	err := repo.DeleteChat(ctx, s.DB, chatID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	return err
}

// ClearAll removes every chat the user owns and returns how many were
// deleted. Deleting an already-empty history is not an error.
func (s *HistoryService) ClearAll(ctx context.Context, userID string) (int64, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "ClearAll",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return repo.DeleteAllChats(ctx, s.DB, userID)
}

func (s *HistoryService) summarize(chats []domain.Chat) []ChatSummary {
	now := s.now()
	out := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		out = append(out, ChatSummary{
			ID:         c.ID,
			Title:      c.Title,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
			DateBucket: dateBucket(c.CreatedAt, now),
		})
	}
	return out
}

// dateBucket labels created relative to now using UTC calendar days.
func dateBucket(created, now time.Time) string {
	today := startOfDay(now)
	day := startOfDay(created)
	switch {
	case !day.Before(today):
		return BucketToday
	case !day.Before(today.AddDate(0, 0, -1)):
		return BucketYesterday
	case !day.Before(today.AddDate(0, 0, -7)):
		return BucketWeek
	default:
		return BucketOlder
	}
}
