package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/repo"
)

func TestHistory_List_DateBuckets(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	svc := &HistoryService{DB: db, Now: fixedClock(now)}
	ctx := context.Background()

	cases := []struct {
		id     string
		age    time.Duration
		bucket string
	}{
		{"c-today", 2 * time.Hour, BucketToday},
		{"c-yesterday", 25 * time.Hour, BucketYesterday},
		{"c-week", 5 * 24 * time.Hour, BucketWeek},
		{"c-older", 8 * 24 * time.Hour, BucketOlder},
	}
	for _, tc := range cases {
		c := &domain.Chat{ID: tc.id, UserID: "u1", Title: "t", CreatedAt: now.Add(-tc.age)}
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed %s: %v", tc.id, err)
		}
	}

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != len(cases) {
		t.Fatalf("len = %d", len(items))
	}

	byID := make(map[string]ChatSummary, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, tc := range cases {
		if got := byID[tc.id].DateBucket; got != tc.bucket {
			t.Errorf("%s: bucket = %q, want %q", tc.id, got, tc.bucket)
		}
	}

	// Newest first.
	if items[0].ID != "c-today" || items[len(items)-1].ID != "c-older" {
		t.Fatalf("unexpected order: first=%s last=%s", items[0].ID, items[len(items)-1].ID)
	}
}

func TestHistory_Get_WithMessagesAndImages(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, db, "u1", "Product Section")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if _, err := repo.CreateMessage(db, chat.ID, "user", "generate"); err != nil {
		t.Fatalf("seed user msg: %v", err)
	}
	if _, err := repo.CreateMessage(db, chat.ID, "assistant", "<div/>"); err != nil {
		t.Fatalf("seed assistant msg: %v", err)
	}
	if _, err := repo.CreateChatImage(db, chat.ID, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("seed image: %v", err)
	}

	detail, err := svc.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Messages) != 2 || len(detail.Images) != 1 {
		t.Fatalf("messages=%d images=%d", len(detail.Messages), len(detail.Images))
	}
	if detail.Messages[0].Role != "user" || detail.Messages[1].Role != "assistant" {
		t.Fatalf("message order: %s, %s", detail.Messages[0].Role, detail.Messages[1].Role)
	}
}

func TestHistory_Get_OtherUsersChat(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, db, "owner", "t")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	_, err = svc.Get(ctx, "intruder", chat.ID)
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestHistory_Rename(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, db, "u1", "Old")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	if err := svc.Rename(ctx, "u1", chat.ID, "  New name  "); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	detail, err := svc.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Chat.Title != "New name" {
		t.Fatalf("title = %q", detail.Chat.Title)
	}

	if err := svc.Rename(ctx, "u1", chat.ID, "   "); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("blank title: %v", err)
	}
	if err := svc.Rename(ctx, "intruder", chat.ID, "mine"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("foreign chat: %v", err)
	}
	if err := svc.Rename(ctx, "u1", "does-not-exist", "x"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("missing chat: %v", err)
	}
}

func TestHistory_Delete_CascadesChildren(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, db, "u1", "t")
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}
	if _, err := repo.CreateMessage(db, chat.ID, "user", "m"); err != nil {
		t.Fatalf("seed msg: %v", err)
	}
	if _, err := repo.CreateChatImage(db, chat.ID, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("seed image: %v", err)
	}

	if err := svc.Delete(ctx, "u1", chat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var msgs int64
	if err := db.Model(&domain.Message{}).Where("chat_id = ?", chat.ID).Count(&msgs).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if msgs != 0 {
		t.Fatalf("messages left behind: %d", msgs)
	}

	if _, err := svc.Get(ctx, "u1", chat.ID); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("chat still loadable: %v", err)
	}
}

func TestHistory_Delete_Missing(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}

	err := svc.Delete(context.Background(), "u1", "does-not-exist")
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestHistory_ClearAll(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.CreateChat(ctx, db, "u1", "t"); err != nil {
			t.Fatalf("seed chat %d: %v", i, err)
		}
	}
	if _, err := repo.CreateChat(ctx, db, "u2", "keep"); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	deleted, err := svc.ClearAll(ctx, "u1")
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("deleted = %d", deleted)
	}

	left, err := svc.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List u2: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("other user's history touched: %d", len(left))
	}
}

func TestHistory_ClearAll_Empty(t *testing.T) {
	db := newTestDB(t)
	svc := &HistoryService{DB: db}

	deleted, err := svc.ClearAll(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d", deleted)
	}
}
