package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/sectionforge/go-section-backend/internal/domain"
)

func TestCreateAndGetChat(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c, err := CreateChat(ctx, db, "u1", "Product Section")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if c.ID == "" || c.Title != "Product Section" {
		t.Fatalf("chat = %+v", c)
	}

	got, err := GetChat(ctx, db, c.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("got %+v", got)
	}

	// Ownership is part of the key.
	if _, err := GetChat(ctx, db, c.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestListChatsPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := CreateChat(ctx, db, "u1", "t"); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	total, err := CountChats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("CountChats: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d", total)
	}

	page, err := ListChatsPage(ctx, db, "u1", 2, 2)
	if err != nil {
		t.Fatalf("ListChatsPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page len = %d", len(page))
	}

	tail, err := ListChatsPage(ctx, db, "u1", 4, 2)
	if err != nil {
		t.Fatalf("tail page: %v", err)
	}
	if len(tail) != 1 {
		t.Fatalf("tail len = %d", len(tail))
	}
}

func TestUpdateChatTitle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c, err := CreateChat(ctx, db, "u1", "old")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if err := UpdateChatTitle(ctx, db, c.ID, "u1", "new"); err != nil {
		t.Fatalf("UpdateChatTitle: %v", err)
	}
	got, err := GetChat(ctx, db, c.ID, "u1")
	if err != nil {
		t.Fatalf("GetChat: %v", err)
	}
	if got.Title != "new" {
		t.Fatalf("title = %q", got.Title)
	}

	if err := UpdateChatTitle(ctx, db, c.ID, "intruder", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestDeleteChat_RemovesChildren(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	c, err := CreateChat(ctx, db, "u1", "t")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := CreateMessage(db, c.ID, "user", "m"); err != nil {
		t.Fatalf("seed msg: %v", err)
	}
	if _, err := CreateChatImage(db, c.ID, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("seed image: %v", err)
	}

	if err := DeleteChat(ctx, db, c.ID, "u1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	if _, err := GetChat(ctx, db, c.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("chat still present: %v", err)
	}
	var msgs int64
	db.Model(&domain.Message{}).Where("chat_id = ?", c.ID).Count(&msgs)
	var imgs int64
	db.Model(&domain.ChatImage{}).Where("chat_id = ?", c.ID).Count(&imgs)
	if msgs != 0 || imgs != 0 {
		t.Fatalf("children left: msgs=%d imgs=%d", msgs, imgs)
	}
}

func TestDeleteChat_MissingOrForeign(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := DeleteChat(ctx, db, "nope", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c, err := CreateChat(ctx, db, "owner", "t")
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if err := DeleteChat(ctx, db, c.ID, "intruder"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong owner, got %v", err)
	}
}

func TestDeleteAllChats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		c, err := CreateChat(ctx, db, "u1", "t")
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
		ids = append(ids, c.ID)
		if _, err := CreateMessage(db, c.ID, "user", "m"); err != nil {
			t.Fatalf("seed msg: %v", err)
		}
	}
	if _, err := CreateChat(ctx, db, "u2", "keep"); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	removed, err := DeleteAllChats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("DeleteAllChats: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d", removed)
	}

	var msgs int64
	db.Model(&domain.Message{}).Where("chat_id IN ?", ids).Count(&msgs)
	if msgs != 0 {
		t.Fatalf("messages left: %d", msgs)
	}

	if total, _ := CountChats(ctx, db, "u2"); total != 1 {
		t.Fatalf("other user's chats = %d", total)
	}
}

func TestDeleteAllChats_Empty(t *testing.T) {
	db := newTestDB(t)

	removed, err := DeleteAllChats(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("DeleteAllChats: %v", err)
	}
	if removed != 0 {
		t.Fatalf("removed = %d", removed)
	}
}
