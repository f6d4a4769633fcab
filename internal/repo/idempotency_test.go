package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGenerationRecord_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec, err := CreateGeneration(ctx, db, "u1", "retry-001", "chat-1", "msg-1", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateGeneration: %v", err)
	}
	if rec.ID == "" || rec.ExpiresAt.Before(rec.CreatedAt) {
		t.Fatalf("record = %+v", rec)
	}

	got, err := GetGeneration(ctx, db, "u1", "retry-001", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetGeneration: %v", err)
	}
	if got.ChatID != "chat-1" || got.MessageID != "msg-1" || got.Status != 200 {
		t.Fatalf("got = %+v", got)
	}
}

func TestGetGeneration_EmptyKey(t *testing.T) {
	db := newTestDB(t)

	_, err := GetGeneration(context.Background(), db, "u1", "  ", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetGeneration_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateGeneration(ctx, db, "u1", "retry-001", "c", "m", 200, time.Hour); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := GetGeneration(ctx, db, "u2", "retry-001", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}
}

func TestGetGeneration_Expired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateGeneration(ctx, db, "u1", "retry-001", "c", "m", 200, time.Millisecond); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := GetGeneration(ctx, db, "u1", "retry-001", time.Now().UTC().Add(time.Minute))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestCreateGeneration_Duplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateGeneration(ctx, db, "u1", "retry-001", "c", "m", 200, time.Hour); err != nil {
		t.Fatalf("first: %v", err)
	}
	_, err := CreateGeneration(ctx, db, "u1", "retry-001", "c2", "m2", 200, time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// The same key is free for another user.
	if _, err := CreateGeneration(ctx, db, "u2", "retry-001", "c", "m", 200, time.Hour); err != nil {
		t.Fatalf("other user: %v", err)
	}
}
