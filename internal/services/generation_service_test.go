package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/generator"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func newGenService(db *gorm.DB) *GenerationService {
	return &GenerationService{
		DB:            db,
		Credits:       &CreditService{DB: db},
		Generator:     &generator.Generator{}, // local templates only
		MaxImageBytes: 1 << 20,
		TitleMaxLen:   60,
	}
}

func TestGeneration_AuthRequired(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)

	_, err := svc.Generate(context.Background(), GenerateRequest{
		UserID:   "",
		ImageURL: pngDataURL,
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}

	// No side effects: no profile row, no history.
	var profiles, chats int64
	db.Model(&domain.Profile{}).Count(&profiles)
	db.Model(&domain.Chat{}).Count(&chats)
	if profiles != 0 || chats != 0 {
		t.Fatalf("side effects observed: profiles=%d chats=%d", profiles, chats)
	}
}

func TestGeneration_NoImage(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)

	_, err := svc.Generate(context.Background(), GenerateRequest{
		UserID:  "u1",
		Options: generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestGeneration_NoCredits(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	ctx := context.Background()

	if _, err := svc.Credits.Consume(ctx, "u1", 3); err != nil {
		t.Fatalf("drain: %v", err)
	}

	_, err := svc.Generate(ctx, GenerateRequest{
		UserID:   "u1",
		ImageURL: pngDataURL,
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrNoCredits) {
		t.Fatalf("expected ErrNoCredits, got %v", err)
	}

	var chats int64
	db.Model(&domain.Chat{}).Count(&chats)
	if chats != 0 {
		t.Fatalf("history written despite block: %d", chats)
	}
}

func TestGeneration_UnreadableImage(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)

	failedBefore := testutil.ToFloat64(generationsTotal.WithLabelValues("product", "failed"))
	blockedBefore := testutil.ToFloat64(generationsTotal.WithLabelValues("product", "blocked"))

	_, err := svc.Generate(context.Background(), GenerateRequest{
		UserID:   "u1",
		ImageURL: "data:image/png;base64,!!!not-base64!!!",
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrImageUnreadable) {
		t.Fatalf("expected ErrImageUnreadable, got %v", err)
	}

	// A decode failure counts as failed, not blocked.
	if got := testutil.ToFloat64(generationsTotal.WithLabelValues("product", "failed")); got != failedBefore+1 {
		t.Fatalf("failed counter = %v, want %v", got, failedBefore+1)
	}
	if got := testutil.ToFloat64(generationsTotal.WithLabelValues("product", "blocked")); got != blockedBefore {
		t.Fatalf("blocked counter = %v, want %v", got, blockedBefore)
	}

	// Blocked before any spend.
	bal, err := svc.Credits.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get credits: %v", err)
	}
	if bal.Current != 3 {
		t.Fatalf("credits touched: %d", bal.Current)
	}
}

func TestGeneration_OversizedImage(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	svc.MaxImageBytes = 8

	big := "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 64))
	_, err := svc.Generate(context.Background(), GenerateRequest{
		UserID:   "u1",
		ImageURL: big,
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrImageUnreadable) {
		t.Fatalf("expected ErrImageUnreadable for oversized payload, got %v", err)
	}
}

func TestGeneration_Success(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	ctx := context.Background()

	// Exactly one credit left.
	if _, err := svc.Credits.Consume(ctx, "u1", 2); err != nil {
		t.Fatalf("pre-spend: %v", err)
	}

	res, err := svc.Generate(ctx, GenerateRequest{
		UserID:       "u1",
		ImageURL:     pngDataURL,
		Options:      generator.Options{Purpose: generator.PurposeProduct},
		Requirements: "match the screenshot",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.Credits.Current != 0 {
		t.Fatalf("credits after spend = %d", res.Credits.Current)
	}
	if res.ChatID == "" || res.MessageID == "" {
		t.Fatalf("missing ids: %+v", res)
	}
	if res.Artifact.Code == "" || !strings.Contains(res.Artifact.Schema, "{% schema %}") {
		t.Fatal("artifact incomplete")
	}

	// Exactly one chat with one user and one assistant message.
	var chats int64
	db.Model(&domain.Chat{}).Where("user_id = ?", "u1").Count(&chats)
	if chats != 1 {
		t.Fatalf("chats = %d", chats)
	}

	var msgs []domain.Message
	if err := db.Where("chat_id = ?", res.ChatID).Order("created_at ASC").Find(&msgs).Error; err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if msgs[1].ID != res.MessageID {
		t.Fatal("MessageID should point at the assistant message")
	}

	// The screenshot reference is recorded.
	var imgs int64
	db.Model(&domain.ChatImage{}).Where("chat_id = ?", res.ChatID).Count(&imgs)
	if imgs != 1 {
		t.Fatalf("images = %d", imgs)
	}
}

func TestGeneration_AppendToExistingChat(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	ctx := context.Background()

	first, err := svc.Generate(ctx, GenerateRequest{
		UserID:   "u1",
		ImageURL: pngDataURL,
		Options:  generator.Options{Purpose: generator.PurposeBanner},
	})
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	second, err := svc.Generate(ctx, GenerateRequest{
		UserID:   "u1",
		ImageURL: pngDataURL,
		ChatID:   first.ChatID,
		Options:  generator.Options{Purpose: generator.PurposeBanner},
	})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.ChatID != first.ChatID {
		t.Fatalf("expected same chat, got %s and %s", first.ChatID, second.ChatID)
	}

	var chats int64
	db.Model(&domain.Chat{}).Where("user_id = ?", "u1").Count(&chats)
	if chats != 1 {
		t.Fatalf("chats = %d", chats)
	}

	var msgs int64
	db.Model(&domain.Message{}).Where("chat_id = ?", first.ChatID).Count(&msgs)
	if msgs != 4 {
		t.Fatalf("messages = %d", msgs)
	}
}

func TestGeneration_ForeignChatRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	ctx := context.Background()

	theirs, err := svc.Generate(ctx, GenerateRequest{
		UserID:   "owner",
		ImageURL: pngDataURL,
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if err != nil {
		t.Fatalf("owner generate: %v", err)
	}

	_, err = svc.Generate(ctx, GenerateRequest{
		UserID:   "intruder",
		ImageURL: pngDataURL,
		ChatID:   theirs.ChatID,
		Options:  generator.Options{Purpose: generator.PurposeProduct},
	})
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestGeneration_TitleFromRequirements(t *testing.T) {
	db := newTestDB(t)
	svc := newGenService(db)
	svc.TitleMaxLen = 10
	ctx := context.Background()

	res, err := svc.Generate(ctx, GenerateRequest{
		UserID:       "u1",
		ImageURL:     pngDataURL,
		Options:      generator.Options{Purpose: generator.PurposeProduct},
		Requirements: "a very long requirement line that should be cut short",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var chat domain.Chat
	if err := db.First(&chat, "id = ?", res.ChatID).Error; err != nil {
		t.Fatalf("load chat: %v", err)
	}
	if got := len([]rune(chat.Title)); got > 10 {
		t.Fatalf("title length = %d: %q", got, chat.Title)
	}
}

func TestSplitArtifact(t *testing.T) {
	content := "<div>x</div>\n\n{% schema %}{}{% endschema %}"
	art := splitArtifact(content)
	if art.Code != "<div>x</div>" {
		t.Fatalf("code = %q", art.Code)
	}
	if art.Schema != "{% schema %}{}{% endschema %}" {
		t.Fatalf("schema = %q", art.Schema)
	}
}
