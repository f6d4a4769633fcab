// Package services – GenerationService
//
// This file implements the generation orchestrator. A request flows through
// three phases: preconditions (auth, image present, credit available) that
// block the request before any side effect; generation itself, which never
// fails outright because the generator falls back to local templates; and a
// single transaction that records the session messages and spends the credit.
// A failure inside the transaction rolls everything back, so a user is never
// charged for a generation they did not receive.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/domain"
	"github.com/sectionforge/go-section-backend/internal/generator"
	"github.com/sectionforge/go-section-backend/internal/repo"
	"github.com/sectionforge/go-section-backend/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var generationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "section_generations_total",
		Help: "Generation requests by section purpose and outcome.",
	},
	[]string{"purpose", "outcome"},
)

var titleCaser = cases.Title(language.English)

// GenerateRequest is the orchestrator input. ImageURL carries the screenshot
// as a base64 data URL. ChatID is optional: empty starts a new session,
// non-empty appends to an existing one the user owns.
type GenerateRequest struct {
	UserID       string
	ImageURL     string
	ChatID       string
	Options      generator.Options
	Requirements string
}

// GenerateResult is the orchestrator output: the artifact, where it was
// recorded, and the balance after the spend.
type GenerateResult struct {
	Artifact  generator.Artifact
	ChatID    string
	MessageID string
	Credits   Credits
}

// GenerationService coordinates credit checks, artifact generation, and
// history recording for one generation request.
type GenerationService struct {
	DB        *gorm.DB
	Credits   *CreditService
	Generator *generator.Generator

	// MaxImageBytes caps the decoded screenshot size; 0 means no cap.
	MaxImageBytes int64

	// TitleMaxLen caps auto-generated chat titles in runes.
	TitleMaxLen int
}

// Generate runs one generation request end to end. Preconditions are checked
// before any mutation; on success exactly one credit has been spent and the
// session holds one new user message and one new assistant message.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", req.UserID),
			attribute.String("purpose", string(req.Options.Purpose)),
		),
	)
	defer span.End()

	purpose := string(req.Options.Purpose)

	if strings.TrimSpace(req.UserID) == "" {
		generationsTotal.WithLabelValues(purpose, "blocked").Inc()
		return nil, ErrAuthRequired
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		generationsTotal.WithLabelValues(purpose, "blocked").Inc()
		return nil, ErrNoImage
	}

	bal, err := s.Credits.Get(ctx, req.UserID)
	if err != nil {
		generationsTotal.WithLabelValues(purpose, "error").Inc()
		return nil, err
	}
	if bal.Current < 1 {
		generationsTotal.WithLabelValues(purpose, "blocked").Inc()
		return nil, ErrNoCredits
	}

	mediaType, data, err := utils.ParseDataURL(req.ImageURL, s.MaxImageBytes)
	if err != nil {
		generationsTotal.WithLabelValues(purpose, "failed").Inc()
		return nil, ErrImageUnreadable
	}

	// If the client named a chat it must exist and be theirs before we spend
	// anything on generation.
	if req.ChatID != "" {
		if _, err := repo.GetChat(ctx, s.DB, req.ChatID, req.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				generationsTotal.WithLabelValues(purpose, "blocked").Inc()
				return nil, ErrChatNotFound
			}
			generationsTotal.WithLabelValues(purpose, "error").Inc()
			return nil, err
		}
	}

	art := s.Generator.Generate(ctx, generator.Image{MediaType: mediaType, Data: data}, req.Options, req.Requirements)

	res := &GenerateResult{Artifact: art, ChatID: req.ChatID}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res.ChatID == "" {
			c, err := repo.CreateChat(ctx, tx, req.UserID, s.chatTitle(req))
			if err != nil {
				return err
			}
			res.ChatID = c.ID
		}

		if _, err := repo.CreateMessage(tx, res.ChatID, "user", userMessageText(req)); err != nil {
			return err
		}
		assistant, err := repo.CreateMessage(tx, res.ChatID, "assistant", art.Code+"\n\n"+art.Schema)
		if err != nil {
			return err
		}
		res.MessageID = assistant.ID

		if _, err := repo.CreateChatImage(tx, res.ChatID, req.ImageURL); err != nil {
			return err
		}

		bal, err := s.Credits.ConsumeIn(ctx, tx, req.UserID, 1)
		if err != nil {
			return err
		}
		res.Credits = bal
		return nil
	})
	if err != nil {
		generationsTotal.WithLabelValues(purpose, "error").Inc()
		return nil, err
	}

	log.Info().
		Str("user_id", req.UserID).
		Str("chat_id", res.ChatID).
		Str("purpose", purpose).
		Int("credits_left", res.Credits.Current).
		Msg("section generated")
	generationsTotal.WithLabelValues(purpose, "ok").Inc()
	return res, nil
}

// chatTitle derives a session title from the request: the first line of the
// requirements when present, else the title-cased purpose label, capped at
// TitleMaxLen runes.
func (s *GenerationService) chatTitle(req GenerateRequest) string {
	title := strings.TrimSpace(req.Requirements)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		title = titleCaser.String(req.Options.Purpose.Label())
	}
	if max := s.TitleMaxLen; max > 0 {
		r := []rune(title)
		if len(r) > max {
			title = strings.TrimSpace(string(r[:max]))
		}
	}
	return title
}

// userMessageText summarizes the request as the user-side message stored in
// the session.
func userMessageText(req GenerateRequest) string {
	var b strings.Builder
	b.WriteString("Generate a ")
	b.WriteString(req.Options.Purpose.Label())
	b.WriteString(" from the uploaded screenshot.")
	if req.Options.ShowRating {
		b.WriteString(" Show product ratings.")
	}
	if req.Options.ShowPrice {
		b.WriteString(" Show prices.")
	}
	if req.Options.IncludeText {
		b.WriteString(" Include the text from the image.")
	}
	if r := strings.TrimSpace(req.Requirements); r != "" {
		b.WriteString("\n\nRequirements: ")
		b.WriteString(r)
	}
	return b.String()
}

// ReplayResult loads the stored outcome for a previously completed generation
// so a retried request can be answered without a second spend. Returns
// ErrNotFound (via repo) when the record or its message is gone.
func (s *GenerationService) ReplayResult(ctx context.Context, rec *domain.Generation) (*GenerateResult, error) {
	msg, err := repo.GetMessage(s.DB.WithContext(ctx), rec.MessageID)
	if err != nil {
		return nil, err
	}
	art := splitArtifact(msg.Content)

	bal, err := s.Credits.Get(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{
		Artifact:  art,
		ChatID:    rec.ChatID,
		MessageID: rec.MessageID,
		Credits:   bal,
	}, nil
}

// splitArtifact recovers the code/schema pair from a stored assistant
// message. The schema block is self-delimiting, so everything from its opener
// onward is schema and the rest is code.
func splitArtifact(content string) generator.Artifact {
	const open = "{% schema %}"
	if i := strings.Index(content, open); i >= 0 {
		return generator.Artifact{
			Code:   strings.TrimSpace(content[:i]),
			Schema: strings.TrimSpace(content[i:]),
		}
	}
	return generator.Artifact{Code: strings.TrimSpace(content)}
}
