// Generation HTTP handlers.
//
// This file exposes the endpoint that turns an uploaded section screenshot
// into storefront code:
//   - POST /generate
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Generation supports
// safe retries: when the request carries an Idempotency-Key that matches a
// completed generation, the stored artifact is replayed without spending a
// second credit.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sectionforge/go-section-backend/internal/generator"
	"github.com/sectionforge/go-section-backend/internal/http/middleware"
	"github.com/sectionforge/go-section-backend/internal/repo"
	"github.com/sectionforge/go-section-backend/internal/services"
)

// Handlers groups the HTTP endpoints for generation, credits, history, and
// feedback.
type Handlers struct {
	genSvc    *services.GenerationService
	creditSvc *services.CreditService
	histSvc   *services.HistoryService
	fbSvc     *services.FeedbackService

	// db backs the ETag stats queries and the idempotency store.
	db *gorm.DB

	// idemTTL bounds how long a completed generation can be replayed.
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given services. idemTTL is
// the replay window for idempotent generation retries.
func New(gen *services.GenerationService, credits *services.CreditService, hist *services.HistoryService, fb *services.FeedbackService, db *gorm.DB, idemTTL time.Duration) *Handlers {
	return &Handlers{
		genSvc:    gen,
		creditSvc: credits,
		histSvc:   hist,
		fbSvc:     fb,
		db:        db,
		idemTTL:   idemTTL,
	}
}

// userID extracts the authenticated user id from the Gin context (set by
// upstream middleware), falling back to the X-User-ID header. An empty result
// means the request is anonymous; the generation path rejects it, the rest of
// the API treats it as the demo user.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

//
// DTOs
//

// GenerateOptions mirrors the per-request generation toggles.
type GenerateOptions struct {
	// Purpose selects the section category: product, slider, banner, collection.
	Purpose     string `json:"purpose" example:"product"`
	ShowRating  bool   `json:"show_rating"`
	ShowPrice   bool   `json:"show_price"`
	IncludeText bool   `json:"include_text"`
}

// GenerateRequest is the JSON payload for generating a section.
type GenerateRequest struct {
	// ImageURL carries the section screenshot as a base64 data URL.
	ImageURL string `json:"image_url" binding:"required" example:"data:image/png;base64,iVBORw0..."`
	// ChatID optionally appends the generation to an existing session.
	ChatID       string          `json:"chat_id,omitempty" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Options      GenerateOptions `json:"options"`
	Requirements string          `json:"requirements,omitempty" example:"dark background, rounded corners"`
}

// CreditsInfo is the balance snapshot embedded in API responses.
type CreditsInfo struct {
	Current int    `json:"current" example:"2"`
	Max     int    `json:"max" example:"3"`
	Plan    string `json:"plan" example:"free"`
}

// GenerateResponse is the success payload for POST /generate.
type GenerateResponse struct {
	Success bool `json:"success" example:"true"`
	// Code is the section markup plus its style block.
	Code string `json:"code"`
	// Schema is the delimited configuration block.
	Schema string `json:"schema"`
	// ShopifyLiquid is the complete section file (code followed by schema).
	ShopifyLiquid string      `json:"shopify_liquid"`
	ChatID        string      `json:"chat_id"`
	MessageID     string      `json:"message_id"`
	Credits       CreditsInfo `json:"credits"`
}

func creditsInfo(cr services.Credits) CreditsInfo {
	return CreditsInfo{Current: cr.Current, Max: cr.Max, Plan: string(cr.Plan)}
}

func generateResponse(res *services.GenerateResult) GenerateResponse {
	return GenerateResponse{
		Success:       true,
		Code:          res.Artifact.Code,
		Schema:        res.Artifact.Schema,
		ShopifyLiquid: res.Artifact.Code + "\n\n" + res.Artifact.Schema,
		ChatID:        res.ChatID,
		MessageID:     res.MessageID,
		Credits:       creditsInfo(res.Credits),
	}
}

// Generate godoc
// @ID          generateSection
// @Summary     Generate a section from a screenshot
// @Description Turns an uploaded section screenshot into markup and a configuration schema, spending one credit. Retries carrying the same Idempotency-Key replay the stored result without a second spend.
// @Tags        Generation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  true  "User ID"  example(user123)
// @Param       Idempotency-Key  header  string  false "Stable key for safe retries"
// @Param       body             body    handlers.GenerateRequest  true  "Generation payload"
//
// @Success     200  {object}  handlers.GenerateResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No image supplied"
// @Failure     401  {object}  handlers.ErrorResponse  "Sign in required"
// @Failure     402  {object}  handlers.ErrorResponse  "No credits remaining"
// @Failure     404  {object}  handlers.ErrorResponse  "Chat not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Image unreadable"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)
	idemKey, hasKey := middleware.GetIdempotencyKey(c)

	// Replay path: a completed generation with this key is served from the
	// stored record without touching the balance.
	if hasKey && middleware.IsReplay(c) {
		if rec, err := repo.GetGeneration(ctx, h.db, uid, idemKey, time.Now().UTC()); err == nil {
			if res, err := h.genSvc.ReplayResult(ctx, rec); err == nil {
				ok(c, http.StatusOK, generateResponse(res))
				return
			}
		}
		// Record vanished between lookup and read; fall through and generate.
	}

	res, err := h.genSvc.Generate(ctx, services.GenerateRequest{
		UserID:   uid,
		ImageURL: req.ImageURL,
		ChatID:   strings.TrimSpace(req.ChatID),
		Options: generator.Options{
			Purpose:     generator.ParsePurpose(req.Options.Purpose),
			ShowRating:  req.Options.ShowRating,
			ShowPrice:   req.Options.ShowPrice,
			IncludeText: req.Options.IncludeText,
		},
		Requirements: req.Requirements,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			fail(c, http.StatusUnauthorized, ErrCodeAuthRequired, "sign in required")
		case errors.Is(err, services.ErrNoImage):
			fail(c, http.StatusBadRequest, ErrCodeNoImage, "image required")
		case errors.Is(err, services.ErrNoCredits):
			fail(c, http.StatusPaymentRequired, ErrCodeNoCredits, "no credits remaining")
		case errors.Is(err, services.ErrImageUnreadable):
			fail(c, http.StatusUnprocessableEntity, ErrCodeImageUnreadable, "image could not be read")
		case errors.Is(err, services.ErrChatNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "chat not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
		}
		return
	}

	// Persist the replay record best-effort; a failure here must not undo a
	// generation the user already paid for.
	if hasKey {
		if _, err := repo.CreateGeneration(ctx, h.db, uid, idemKey, res.ChatID, res.MessageID, http.StatusOK, h.idemTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("storing generation replay record failed")
		}
	}

	ok(c, http.StatusOK, generateResponse(res))
}
