// Package generator produces storefront section markup and configuration
// schemas from an uploaded screenshot and a chosen section purpose.
//
// Generation has two paths. When a completion-API credential is configured,
// a vision prompt is sent to the remote model and the reply is parsed into an
// Artifact. When no credential is present, or the remote call or parse fails
// for any reason, a local deterministic template keyed by the section purpose
// is served instead. Generate therefore never propagates remote errors.
package generator

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sectionforge/go-section-backend/internal/config"
)

// Purpose is the category of page section being generated.
type Purpose string

// Known purposes.
const (
	PurposeProduct    Purpose = "product"
	PurposeSlider     Purpose = "slider"
	PurposeBanner     Purpose = "banner"
	PurposeCollection Purpose = "collection"
)

// ParsePurpose normalizes a raw purpose string. Unknown values are preserved
// (lowercased) so they can still select the generic fallback template.
func ParsePurpose(s string) Purpose {
	return Purpose(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether p is one of the purposes with a dedicated template.
func (p Purpose) Known() bool {
	switch p {
	case PurposeProduct, PurposeSlider, PurposeBanner, PurposeCollection:
		return true
	}
	return false
}

// Label returns the human-readable section label substituted into the prompt.
func (p Purpose) Label() string {
	switch p {
	case PurposeProduct:
		return "product section"
	case PurposeSlider:
		return "image slider section"
	case PurposeBanner:
		return "promotional banner section"
	case PurposeCollection:
		return "collection grid section"
	default:
		return "page section"
	}
}

// Options are the per-request generation toggles chosen by the user. They are
// immutable once submitted.
type Options struct {
	Purpose     Purpose `json:"purpose"`
	ShowRating  bool    `json:"show_rating"`
	ShowPrice   bool    `json:"show_price"`
	IncludeText bool    `json:"include_text"`
}

// Image is a decoded section screenshot ready for inline transmission.
type Image struct {
	MediaType string
	Data      []byte
}

// Artifact is the generated markup and configuration pair returned to the
// user. Code holds the liquid markup plus its style block; Schema holds the
// delimited `{% schema %}` configuration block.
type Artifact struct {
	Code   string `json:"code"`
	Schema string `json:"schema"`
}

// Completer sends a single prompt+image request to a completion API and
// returns the raw generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string, img Image) (string, error)
}

// Generator maps (image, options, requirements) to an Artifact. The zero
// value serves local templates only.
type Generator struct {
	// Completer is the remote completion client; nil disables remote
	// generation entirely.
	Completer Completer
}

// New builds a Generator from the completion-API configuration. An empty API
// key yields a local-only generator.
func New(cfg config.AnthropicConfig) *Generator {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &Generator{}
	}
	return &Generator{Completer: NewAnthropicClient(cfg)}
}

// Generate returns an Artifact for the request. The remote path is attempted
// only when a Completer is configured; any transport failure, non-2xx reply,
// or unparseable response falls back to the local deterministic template for
// opts.Purpose. The worst case is the generic default template, never an
// error.
func (g *Generator) Generate(ctx context.Context, img Image, opts Options, requirements string) Artifact {
	if g == nil || g.Completer == nil {
		return LocalArtifact(opts.Purpose)
	}

	prompt := BuildPrompt(opts, requirements)
	raw, err := g.Completer.Complete(ctx, prompt, img)
	if err != nil {
		log.Warn().
			Err(err).
			Str("purpose", string(opts.Purpose)).
			Msg("completion call failed; serving local template")
		return LocalArtifact(opts.Purpose)
	}

	art, err := Parse(raw)
	if err != nil {
		log.Warn().
			Err(err).
			Str("purpose", string(opts.Purpose)).
			Msg("completion reply unparseable; serving local template")
		return LocalArtifact(opts.Purpose)
	}
	return art
}
