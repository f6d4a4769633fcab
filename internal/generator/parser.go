// Package generator – response parsing.
//
// The completion API returns free text; the contract with the model is purely
// textual. The parser extracts the markup and schema substrings using fixed
// delimiter patterns, first from literal `<html>`/`{% schema %}` tags and then
// from fenced code blocks. Isolating the extraction here keeps the strategy
// swappable (e.g., for structured output) without touching the orchestration
// layer.
package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that neither extraction pattern matched. It carries the
// raw model output for diagnostics; callers substitute a local template
// rather than surfacing it to the end user.
type ParseError struct {
	Raw string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("no artifact delimiters found in %d-byte completion reply", len(e.Raw))
}

var (
	htmlBlockRE   = regexp.MustCompile(`(?s)<html>(.*?)</html>`)
	styleBlockRE  = regexp.MustCompile(`(?s)<style>.*?</style>`)
	schemaBlockRE = regexp.MustCompile(`(?s)\{%\s*schema\s*%\}.*?\{%\s*endschema\s*%\}`)

	// fencedRE matches ``` blocks with an optional language tag.
	fencedRE = regexp.MustCompile("(?s)```([A-Za-z]*)[ \t]*\n(.*?)```")
)

// Parse extracts the markup and schema from a raw completion reply. The first
// match of each pattern in document order wins; multiple matches are never
// merged. When both the primary tag extraction and the secondary fenced-block
// extraction fail, a *ParseError carrying the raw text is returned.
func Parse(raw string) (Artifact, error) {
	if art, ok := parseTagged(raw); ok {
		return art, nil
	}
	if art, ok := parseFenced(raw); ok {
		return art, nil
	}
	return Artifact{}, &ParseError{Raw: raw}
}

// parseTagged implements the primary extraction: `<html>…</html>` for markup
// and `{% schema %}…{% endschema %}` for configuration. A standalone
// `<style>` block anywhere outside the markup is appended to the code output.
func parseTagged(raw string) (Artifact, bool) {
	loc := htmlBlockRE.FindStringSubmatchIndex(raw)
	schema := schemaBlockRE.FindString(raw)
	if loc == nil || schema == "" {
		return Artifact{}, false
	}

	code := strings.TrimSpace(raw[loc[2]:loc[3]])

	// The first style block outside the <html> tags belongs to the code
	// output, wherever it appears in the reply. Styles inside the capture
	// are already part of it.
	for _, sl := range styleBlockRE.FindAllStringIndex(raw, -1) {
		if sl[0] >= loc[2] && sl[1] <= loc[3] {
			continue
		}
		code = code + "\n\n" + strings.TrimSpace(raw[sl[0]:sl[1]])
		break
	}

	if code == "" {
		return Artifact{}, false
	}
	return Artifact{Code: code, Schema: strings.TrimSpace(schema)}, true
}

// parseFenced implements the secondary extraction: fenced code blocks labeled
// html/liquid carrying the markup, and a json/liquid block containing the
// schema delimiters.
func parseFenced(raw string) (Artifact, bool) {
	var code, schema string

	for _, m := range fencedRE.FindAllStringSubmatch(raw, -1) {
		lang := strings.ToLower(m[1])
		body := strings.TrimSpace(m[2])
		if body == "" {
			continue
		}

		hasSchema := schemaBlockRE.MatchString(body)

		switch {
		case schema == "" && hasSchema && (lang == "json" || lang == "liquid" || lang == ""):
			schema = schemaBlockRE.FindString(body)
			// A single liquid block may hold markup and schema together;
			// salvage the part outside the schema delimiters as code.
			if code == "" {
				if rest := strings.TrimSpace(schemaBlockRE.ReplaceAllString(body, "")); rest != "" {
					code = rest
				}
			}
		case code == "" && !hasSchema && (lang == "html" || lang == "liquid"):
			code = body
		}

		if code != "" && schema != "" {
			break
		}
	}

	if code == "" || schema == "" {
		return Artifact{}, false
	}
	return Artifact{Code: code, Schema: schema}, true
}
