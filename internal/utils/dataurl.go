// Package utils provides small shared helpers used across handlers and
// services: data URL decoding and request parameter parsing.
package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Data URL decoding errors.
var (
	// ErrNotDataURL indicates the value does not carry the data: scheme.
	ErrNotDataURL = errors.New("not a data url")

	// ErrBadDataURL indicates a data: value whose header or payload is
	// malformed.
	ErrBadDataURL = errors.New("malformed data url")

	// ErrDataURLTooLarge indicates the decoded payload exceeds the caller's
	// size cap.
	ErrDataURLTooLarge = errors.New("data url payload too large")
)

// ParseDataURL decodes a base64 data URL of the form
// "data:<media-type>;base64,<payload>" and returns the media type and the
// decoded bytes. maxBytes caps the decoded size; 0 means no cap. Only
// base64-encoded payloads are accepted.
func ParseDataURL(s string, maxBytes int64) (mediaType string, data []byte, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return "", nil, ErrNotDataURL
	}

	rest := s[len("data:"):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", nil, ErrBadDataURL
	}
	header, payload := rest[:comma], rest[comma+1:]

	if !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrBadDataURL
	}
	mediaType = strings.TrimSuffix(header, ";base64")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	// Base64 expands ~4/3, so a cheap length check rejects oversized payloads
	// before decoding.
	if maxBytes > 0 && int64(len(payload)) > (maxBytes*4/3)+4 {
		return "", nil, ErrDataURLTooLarge
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrBadDataURL
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", nil, ErrDataURLTooLarge
	}
	return mediaType, data, nil
}
