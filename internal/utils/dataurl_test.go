package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestParseDataURL_PNG(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', '\r', '\n'}
	s := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mt, data, err := ParseDataURL(s, 0)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mt != "image/png" {
		t.Fatalf("media type = %q", mt)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: %v", data)
	}
}

func TestParseDataURL_NotDataURL(t *testing.T) {
	_, _, err := ParseDataURL("https://example.com/x.png", 0)
	if !errors.Is(err, ErrNotDataURL) {
		t.Fatalf("expected ErrNotDataURL, got %v", err)
	}
}

func TestParseDataURL_Malformed(t *testing.T) {
	cases := []string{
		"data:image/png;base64",       // no comma
		"data:image/png,plainpayload", // not base64-marked
		"data:image/png;base64,@@@@",  // invalid base64
	}
	for _, s := range cases {
		if _, _, err := ParseDataURL(s, 0); !errors.Is(err, ErrBadDataURL) {
			t.Errorf("%q: expected ErrBadDataURL, got %v", s, err)
		}
	}
}

func TestParseDataURL_TooLarge(t *testing.T) {
	payload := make([]byte, 100)
	s := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	_, _, err := ParseDataURL(s, 16)
	if !errors.Is(err, ErrDataURLTooLarge) {
		t.Fatalf("expected ErrDataURLTooLarge, got %v", err)
	}

	if _, _, err := ParseDataURL(s, 100); err != nil {
		t.Fatalf("exactly at cap should pass: %v", err)
	}
}

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("", 7); got != 7 {
		t.Fatalf("empty: %d", got)
	}
	if got := AtoiDefault("abc", 7); got != 7 {
		t.Fatalf("invalid: %d", got)
	}
	if got := AtoiDefault("42", 7); got != 42 {
		t.Fatalf("valid: %d", got)
	}
}

func TestClampPage(t *testing.T) {
	offset, limit := ClampPage(0, 0, 100)
	if offset != 0 || limit != 20 {
		t.Fatalf("defaults: offset=%d limit=%d", offset, limit)
	}

	offset, limit = ClampPage(3, 500, 100)
	if offset != 200 || limit != 100 {
		t.Fatalf("clamped: offset=%d limit=%d", offset, limit)
	}
}
