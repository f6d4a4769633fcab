package utils

import "strconv"

// AtoiDefault parses s as an int, returning def on empty or invalid input.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ClampPage normalizes 1-based page and per-page values against maxPerPage
// and returns the resulting offset and limit.
func ClampPage(page, perPage, maxPerPage int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return (page - 1) * perPage, perPage
}
