// Copyright (c) 2026 Shiwen. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
//
// Pages are zero-based: page=0 is the first page.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/wceng/shiwen/internal/platform/validate"
)

const (
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 10
	// MaxSize is the upper bound for items per page to prevent system abuse.
	MaxSize = 100
	// DefaultPage is the starting page (zero-indexed).
	DefaultPage = 0
)

// Params holds the parsed page and size from a request's query string.
type Params struct {
	Page int
	Size int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Size].
func (p Params) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return p.Page * p.Size
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and size.
func NewMeta(page, size, total int) Meta {
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}

	return Meta{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "size" query parameters from an HTTP request.
//
// # Validation
//
// Missing parameters fall back to [DefaultPage] and [DefaultSize]. Present
// but malformed or out-of-range values (page < 0, size outside [1, MaxSize])
// yield a VALIDATION_ERROR so the handler can answer 400 — values are never
// silently clamped.
func FromRequest(r *http.Request) (Params, error) {
	v := &validate.Validator{}

	page, pageOK := parseIntParam(r, "page", DefaultPage, v)
	size, sizeOK := parseIntParam(r, "size", DefaultSize, v)

	if pageOK {
		v.Min("page", page, 0)
	}
	if sizeOK {
		v.Range("size", size, 1, MaxSize)
	}

	if err := v.Err(); err != nil {
		return Params{}, err
	}

	return Params{Page: page, Size: size}, nil
}

// parseIntParam parses a single integer query parameter with a fallback
// default, recording a field error on the validator when the raw value is
// not an integer.
func parseIntParam(r *http.Request, key string, defaultVal int, v *validate.Validator) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Custom(key, true, "Must be an integer")
		return defaultVal, false
	}

	return n, true
}
