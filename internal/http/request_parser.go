// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing path values, query parameters
// and JSON request bodies. Every parse failure wraps errBadRequest.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"networth/internal/core"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 1 << 20

// ParseLimit reads the optional "limit" query parameter. A missing value
// yields 0, which callers treat as their default.
func ParseLimit(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer, got %q", errBadRequest, v)
	}
	return n, nil
}

// ParseID reads a positive integer path value.
func ParseID(r *http.Request, name string) (int64, error) {
	v := r.PathValue(name)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, v)
	}
	return id, nil
}

// ParseDatePath reads a date path value in any form core.ParseDate accepts.
func ParseDatePath(r *http.Request, name string) (core.Date, error) {
	d, err := core.ParseDate(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return d, nil
}

// RequestBodyParser reads a JSON body once so that it can be decoded into
// several targets. Unknown fields are ignored.
type RequestBodyParser struct {
	body []byte
	err  error
}

// NewRequestBodyParser reads at most MaxBodyBytes of r's body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body == nil {
		p.err = fmt.Errorf("%w: empty body", errBadRequest)
		return p
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		p.err = fmt.Errorf("%w: read body: %v", errBadRequest, err)
		return p
	}
	if len(bytes.TrimSpace(body)) == 0 {
		p.err = fmt.Errorf("%w: empty body", errBadRequest)
		return p
	}
	p.body = body
	return p
}

// Decode unmarshals the body into v.
func (p *RequestBodyParser) Decode(v any) error {
	if p.err != nil {
		return p.err
	}
	if err := json.Unmarshal(p.body, v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

// DecodeJSON is a shorthand for single-target bodies.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return NewRequestBodyParser(w, r).Decode(v)
}

// datedBody is the date half of a flat create body.
type datedBody struct {
	Date *core.Date `json:"date"`
}

// DecodeDated splits a flat body of the form {"date": ..., <raw fields>}
// into its date and raw value.
func DecodeDated[T any](w http.ResponseWriter, r *http.Request) (core.Date, T, error) {
	var raw T
	p := NewRequestBodyParser(w, r)

	var head datedBody
	if err := p.Decode(&head); err != nil {
		return 0, raw, err
	}
	if head.Date == nil {
		return 0, raw, fmt.Errorf("%w: date is required", errBadRequest)
	}
	if err := p.Decode(&raw); err != nil {
		return 0, raw, err
	}
	return *head.Date, raw, nil
}
