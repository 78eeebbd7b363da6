// This file implements utilities for parsing request data. Bodies may be
// JSON objects or form-encoded; both are read into the same flat view so
// handlers do not care which one a client sent.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 64 << 10

var (
	errBodyTooLarge = errors.New("request body too large")
	errNotObject    = errors.New("request body must be a JSON object")
)

// RequestBodyParser reads a request body once and exposes its fields as
// text. JSON strings are unquoted, JSON numbers keep their literal form,
// JSON null counts as absent and any other JSON value is kept verbatim
// so numeric coercion turns it into zero.
type RequestBodyParser struct {
	body   []byte
	fields map[string]string
	parsed bool
	err    error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if p.err == nil && len(p.body) > maxBodyBytes {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse decodes the body. It is safe to call more than once.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	p.fields = make(map[string]string)
	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			if trimmed[0] == '[' {
				p.err = errNotObject
			} else {
				p.err = fmt.Errorf("invalid JSON: %w", err)
			}
			return p.err
		}
		for k, v := range raw {
			if text, ok := jsonText(v); ok {
				p.fields[k] = text
			}
		}
		return nil
	}

	form, err := url.ParseQuery(string(trimmed))
	if err != nil {
		p.err = fmt.Errorf("invalid form body: %w", err)
		return p.err
	}
	for k := range form {
		p.fields[k] = form.Get(k)
	}
	return nil
}

func jsonText(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return "", false
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(v), true
}

// Lookup returns the sanitized field and whether it was present.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	v, ok := p.fields[key]
	if !ok {
		return "", false
	}
	return sanitizeInput(v), true
}

// Get returns the sanitized field, empty when absent.
func (p *RequestBodyParser) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Optional returns a pointer to the field, nil when absent.
func (p *RequestBodyParser) Optional(key string) *string {
	v, ok := p.Lookup(key)
	if !ok {
		return nil
	}
	return &v
}

// ParseBodyOrFail parses the request body and returns an error response
// on failure, nil on success.
func ParseBodyOrFail(r *http.Request) (*RequestBodyParser, *JSONResponseBuilder) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return nil, ErrorResponse(http.StatusRequestEntityTooLarge, err.Error())
		}
		return nil, BadRequestError(err.Error())
	}
	return p, nil
}

// parseExpenseID reads the {id} path value.
func parseExpenseID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expense id %q", raw)
	}
	return id, nil
}
