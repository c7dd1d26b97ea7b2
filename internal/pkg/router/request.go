package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/codelens/internal/pkg/goerror"
)

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 1 << 20

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

// RawBody reads the whole body, up to MaxBodyBytes. A larger or unreadable
// body is an invalid-format error.
func (r *Request) RawBody() ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, goerror.NewInvalidFormat()
	}

	b, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil || len(b) > MaxBodyBytes {
		return nil, goerror.NewInvalidFormat()
	}

	return b, nil
}

// DecodeBody decodes a single JSON document into dst. Unknown fields are
// ignored; trailing data, wrong types and oversize bodies are rejected.
func (r *Request) DecodeBody(dst any) error {
	b, err := r.RawBody()
	if err != nil {
		return err
	}

	return DecodeJSON(b, dst)
}

// DecodeJSON is DecodeBody for bytes already read.
func DecodeJSON(b []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
