package binder

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
)

// DefaultMaxMemory is the part of a multipart body kept in memory (10MB).
// The rest spills to temporary files.
const DefaultMaxMemory = 10 << 20

// FormOption configures Form.
type FormOption func(*formConfig)

type formConfig struct {
	maxMemory int64
	maxBytes  int64
}

// WithMaxMemory sets how much of a multipart body is kept in memory.
func WithMaxMemory(n int64) FormOption {
	return func(c *formConfig) {
		if n > 0 {
			c.maxMemory = n
		}
	}
}

// WithMaxBytes rejects request bodies larger than n with ErrRequestTooLarge.
func WithMaxBytes(n int64) FormOption {
	return func(c *formConfig) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// Form binds application/x-www-form-urlencoded and multipart/form-data
// requests into a struct.
//
// Supported struct tags:
//   - `form:"name"` binds form field "name"
//   - `file:"name"` binds uploaded file "name"
//   - `form:"-"` / `file:"-"` skip the field
//
// Form fields may be strings, ints, uints, floats, bools, pointers to those
// or slices of them. File fields are *multipart.FileHeader or
// []*multipart.FileHeader. Client filenames arrive as mime/multipart leaves
// them, reduced to their base name; any further sanitizing is the job of
// whoever stores the file.
//
//	type newPost struct {
//		Title string                `form:"title"`
//		Photo *multipart.FileHeader `file:"photo"`
//	}
//
//	bind := binder.Form(binder.WithMaxBytes(20 << 20))
//	var req newPost
//	if err := bind(r, &req); err != nil { ... }
//
// Temporary files of the multipart form are left for the caller to remove
// with r.MultipartForm.RemoveAll.
func Form(opts ...FormOption) func(r *http.Request, v any) error {
	cfg := formConfig{maxMemory: DefaultMaxMemory}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/x-www-form-urlencoded or multipart/form-data", ErrMissingContentType)
		}

		mediaType, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: malformed content type", ErrInvalidForm)
		}

		if cfg.maxBytes > 0 {
			if r.ContentLength > cfg.maxBytes {
				return fmt.Errorf("%w: %d bytes", ErrRequestTooLarge, r.ContentLength)
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(nil, r.Body, cfg.maxBytes)
			}
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return formError(err)
			}
			values = r.PostForm

		case "multipart/form-data":
			if !validBoundary(params["boundary"]) {
				return fmt.Errorf("%w: invalid boundary parameter", ErrInvalidForm)
			}
			if err := r.ParseMultipartForm(cfg.maxMemory); err != nil {
				return formError(err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded or multipart/form-data", ErrUnsupportedMediaType, mediaType)
		}

		return bind(v, values, files)
	}
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %w", ErrRequestTooLarge, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidForm, err)
}

// validBoundary checks the boundary against RFC 2046: 1 to 70 characters
// from a restricted set, not ending with a space.
func validBoundary(b string) bool {
	if b == "" || len(b) > 70 || b[len(b)-1] == ' ' {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '\'' || c == '(' || c == ')' || c == '+' || c == '_' || c == ',' ||
			c == '-' || c == '.' || c == '/' || c == ':' || c == '=' || c == '?' || c == ' ':
		default:
			return false
		}
	}
	return true
}
