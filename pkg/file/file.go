package file

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// File represents stored file metadata.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string
	RelativePath string
}

// Entry represents a file or directory entry.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is the backend an upload set writes into. All paths are relative
// to the storage root and use forward slashes.
type Storage interface {
	// Save writes src to path and returns metadata. Existing files are
	// truncated unless the Exclusive option is given.
	Save(ctx context.Context, path string, src io.WriterTo, opts ...SaveOption) (*File, error)
	// MkdirAll creates dir and any missing parents. Already existing
	// directories are not an error.
	MkdirAll(ctx context.Context, dir string) error
	// Delete removes a single file.
	Delete(ctx context.Context, path string) error
	// Exists checks if a file or directory exists.
	Exists(ctx context.Context, path string) bool
	// List returns all entries in a directory (non-recursive).
	List(ctx context.Context, dir string) ([]Entry, error)
	// Root returns the location the storage is rooted at.
	Root() string
}

// SaveOption configures a single Save call.
type SaveOption func(*saveOptions)

type saveOptions struct {
	exclusive bool
}

// Exclusive makes Save fail with ErrFileExists instead of overwriting an
// existing file. The check and the create happen atomically.
func Exclusive() SaveOption {
	return func(o *saveOptions) {
		o.exclusive = true
	}
}

func applySaveOptions(opts []SaveOption) saveOptions {
	var o saveOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// sniffLen is the maximum number of bytes http.DetectContentType looks at.
const sniffLen = 512

// contentWriter forwards writes to the destination while counting bytes,
// keeping the head of the stream for MIME detection and honouring context
// cancellation between chunks.
type contentWriter struct {
	ctx     context.Context
	dst     io.Writer
	head    []byte
	written int64
}

func newContentWriter(ctx context.Context, dst io.Writer) *contentWriter {
	return &contentWriter{ctx: ctx, dst: dst, head: make([]byte, 0, sniffLen)}
}

func (w *contentWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	if room := sniffLen - len(w.head); room > 0 {
		w.head = append(w.head, p[:min(room, len(p))]...)
	}
	n, err := w.dst.Write(p)
	w.written += int64(n)
	return n, err
}

// MIMEType detects the content type from the bytes written so far.
// Reads only the magic bytes, never trusting the file extension.
func (w *contentWriter) MIMEType() string {
	if len(w.head) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(w.head)
}

// Extension returns the extension of p including the dot, or an empty string.
//
// Example:
//
//	ext := file.Extension("photos/boat.JPG") // ".JPG"
func Extension(p string) string {
	base := p[strings.LastIndexAny(p, `/\`)+1:]
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i:]
	}
	return ""
}
