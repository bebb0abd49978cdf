package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage implements Storage interface for local filesystem.
// All operations are confined to baseDir to prevent path traversal attacks.
// No locking is done: concurrent writers to the same path race at the OS level.
type LocalStorage struct {
	baseDir       string // Absolute path - all files stored within this directory
	dirPerm       fs.FileMode
	filePerm      fs.FileMode
	uploadTimeout time.Duration // Optional timeout to prevent hanging uploads
}

// LocalOption defines a function that configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalUploadTimeout sets the timeout for upload operations.
// If not set, relies on context deadline from caller.
func WithLocalUploadTimeout(timeout time.Duration) LocalOption {
	return func(s *LocalStorage) {
		s.uploadTimeout = timeout
	}
}

// WithDirPerm sets permissions for directories created by the storage (default 0755).
func WithDirPerm(perm fs.FileMode) LocalOption {
	return func(s *LocalStorage) {
		s.dirPerm = perm
	}
}

// WithFilePerm sets permissions for files created by the storage (default 0644).
func WithFilePerm(perm fs.FileMode) LocalOption {
	return func(s *LocalStorage) {
		s.filePerm = perm
	}
}

// NewLocalStorage creates a new local filesystem storage rooted at baseDir.
// baseDir is resolved to an absolute path but not created: directories are
// made on demand by MkdirAll and Save.
func NewLocalStorage(baseDir string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	// Must resolve to absolute path for security - prevents relative path confusion
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %w", ErrFailedToGetAbsolutePath, err)
	}

	s := &LocalStorage{
		baseDir:  absBaseDir,
		dirPerm:  0755,
		filePerm: 0644,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Root returns the absolute base directory.
func (s *LocalStorage) Root() string {
	return s.baseDir
}

// MkdirAll creates dir (relative to the base directory) with all parents.
// A directory created concurrently by another request is not an error.
func (s *LocalStorage) MkdirAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := s.resolvePath(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath, s.dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToCreateDirectory, err)
	}
	return nil
}

// Save writes src to path within the base directory.
// The parent directory must exist. A failed write leaves whatever was
// written in place: nothing is rolled back.
func (s *LocalStorage) Save(ctx context.Context, path string, src io.WriterTo, opts ...SaveOption) (*File, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if src == nil {
		return nil, ErrNilSource
	}

	o := applySaveOptions(opts)

	absPath, err := s.resolvePath(path)
	if err != nil {
		return nil, err
	}
	if absPath == s.baseDir {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if o.exclusive {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	dst, err := os.OpenFile(absPath, flags, s.filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToCreateFile, err)
	}
	defer func() { _ = dst.Close() }()

	w := newContentWriter(ctx, dst)
	if _, err := src.WriteTo(w); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}

	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}

	relPath, err := filepath.Rel(s.baseDir, absPath)
	if err != nil {
		relPath = path // Fallback to original path
	}

	return &File{
		Filename:     filepath.Base(absPath),
		Size:         w.written, // Actual bytes written
		MIMEType:     w.MIMEType(),
		Extension:    Extension(absPath),
		AbsolutePath: absPath,
		RelativePath: filepath.ToSlash(relPath),
	}, nil
}

// Delete removes a single file.
// Verifies the target is a file, not a directory, to prevent accidental data loss.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %w", ErrFailedToStatPath, err)
	}

	// Safety check - prevent accidental directory deletion
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToDeleteFile, err)
	}

	return nil
}

// Exists checks if a file or directory exists.
// Returns false for invalid paths or on context cancellation.
func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return false
	}

	_, err = os.Lstat(absPath)
	return err == nil
}

// List returns all entries in a directory (non-recursive).
// Checks context cancellation periodically during iteration to handle large directories.
func (s *LocalStorage) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := s.resolvePath(dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToStatPath, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	dirEntries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToReadDirectory, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entryRelPath, err := filepath.Rel(s.baseDir, filepath.Join(absPath, dirEntry.Name()))
		if err != nil {
			entryRelPath = filepath.Join(dir, dirEntry.Name())
		}

		info, err := dirEntry.Info()
		if err != nil {
			continue // Skip entries we can't read
		}

		entry := Entry{
			Name:  dirEntry.Name(),
			Path:  filepath.ToSlash(entryRelPath),
			IsDir: dirEntry.IsDir(),
		}
		if !dirEntry.IsDir() {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// resolvePath validates and resolves a path within the base directory.
// Ensures all resolved paths stay within baseDir bounds (prevents ../ attacks).
func (s *LocalStorage) resolvePath(path string) (string, error) {
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(path))

	prefix := s.baseDir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	if !strings.HasPrefix(absPath, prefix) && absPath != s.baseDir {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	return absPath, nil
}
