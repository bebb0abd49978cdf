package file_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/file"
)

func TestNewLocalStorage(t *testing.T) {
	t.Parallel()

	t.Run("empty base dir", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewLocalStorage("")
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
		assert.Nil(t, storage)
	})

	t.Run("does not create base dir", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "lazy")
		storage, err := file.NewLocalStorage(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, storage.Root())

		_, err = os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("relative base dir is made absolute", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewLocalStorage("uploads")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(storage.Root()))
	})
}

func TestLocalStorage_MkdirAll(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(filepath.Join(tempDir, "root"))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.MkdirAll(ctx, "a/b/c"))

		info, err := os.Stat(filepath.Join(tempDir, "root", "a", "b", "c"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("already existing directory", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.MkdirAll(ctx, "twice"))
		assert.NoError(t, storage.MkdirAll(ctx, "twice"))
	})

	t.Run("root itself", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, storage.MkdirAll(ctx, ""))
	})

	t.Run("invalid path traversal", func(t *testing.T) {
		t.Parallel()
		err := storage.MkdirAll(ctx, "../../outside")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})

	t.Run("blocked by a regular file", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, storage.MkdirAll(ctx, "blocked"))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "root", "blocked", "file"), []byte("x"), 0644))

		err := storage.MkdirAll(ctx, "blocked/file/sub")
		assert.ErrorIs(t, err, file.ErrFailedToCreateDirectory)

		var pathErr *fs.PathError
		assert.True(t, errors.As(err, &pathErr), "underlying filesystem error must stay reachable")
	})
}

func TestLocalStorage_Save(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(tempDir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("save simple file", func(t *testing.T) {
		t.Parallel()
		content := []byte("hello world")

		f, err := storage.Save(ctx, "test.txt", bytes.NewReader(content))
		require.NoError(t, err)
		require.NotNil(t, f)

		assert.Equal(t, "test.txt", f.Filename)
		assert.Equal(t, int64(len(content)), f.Size)
		assert.Equal(t, ".txt", f.Extension)
		assert.Equal(t, "test.txt", f.RelativePath)
		assert.Equal(t, filepath.Join(tempDir, "test.txt"), f.AbsolutePath)
		assert.Equal(t, "text/plain; charset=utf-8", f.MIMEType)

		data, err := os.ReadFile(f.AbsolutePath)
		require.NoError(t, err)
		assert.Equal(t, content, data)

		info, err := os.Stat(f.AbsolutePath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("save in nested directory", func(t *testing.T) {
		t.Parallel()
		content := []byte("%PDF-1.4")
		require.NoError(t, storage.MkdirAll(ctx, "docs/reports"))

		f, err := storage.Save(ctx, "docs/reports/report.pdf", bytes.NewReader(content))
		require.NoError(t, err)

		assert.Equal(t, "report.pdf", f.Filename)
		assert.Equal(t, "docs/reports/report.pdf", f.RelativePath)
		assert.Equal(t, "application/pdf", f.MIMEType)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		t.Parallel()
		_, err := storage.Save(ctx, "missing/report.pdf", bytes.NewReader([]byte("x")))
		assert.ErrorIs(t, err, file.ErrFailedToCreateFile)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("overwrite truncates", func(t *testing.T) {
		t.Parallel()
		_, err := storage.Save(ctx, "overwrite.txt", bytes.NewReader([]byte("a much longer first version")))
		require.NoError(t, err)

		f, err := storage.Save(ctx, "overwrite.txt", bytes.NewReader([]byte("short")))
		require.NoError(t, err)

		data, err := os.ReadFile(f.AbsolutePath)
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("exclusive create refuses existing file", func(t *testing.T) {
		t.Parallel()
		_, err := storage.Save(ctx, "exclusive.txt", bytes.NewReader([]byte("first")), file.Exclusive())
		require.NoError(t, err)

		_, err = storage.Save(ctx, "exclusive.txt", bytes.NewReader([]byte("second")), file.Exclusive())
		assert.ErrorIs(t, err, file.ErrFileExists)

		data, err := os.ReadFile(filepath.Join(tempDir, "exclusive.txt"))
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("invalid path traversal", func(t *testing.T) {
		t.Parallel()
		f, err := storage.Save(ctx, "../../../etc/passwd", bytes.NewReader([]byte("malicious")))
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		assert.Nil(t, f)
	})

	t.Run("root is not a file", func(t *testing.T) {
		t.Parallel()
		_, err := storage.Save(ctx, "", bytes.NewReader([]byte("x")))
		assert.ErrorIs(t, err, file.ErrIsDirectory)
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()
		f, err := storage.Save(ctx, "nil.txt", nil)
		assert.ErrorIs(t, err, file.ErrNilSource)
		assert.Nil(t, f)
	})

	t.Run("source error is wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		_, err := storage.Save(ctx, "broken.txt", failingWriterTo{err: boom})
		assert.ErrorIs(t, err, file.ErrFailedToWriteFile)
		assert.ErrorIs(t, err, boom)
	})
}

type failingWriterTo struct{ err error }

func (f failingWriterTo) WriteTo(w io.Writer) (int64, error) {
	n, _ := w.Write([]byte("partial"))
	return int64(n), f.err
}

func TestLocalStorage_Delete(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(tempDir)
	require.NoError(t, err)

	t.Run("delete existing file", func(t *testing.T) {
		t.Parallel()
		filePath := filepath.Join(tempDir, "delete-me.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("delete me"), 0644))

		err := storage.Delete(context.Background(), "delete-me.txt")
		assert.NoError(t, err)

		_, err = os.Stat(filePath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		t.Parallel()
		err := storage.Delete(context.Background(), "not-exists.txt")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("try to delete directory", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, os.Mkdir(filepath.Join(tempDir, "test-dir"), 0755))

		err := storage.Delete(context.Background(), "test-dir")
		assert.ErrorIs(t, err, file.ErrIsDirectory)
	})

	t.Run("invalid path traversal", func(t *testing.T) {
		t.Parallel()
		err := storage.Delete(context.Background(), "../../../etc/passwd")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
	})
}

func TestLocalStorage_Exists(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(tempDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "exists.txt"), []byte("I exist"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "existing-dir"), 0755))

	assert.True(t, storage.Exists(context.Background(), "exists.txt"))
	assert.True(t, storage.Exists(context.Background(), "existing-dir"))
	assert.False(t, storage.Exists(context.Background(), "not-exists.txt"))
	assert.False(t, storage.Exists(context.Background(), "../../../etc/passwd"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, storage.Exists(ctx, "exists.txt"))
}

func TestLocalStorage_List(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(tempDir)
	require.NoError(t, err)

	t.Run("list directory contents", func(t *testing.T) {
		t.Parallel()
		testDirAbs := filepath.Join(tempDir, "list-test")
		require.NoError(t, os.MkdirAll(filepath.Join(testDirAbs, "subdir"), 0755))

		files := map[string][]byte{
			"file1.txt": []byte("content1"),
			"file2.pdf": []byte("%PDF-1.4"),
			"file3.jpg": {0xFF, 0xD8, 0xFF},
		}
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(testDirAbs, name), content, 0644))
		}

		entries, err := storage.List(context.Background(), "list-test")
		require.NoError(t, err)
		assert.Len(t, entries, 4)

		for _, entry := range entries {
			assert.True(t, strings.HasPrefix(entry.Path, "list-test/"))
			if entry.IsDir {
				assert.Equal(t, int64(0), entry.Size)
				assert.Equal(t, "subdir", entry.Name)
			} else {
				assert.Equal(t, int64(len(files[entry.Name])), entry.Size)
			}
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		entries, err := storage.List(context.Background(), "empty")
		assert.ErrorIs(t, err, file.ErrDirectoryNotFound)
		assert.Len(t, entries, 0)
	})

	t.Run("list file as directory", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "test-file.txt"), []byte("content"), 0644))

		entries, err := storage.List(context.Background(), "test-file.txt")
		assert.ErrorIs(t, err, file.ErrNotDirectory)
		assert.Len(t, entries, 0)
	})

	t.Run("invalid path traversal", func(t *testing.T) {
		t.Parallel()
		entries, err := storage.List(context.Background(), "../../../etc")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		assert.Len(t, entries, 0)
	})
}

func TestLocalStorage_WithTimeout(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	t.Run("upload times out", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewLocalStorage(tempDir, file.WithLocalUploadTimeout(time.Nanosecond))
		require.NoError(t, err)

		content := make([]byte, 10*1024*1024) // 10MB
		_, err = storage.Save(context.Background(), "timeout-test.bin", bytes.NewReader(content))

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("upload completes within timeout", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewLocalStorage(tempDir, file.WithLocalUploadTimeout(5*time.Second))
		require.NoError(t, err)

		content := []byte("small file")
		f, err := storage.Save(context.Background(), "success-test.txt", bytes.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, int64(len(content)), f.Size)
	})
}

func TestLocalStorage_Permissions(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	storage, err := file.NewLocalStorage(tempDir, file.WithDirPerm(0700), file.WithFilePerm(0600))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.MkdirAll(ctx, "private"))
	f, err := storage.Save(ctx, "private/secret.txt", bytes.NewReader([]byte("s3cr3t")))
	require.NoError(t, err)

	dirInfo, err := os.Stat(filepath.Join(tempDir, "private"))
	require.NoError(t, err)
	fileInfo, err := os.Stat(f.AbsolutePath)
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestLocalStorage_Integration(t *testing.T) {
	t.Parallel()
	storage, err := file.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("integration test content")
	require.NoError(t, storage.MkdirAll(ctx, "integration"))

	f, err := storage.Save(ctx, "integration/test.txt", bytes.NewReader(content))
	require.NoError(t, err)
	require.NotNil(t, f)

	assert.True(t, storage.Exists(ctx, f.RelativePath))

	entries, err := storage.List(ctx, "integration")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test.txt", entries[0].Name)
	assert.Equal(t, int64(len(content)), entries[0].Size)
	assert.False(t, entries[0].IsDir)

	require.NoError(t, storage.Delete(ctx, f.RelativePath))
	assert.False(t, storage.Exists(ctx, f.RelativePath))
}
