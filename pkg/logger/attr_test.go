package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("upload", logger.UploadSet("photos"), logger.Filename("boat.jpg"))
	require.Equal(t, "upload", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "upload_set", g[0].Key)
	assert.Equal(t, "filename", g[1].Key)
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUploadAttrs(t *testing.T) {
	t.Parallel()
	tests := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{logger.UploadSet("photos"), "upload_set", "photos"},
		{logger.Filename("boat.jpg"), "filename", "boat.jpg"},
		{logger.Destination("/var/uploads/photos"), "destination", "/var/uploads/photos"},
		{logger.Extension("jpg"), "extension", "jpg"},
		{logger.Component("uploads"), "component", "uploads"},
		{logger.RequestID("abc"), "request_id", "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, tt.val, tt.attr.Value.String())
	}

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}
