package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploads/pkg/config"
)

func TestSettings_Lookup(t *testing.T) {
	t.Parallel()

	s := config.Settings{"UPLOADED_PHOTOS_URL": "", "UPLOADED_PHOTOS_DEST": "/tmp/photos"}

	v, ok := s.Lookup("UPLOADED_PHOTOS_URL")
	assert.True(t, ok, "explicitly empty value is present")
	assert.Empty(t, v)

	_, ok = s.Lookup("UPLOADED_FILES_URL")
	assert.False(t, ok)

	assert.Equal(t, "/tmp/photos", s.Get("UPLOADED_PHOTOS_DEST"))
	assert.Empty(t, s.Get("missing"))

	var nilSettings config.Settings
	_, ok = nilSettings.Lookup("anything")
	assert.False(t, ok)
}

func TestSettings_Parse(t *testing.T) {
	t.Parallel()

	type setConfig struct {
		Dest  string   `env:"DEST"`
		Allow []string `env:"ALLOW" envSeparator:","`
		Limit int      `env:"LIMIT" envDefault:"10"`
	}

	t.Run("reads prefixed keys only", func(t *testing.T) {
		t.Parallel()
		s := config.Settings{
			"UPLOADED_PHOTOS_DEST":  "/srv/photos",
			"UPLOADED_PHOTOS_ALLOW": "raw,tiff",
			"DEST":                  "/wrong",
		}

		var cfg setConfig
		require.NoError(t, s.Parse(&cfg, "UPLOADED_PHOTOS_"))
		assert.Equal(t, "/srv/photos", cfg.Dest)
		assert.Equal(t, []string{"raw", "tiff"}, cfg.Allow)
		assert.Equal(t, 10, cfg.Limit)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		s := config.Settings{"X_LIMIT": "many"}

		var cfg setConfig
		assert.ErrorIs(t, s.Parse(&cfg, "X_"), config.ErrParsingConfig)
	})
}

func TestEnviron(t *testing.T) {
	t.Setenv("CONFIG_TEST_PRIORITY", "process_value")
	t.Setenv("CONFIG_TEST_PROCESS_ONLY", "process")

	s, err := config.Environ("testdata/.env.uploads", "testdata/.env.override", "testdata/.env.missing")
	require.NoError(t, err)

	assert.Equal(t, "process_value", s.Get("CONFIG_TEST_PRIORITY"))
	assert.Equal(t, "process", s.Get("CONFIG_TEST_PROCESS_ONLY"))
	assert.Equal(t, "from_file", s.Get("CONFIG_TEST_FILE_ONLY"))
	assert.Equal(t, "second", s.Get("CONFIG_TEST_SECOND"))
	assert.Equal(t, "/var/uploads", s.Get("UPLOADS_DEFAULT_DEST"))
	assert.Equal(t, "raw, tiff", s.Get("UPLOADED_PHOTOS_ALLOW"))

	v, ok := s.Lookup("UPLOADED_PHOTOS_URL")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestEnviron_FilePrecedence(t *testing.T) {
	s, err := config.Environ("testdata/.env.override", "testdata/.env.uploads")
	require.NoError(t, err)
	assert.Equal(t, "second_file_value", s.Get("CONFIG_TEST_PRIORITY"))
}

func TestSettings_ParseIgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("UPLOADED_DOCS_DEST", "/from/process")

	var cfg struct {
		Dest string `env:"DEST"`
	}
	require.NoError(t, config.Settings(nil).Parse(&cfg, "UPLOADED_DOCS_"))
	assert.Empty(t, cfg.Dest)
}
