package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is a flat string-keyed view of the application configuration.
// Upload sets read their destinations, URLs and extension lists from it.
type Settings map[string]string

// Lookup returns the value for key and whether the key is present at all.
// An explicitly empty value is present.
func (s Settings) Lookup(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s[key]
	return v, ok
}

// Get returns the value for key or an empty string.
func (s Settings) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// Parse fills the tagged struct v from the settings. Every env tag is
// looked up with prefix prepended.
//
//	var set struct {
//		Dest string `env:"DEST"`
//	}
//	err := settings.Parse(&set, "UPLOADED_PHOTOS_") // reads UPLOADED_PHOTOS_DEST
func (s Settings) Parse(v any, prefix string) error {
	environment := map[string]string(s)
	if environment == nil {
		environment = map[string]string{}
	}
	if err := env.ParseWithOptions(v, env.Options{
		Environment: environment,
		Prefix:      prefix,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Environ collects the process environment into Settings and adds the
// values from the given dotenv files. Process variables win over file
// values; earlier files win over later ones. Missing files are skipped.
func Environ(files ...string) (Settings, error) {
	settings := make(Settings)

	for i := len(files) - 1; i >= 0; i-- {
		values, err := godotenv.Read(files[i])
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Join(ErrLoadingEnvFile, err)
		}
		for k, v := range values {
			settings[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			settings[k] = v
		}
	}

	return settings, nil
}
