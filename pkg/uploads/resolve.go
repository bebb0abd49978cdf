package uploads

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/config"
)

// GlobalDefaults holds the application-wide upload settings.
type GlobalDefaults struct {
	// Dest is the root under which sets without their own destination get a
	// subdirectory named after the set.
	Dest string `env:"UPLOADS_DEFAULT_DEST"`

	// URL is the public root matching Dest.
	URL string `env:"UPLOADS_DEFAULT_URL"`

	// Autoserve enables the built-in serving endpoint.
	Autoserve bool `env:"UPLOADS_AUTOSERVE" envDefault:"true"`
}

// LoadDefaults reads the application-wide upload settings.
func LoadDefaults(settings config.Settings) (GlobalDefaults, error) {
	var d GlobalDefaults
	if err := settings.Parse(&d, ""); err != nil {
		return GlobalDefaults{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return d, nil
}

type setSettings struct {
	Dest  string   `env:"DEST"`
	Allow []string `env:"ALLOW" envSeparator:","`
	Deny  []string `env:"DENY" envSeparator:","`
}

// SettingsPrefix returns the key prefix of a set's settings, e.g.
// "UPLOADED_PHOTOS_" for the set "photos".
func SettingsPrefix(name string) string {
	return "UPLOADED_" + strings.ToUpper(name) + "_"
}

// Resolve computes the configuration of set from the application settings.
//
// The destination is the first of: UPLOADED_<NAME>_DEST, the set's default
// destination callback, defaults.Dest joined with the set name. Without any
// of them Resolve fails with ErrConfiguration.
//
// The base URL is UPLOADED_<NAME>_URL when present, even if empty. Otherwise,
// only when the destination came from defaults.Dest, it is derived from
// defaults.URL as "<url>/<name>/". In every other case it stays nil.
func Resolve(set *UploadSet, settings config.Settings, defaults GlobalDefaults) (Config, error) {
	if set == nil {
		return Config{}, fmt.Errorf("%w: nil upload set", ErrInvalidInput)
	}

	prefix := SettingsPrefix(set.name)

	var s setSettings
	if err := settings.Parse(&s, prefix); err != nil {
		return Config{}, fmt.Errorf("%w: set %s: %w", ErrConfiguration, set.name, err)
	}

	cfg := Config{
		Destination: s.Dest,
		Allow:       trimList(s.Allow),
		Deny:        trimList(s.Deny),
	}

	usingDefaults := false
	if cfg.Destination == "" && set.defaultDest != nil {
		cfg.Destination = set.defaultDest(settings)
	}
	if cfg.Destination == "" {
		if defaults.Dest == "" {
			return Config{}, fmt.Errorf("%w: no destination for set %s", ErrConfiguration, set.name)
		}
		usingDefaults = true
		cfg.Destination = joinDestination(defaults.Dest, set.name)
	}

	if u, ok := settings.Lookup(prefix + "URL"); ok {
		if u != "" {
			u = addSlash(u)
		}
		cfg.BaseURL = BaseURL(u)
	} else if usingDefaults && defaults.URL != "" {
		cfg.BaseURL = BaseURL(addSlash(defaults.URL) + set.name + "/")
	}

	return cfg, nil
}

func trimList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
