package uploads

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/config"
)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger. Nil is ignored.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStorageFactory replaces the default LocalStorageFactory.
func WithStorageFactory(f StorageFactory) RegistryOption {
	return func(r *Registry) {
		if f != nil {
			r.storage = f
		}
	}
}

// WithObserver registers an observer for save, reject and serve events.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithPublicURL sets the scheme and host URL for files served by the
// registry endpoint, e.g. "https://example.com". Without it URL returns
// host-relative paths. Unparsable values are ignored.
func WithPublicURL(u string) RegistryOption {
	return func(r *Registry) {
		if parsed, err := url.Parse(u); err == nil && u != "" {
			r.publicURL = parsed
		}
	}
}

// WithExclusiveCreate makes Save create files atomically: if another writer
// takes the chosen name first, the name is resolved again instead of
// overwriting. Names are the same as without the option when there is no
// race.
func WithExclusiveCreate() RegistryOption {
	return func(r *Registry) {
		r.exclusive = true
	}
}

// WithDefaults overrides the application-wide defaults read from settings.
func WithDefaults(d GlobalDefaults) RegistryOption {
	return func(r *Registry) {
		r.defaults = d
	}
}

// SetOption configures an UploadSet.
type SetOption func(*UploadSet)

// WithExtensions sets the default extension policy of the set.
func WithExtensions(p ExtensionPolicy) SetOption {
	return func(s *UploadSet) {
		s.extensions = p
	}
}

// WithDefaultDest sets a callback computing the destination when the
// settings do not name one. Returning "" falls through to the global default.
func WithDefaultDest(fn func(config.Settings) string) SetOption {
	return func(s *UploadSet) {
		s.defaultDest = fn
	}
}

// CallOption adjusts a single UploadSet operation.
type CallOption func(*callOptions)

type callOptions struct {
	folder   string
	name     string
	override *Config
}

// InFolder stores or looks up the file in a subfolder of the destination.
func InFolder(folder string) CallOption {
	return func(o *callOptions) {
		o.folder = strings.Trim(folder, "/")
	}
}

// WithName stores the file under name instead of the sanitized client
// filename. The name is trusted as is. A trailing "." gets the extension of
// the uploaded file appended, and a "/" splits off a folder unless InFolder
// is also given.
func WithName(name string) CallOption {
	return func(o *callOptions) {
		o.name = name
	}
}

// WithConfig makes the call use cfg instead of the registry configuration.
// The registry may then be nil.
func WithConfig(cfg Config) CallOption {
	return func(o *callOptions) {
		o.override = &cfg
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
