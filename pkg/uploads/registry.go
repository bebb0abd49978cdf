package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"slices"

	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/file"
	"github.com/dmitrymomot/uploads/pkg/logger"
)

// ServePrefix is the mount point of the serving endpoint.
const ServePrefix = "/_uploads"

// Registry holds the resolved configuration of every upload set of one
// application instance. Configure it during startup; afterwards it is only
// read and may be shared by concurrent requests without locking.
type Registry struct {
	settings  config.Settings
	defaults  GlobalDefaults
	configs   map[string]Config
	logger    *slog.Logger
	storage   StorageFactory
	observer  Observer
	publicURL *url.URL
	exclusive bool
}

// NewRegistry creates a registry reading its settings from settings.
func NewRegistry(settings config.Settings, opts ...RegistryOption) (*Registry, error) {
	defaults, err := LoadDefaults(settings)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		settings: settings,
		defaults: defaults,
		configs:  make(map[string]Config),
		logger:   logger.Noop(),
		storage:  LocalStorageFactory(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Configure resolves and stores the configuration of each set. A set that
// is already configured is replaced entirely. Nothing is stored if any set
// fails to resolve.
func (r *Registry) Configure(ctx context.Context, sets ...*UploadSet) error {
	resolved := make(map[string]Config, len(sets))
	for _, set := range sets {
		cfg, err := Resolve(set, r.settings, r.defaults)
		if err != nil {
			return err
		}
		resolved[set.name] = cfg
	}

	for name, cfg := range resolved {
		r.configs[name] = cfg
		r.logger.DebugContext(ctx, "upload set configured",
			logger.UploadSet(name),
			logger.Destination(cfg.Destination),
			slog.Bool("served", cfg.Served()),
		)
	}

	return nil
}

// Config returns the configuration of the named set.
func (r *Registry) Config(name string) (Config, bool) {
	if r == nil {
		return Config{}, false
	}
	cfg, ok := r.configs[name]
	return cfg, ok
}

// Names returns the configured set names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.configs))
}

// Defaults returns the application-wide upload settings.
func (r *Registry) Defaults() GlobalDefaults {
	if r == nil {
		return GlobalDefaults{Autoserve: true}
	}
	return r.defaults
}

// ShouldServe reports whether the serving endpoint is needed: autoserve is
// enabled and at least one set has no base URL.
func (r *Registry) ShouldServe() bool {
	if r == nil || !r.defaults.Autoserve {
		return false
	}
	for _, cfg := range r.configs {
		if cfg.Served() {
			return true
		}
	}
	return false
}

// Storage opens the storage backend for cfg's destination.
func (r *Registry) Storage(ctx context.Context, cfg Config) (file.Storage, error) {
	factory := LocalStorageFactory()
	if r != nil {
		factory = r.storage
	}
	s, err := factory(ctx, cfg.Destination)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", cfg.Destination, err)
	}
	return s, nil
}

// servedURL builds the escaped endpoint URL for a file of set. Without a
// public URL it is host-relative.
func (r *Registry) servedURL(set, filename string) string {
	base := &url.URL{Path: ServePrefix}
	if r != nil && r.publicURL != nil {
		base = r.publicURL.JoinPath(ServePrefix)
	}
	return base.JoinPath(set, filename).String()
}

func (r *Registry) log() *slog.Logger {
	if r == nil {
		return logger.Noop()
	}
	return r.logger
}

func (r *Registry) obs() Observer {
	if r == nil {
		return nopObserver{}
	}
	return r.observer
}

func (r *Registry) exclusiveCreate() bool {
	return r != nil && r.exclusive
}
