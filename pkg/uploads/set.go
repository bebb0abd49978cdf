package uploads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/file"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/validator"
)

// DefaultSetName is the name of a set created with an empty name.
const DefaultSetName = "files"

// UploadSet is a named collection of uploaded files sharing an extension
// policy and a destination. It holds no runtime configuration: every
// operation looks it up in the Registry it is given, or uses the Config
// passed with WithConfig.
type UploadSet struct {
	name        string
	extensions  ExtensionPolicy
	defaultDest func(config.Settings) string
}

// NewUploadSet creates an upload set. The name must be alphanumeric; an
// empty name selects DefaultSetName. The policy defaults to Defaults.
func NewUploadSet(name string, opts ...SetOption) (*UploadSet, error) {
	if name == "" {
		name = DefaultSetName
	}

	if err := validator.Apply(
		validator.Required("name", name),
		validator.ValidAlphanumeric("name", name),
	); err != nil {
		return nil, errors.Join(ErrInvalidSetName, err)
	}

	s := &UploadSet{
		name:       name,
		extensions: Extensions(Defaults),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// MustUploadSet is like NewUploadSet but panics on an invalid name. It is
// meant for package-level declarations.
func MustUploadSet(name string, opts ...SetOption) *UploadSet {
	s, err := NewUploadSet(name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the set name.
func (s *UploadSet) Name() string { return s.name }

// Extensions returns the default extension policy.
func (s *UploadSet) Extensions() ExtensionPolicy { return s.extensions }

// EffectiveConfig returns override when it is not nil, otherwise the
// configuration registered for the set in reg.
func (s *UploadSet) EffectiveConfig(reg *Registry, override *Config) (Config, error) {
	if override != nil {
		return *override, nil
	}
	if reg == nil {
		return Config{}, fmt.Errorf("%w: cannot access configuration outside request/application context", ErrConfiguration)
	}
	cfg, ok := reg.Config(s.name)
	if !ok {
		return Config{}, fmt.Errorf("%w: upload set %s is not configured", ErrConfiguration, s.name)
	}
	return cfg, nil
}

// ExtensionAllowed reports whether ext may be stored. An extension in
// cfg.Allow is always accepted. Otherwise it must be accepted by the set's
// policy and not be in cfg.Deny.
func (s *UploadSet) ExtensionAllowed(cfg Config, ext string) bool {
	return slices.Contains(cfg.Allow, ext) ||
		(s.extensions.Contains(ext) && !slices.Contains(cfg.Deny, ext))
}

// FileAllowed reports whether a candidate stored as basename may be saved.
// Only the extension of basename is checked.
func (s *UploadSet) FileAllowed(cfg Config, _ Candidate, basename string) bool {
	return s.ExtensionAllowed(cfg, ExtensionOf(basename))
}

// Save stores the candidate and returns its name relative to the set's
// destination, "folder/name" when a folder is used.
//
// The client filename is sanitized with SecureBasename and its extension
// lower-cased. ErrUploadNotAllowed is returned when the extension is
// rejected. If the target exists, a free name is chosen with
// ResolveConflict. Errors from the storage are returned wrapped but
// otherwise untouched, and a failed write is not cleaned up.
func (s *UploadSet) Save(ctx context.Context, reg *Registry, c Candidate, opts ...CallOption) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: nil candidate", ErrInvalidInput)
	}

	o := applyCallOptions(opts)
	folder, name := o.folder, o.name
	if folder == "" {
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			folder, name = strings.Trim(name[:i], "/"), name[i+1:]
		}
	}

	raw, ok := c.Filename()
	if !ok {
		return "", fmt.Errorf("%w: candidate has no filename", ErrInvalidFilename)
	}
	base, err := basename(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, raw)
	}

	cfg, err := s.EffectiveConfig(reg, o.override)
	if err != nil {
		return "", err
	}

	log := reg.log().With(logger.UploadSet(s.name))

	if !s.FileAllowed(cfg, c, base) {
		ext := ExtensionOf(base)
		reg.obs().Rejected(ctx, s.name, ext)
		log.InfoContext(ctx, "upload rejected", logger.Filename(base), logger.Extension(ext))
		return "", fmt.Errorf("%w: extension %q", ErrUploadNotAllowed, ext)
	}

	if name != "" {
		if strings.HasSuffix(name, ".") {
			base = name + ExtensionOf(base)
		} else {
			base = name
		}
	}

	storage, err := reg.Storage(ctx, cfg)
	if err != nil {
		return "", err
	}
	if err := storage.MkdirAll(ctx, folder); err != nil {
		return "", err
	}

	final := base
	if storage.Exists(ctx, relName(folder, final)) {
		if final, err = ResolveConflict(ctx, storage, folder, base); err != nil {
			return "", err
		}
		log.DebugContext(ctx, "name taken, renamed", logger.Filename(base), slog.String("renamed", final))
	}

	var saveOpts []file.SaveOption
	if reg.exclusiveCreate() {
		saveOpts = append(saveOpts, file.Exclusive())
	}

	for {
		saved, err := storage.Save(ctx, relName(folder, final), c, saveOpts...)
		if err == nil {
			reg.obs().Saved(ctx, s.name, saved)
			return relName(folder, final), nil
		}
		if len(saveOpts) == 0 || !errors.Is(err, file.ErrFileExists) {
			return "", err
		}
		// Lost a race for the name: pick the next free one.
		if final, err = ResolveConflict(ctx, storage, folder, base); err != nil {
			return "", err
		}
		log.DebugContext(ctx, "name taken concurrently, renamed", logger.Filename(base), slog.String("renamed", final))
	}
}

// Path returns where filename is stored: destination[/folder]/filename.
// Existence is not checked.
func (s *UploadSet) Path(reg *Registry, filename string, opts ...CallOption) (string, error) {
	o := applyCallOptions(opts)
	cfg, err := s.EffectiveConfig(reg, o.override)
	if err != nil {
		return "", err
	}
	return joinDestination(cfg.Destination, o.folder, filename), nil
}

// URL returns the public URL of filename. With a base URL it is the plain
// concatenation base URL + filename. Otherwise it points to the registry's
// serving endpoint, escaped, as an absolute scheme://host/_uploads/... URL
// when the registry has WithPublicURL and as a host-relative path otherwise.
func (s *UploadSet) URL(reg *Registry, filename string, opts ...CallOption) (string, error) {
	o := applyCallOptions(opts)
	cfg, err := s.EffectiveConfig(reg, o.override)
	if err != nil {
		return "", err
	}
	if cfg.BaseURL != nil {
		return *cfg.BaseURL + filename, nil
	}
	return reg.servedURL(s.name, filename), nil
}

// List returns the entries stored in the destination, or in a folder of it.
func (s *UploadSet) List(ctx context.Context, reg *Registry, opts ...CallOption) ([]file.Entry, error) {
	o := applyCallOptions(opts)
	cfg, err := s.EffectiveConfig(reg, o.override)
	if err != nil {
		return nil, err
	}
	storage, err := reg.Storage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage.List(ctx, o.folder)
}

// Delete removes a stored file. filename is the name returned by Save.
func (s *UploadSet) Delete(ctx context.Context, reg *Registry, filename string, opts ...CallOption) error {
	o := applyCallOptions(opts)
	cfg, err := s.EffectiveConfig(reg, o.override)
	if err != nil {
		return err
	}
	storage, err := reg.Storage(ctx, cfg)
	if err != nil {
		return err
	}
	if err := storage.Delete(ctx, relName(o.folder, filename)); err != nil {
		return err
	}
	reg.log().DebugContext(ctx, "upload deleted", logger.UploadSet(s.name), logger.Filename(filename))
	return nil
}
