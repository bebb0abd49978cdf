package uploads

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Config is the resolved runtime configuration of one upload set.
type Config struct {
	// Destination is the directory files are stored in. An "s3://bucket/prefix"
	// destination stores objects in a bucket instead.
	Destination string

	// BaseURL is the public URL prefix of stored files. Nil means the files
	// are served by the registry's endpoint; a non-nil empty string means
	// they are not served at all and URL returns the bare name.
	BaseURL *string

	// Allow lists extensions that are always accepted.
	Allow []string

	// Deny lists extensions rejected unless they are also in Allow.
	Deny []string
}

// BaseURL returns a pointer to u for use in Config literals.
func BaseURL(u string) *string {
	return &u
}

// Equal reports whether both configs have the same destination, base URL
// and the same allow and deny sets. Order and duplicates in the extension
// lists do not matter.
func (c Config) Equal(other Config) bool {
	if c.Destination != other.Destination {
		return false
	}
	if (c.BaseURL == nil) != (other.BaseURL == nil) {
		return false
	}
	if c.BaseURL != nil && *c.BaseURL != *other.BaseURL {
		return false
	}
	return sameSet(c.Allow, other.Allow) && sameSet(c.Deny, other.Deny)
}

// Served reports whether the registry endpoint is responsible for the files.
func (c Config) Served() bool {
	return c.BaseURL == nil
}

// Remote reports whether the destination is object storage.
func (c Config) Remote() bool {
	return isRemote(c.Destination)
}

func sameSet(a, b []string) bool {
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(slices.Compact(x), slices.Compact(y))
}

func isRemote(dest string) bool {
	return strings.HasPrefix(dest, "s3://")
}

// joinDestination appends elems to a local directory or an s3:// URL.
// Empty elements are skipped.
func joinDestination(dest string, elems ...string) string {
	if isRemote(dest) {
		rest := path.Join(elems...)
		if rest == "" {
			return dest
		}
		return strings.TrimRight(dest, "/") + "/" + rest
	}
	return filepath.Join(append([]string{dest}, elems...)...)
}

// addSlash appends a trailing slash if absent.
func addSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// relName joins a folder and a basename into a storage-relative name.
func relName(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
