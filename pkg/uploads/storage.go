package uploads

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/uploads/pkg/file"
)

// StorageFactory opens the storage backend for a destination.
type StorageFactory func(ctx context.Context, destination string) (file.Storage, error)

// LocalStorageFactory opens a file.LocalStorage rooted at the destination.
// Object storage destinations are rejected.
func LocalStorageFactory(opts ...file.LocalOption) StorageFactory {
	return func(_ context.Context, destination string) (file.Storage, error) {
		if isRemote(destination) {
			return nil, fmt.Errorf("%w: no object storage configured for %s", ErrConfiguration, destination)
		}
		return file.NewLocalStorage(destination, opts...)
	}
}

// S3StorageFactory opens "s3://bucket/prefix" destinations as file.S3Storage
// through client and everything else as local directories. Storages are
// cached per destination.
func S3StorageFactory(client file.S3Client, opts ...file.S3Option) StorageFactory {
	local := LocalStorageFactory()

	var (
		mu       sync.Mutex
		storages = make(map[string]*file.S3Storage)
	)

	return func(ctx context.Context, destination string) (file.Storage, error) {
		if !isRemote(destination) {
			return local(ctx, destination)
		}

		bucket, prefix, err := parseS3Destination(destination)
		if err != nil {
			return nil, err
		}

		mu.Lock()
		defer mu.Unlock()

		if s, ok := storages[destination]; ok {
			return s, nil
		}

		s, err := file.NewS3Storage(ctx, file.S3Config{Bucket: bucket, Prefix: prefix},
			append(slices.Clone(opts), file.WithS3Client(client))...)
		if err != nil {
			return nil, err
		}
		storages[destination] = s
		return s, nil
	}
}

func parseS3Destination(destination string) (bucket, prefix string, err error) {
	u, err := url.Parse(destination)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid object storage destination %q", ErrConfiguration, destination)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}
