package uploads

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/uploads/pkg/file"
)

// ResolveConflict finds a free name for basename inside folder by adding
// "_1", "_2", ... before the extension and returns the first one that does
// not exist. It never gives up on its own; only ctx cancellation stops it.
//
//	// foo.txt and foo_1.txt exist
//	name, _ := ResolveConflict(ctx, storage, "", "foo.txt") // "foo_2.txt"
//
// The check is not atomic: a concurrent writer may take the returned name
// before it is used.
func ResolveConflict(ctx context.Context, storage file.Storage, folder, basename string) (string, error) {
	stem, ext := basename, ""
	if i := strings.LastIndexByte(basename, '.'); i >= 0 {
		stem, ext = basename[:i], basename[i:]
	}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !storage.Exists(ctx, relName(folder, candidate)) {
			return candidate, nil
		}
	}
}
