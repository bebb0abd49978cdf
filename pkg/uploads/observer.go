package uploads

import (
	"context"

	"github.com/dmitrymomot/uploads/pkg/file"
)

// Observer is notified about upload activity. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	// Saved is called after a file has been written.
	Saved(ctx context.Context, set string, f *file.File)
	// Rejected is called when the extension policy refuses a file.
	Rejected(ctx context.Context, set, ext string)
	// Served is called after the endpoint answered a request for set.
	// set is empty when the request named an unknown set.
	Served(ctx context.Context, set string, status int)
}

type nopObserver struct{}

func (nopObserver) Saved(context.Context, string, *file.File) {}
func (nopObserver) Rejected(context.Context, string, string)  {}
func (nopObserver) Served(context.Context, string, int)       {}
