package uploads

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uploads/pkg/logger"
)

// Handler returns the serving endpoint: GET /{set}/{path...} streams the
// file at path inside the set's destination with the usual static file
// semantics (conditional and range requests). Unknown sets, missing files,
// directories and object storage destinations answer 404.
//
// The handler expects to be mounted under ServePrefix; Mount does that.
func (r *Registry) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/{set}/*", r.serveFile)
	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		r.obs().Served(req.Context(), "", http.StatusNotFound)
		http.NotFound(w, req)
	})
	return router
}

// Mount registers Handler under ServePrefix when ShouldServe reports it is
// needed, and reports whether it did.
func (r *Registry) Mount(router chi.Router) bool {
	if !r.ShouldServe() {
		return false
	}
	router.Mount(ServePrefix, r.Handler())
	return true
}

func (r *Registry) serveFile(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	set := chi.URLParam(req, "set")
	name := chi.URLParam(req, "*")

	cfg, ok := r.Config(set)
	if !ok {
		r.obs().Served(ctx, "", http.StatusNotFound)
		http.NotFound(w, req)
		return
	}

	notFound := func() {
		r.obs().Served(ctx, set, http.StatusNotFound)
		http.NotFound(w, req)
	}

	if cfg.Remote() || !fs.ValidPath(name) || name == "." {
		notFound()
		return
	}

	fsys := os.DirFS(cfg.Destination)
	info, err := fs.Stat(fsys, name)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log().ErrorContext(ctx, "failed to stat upload",
				logger.UploadSet(set),
				logger.Filename(name),
				logger.Error(err),
			)
		}
		notFound()
		return
	}
	if info.IsDir() {
		notFound()
		return
	}

	ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
	http.ServeFileFS(ww, req, fsys, name)

	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}
	r.obs().Served(ctx, set, status)
}
