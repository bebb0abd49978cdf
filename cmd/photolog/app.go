package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/uploads/pkg/binder"
	"github.com/dmitrymomot/uploads/pkg/config"
	"github.com/dmitrymomot/uploads/pkg/file"
	"github.com/dmitrymomot/uploads/pkg/httpserver"
	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/metrics"
	"github.com/dmitrymomot/uploads/pkg/uploads"
)

type app struct {
	cfg      appConfig
	log      *slog.Logger
	registry *uploads.Registry
	photos   *uploads.UploadSet
	posts    *postStore
	metrics  *prometheus.Registry
	bindForm func(*http.Request, any) error
}

func newLogger(cfg appConfig) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestIDFromContext),
	)
}

func requestIDFromContext(ctx context.Context) (slog.Attr, bool) {
	id := middleware.GetReqID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}

func newApp(ctx context.Context, cfg appConfig, settings config.Settings, log *slog.Logger) (*app, error) {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []uploads.RegistryOption{
		uploads.WithLogger(log.With(logger.Component("uploads"))),
		uploads.WithObserver(metrics.NewObserver(metrics.WithRegistry(promReg))),
		uploads.WithPublicURL(cfg.PublicURL),
	}
	if cfg.ExclusiveCreate {
		opts = append(opts, uploads.WithExclusiveCreate())
	}
	if cfg.S3.Region != "" {
		client, err := file.NewS3Client(ctx, file.S3Config{
			Region:         cfg.S3.Region,
			AccessKeyID:    cfg.S3.AccessKeyID,
			SecretKey:      cfg.S3.SecretKey,
			Endpoint:       cfg.S3.Endpoint,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, uploads.WithStorageFactory(uploads.S3StorageFactory(client)))
	}

	registry, err := uploads.NewRegistry(settings, opts...)
	if err != nil {
		return nil, err
	}

	photos := uploads.MustUploadSet("photos",
		uploads.WithExtensions(uploads.Extensions(uploads.Images)),
		uploads.WithDefaultDest(defaultPhotosDest),
	)
	if err := registry.Configure(ctx, photos); err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		registry: registry,
		photos:   photos,
		posts:    &postStore{},
		metrics:  promReg,
		bindForm: binder.Form(binder.WithMaxBytes(cfg.MaxUploadBytes)),
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", a.listPosts)
	r.Post("/posts", a.createPost)
	r.Delete("/posts/{id}", a.deletePost)
	r.Get("/photos", a.listPhotos)

	r.Get("/livez", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(a.log, 2*time.Second, map[string]httpserver.Check{
		"photos": func(ctx context.Context) error {
			_, err := a.photos.List(ctx, a.registry)
			return err
		},
	}))
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))

	if a.registry.Mount(r) {
		a.log.Info("serving uploads", "prefix", uploads.ServePrefix)
	}

	return r
}
