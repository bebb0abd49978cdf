// Package httpserver runs an http.Handler with graceful shutdown,
// configurable timeouts and slog logging.
//
// Run blocks until the context is cancelled, SIGINT or SIGTERM arrives, or
// Shutdown is called, then drains in-flight requests for up to the shutdown
// timeout:
//
//	r := chi.NewRouter()
//	r.Get("/livez", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log, time.Second, map[string]httpserver.Check{
//		"uploads": checkUploads,
//	}))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		return err
//	}
//
// Run wraps listen and serve errors with ErrStart; Shutdown wraps drain
// failures with ErrShutdown.
package httpserver
