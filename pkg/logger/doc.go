// Package logger builds *slog.Logger instances through functional options and
// provides attribute helpers so keys stay consistent across the codebase.
//
// New applies the options, picks a text or JSON handler and wraps it with
// LogHandlerDecorator, which runs the registered ContextExtractor callbacks on
// every record. That is how request-scoped values such as a request id end
// up in logs written deep inside the upload pipeline.
//
// # Usage
//
//	import "github.com/dmitrymomot/uploads/pkg/logger"
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "photolog"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := middleware.GetReqID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
//	log.InfoContext(ctx, "file saved",
//		logger.UploadSet("photos"),
//		logger.Filename("boat.jpg"),
//	)
//
// Noop returns a logger that discards everything; libraries use it when the
// caller did not supply one.
package logger
