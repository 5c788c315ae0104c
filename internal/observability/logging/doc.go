// Package logging provides structured logging utilities with context propagation.
//
// Loggers are plain *slog.Logger values. Handlers attach a request-scoped
// logger to the request context and downstream code retrieves it with
// FromContext:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.FromContext(ctx).Info("rendering report")
//	}
package logging
