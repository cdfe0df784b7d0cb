// Package logger builds slog loggers for bgserve processes.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the resulting handler in
// LogHandlerDecorator, which pulls request-scoped values such as the request
// id out of the context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("BGSERVE_ENV"), "bgserve"),
//		logger.WithContextExtractors(serve.RequestIDExtractor),
//	)
//	log.InfoContext(ctx, "resource served",
//		logger.ResourceID(id),
//		logger.Status(http.StatusPartialContent),
//	)
//
// Attribute helpers keep key names consistent across packages. Error and the
// identifier helpers return an empty Attr for empty input, so they can be
// passed unconditionally.
//
// Library packages never log through slog.Default; they accept a logger
// through an option and fall back to Discard.
package logger
