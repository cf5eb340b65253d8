// Package logger builds configured log/slog loggers for the gateway.
//
// The factory supports JSON output for production and text output for
// development, static service attributes, and context extractors that inject
// request-scoped values (such as the request ID) into every log record:
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithAttr(slog.String("service", "upload-gateway")),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Attr helpers (Error, UserID, RequestID, ...) keep attribute keys consistent
// across packages.
package logger
