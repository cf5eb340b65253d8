// Package httpserver wraps net/http.Server with graceful shutdown, signal
// handling, and option-based configuration.
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithReadTimeout(30*time.Second),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		// handle startup failure
//	}
//
// Run blocks until the context is canceled, SIGINT/SIGTERM is received, or
// the listener fails. Shutdown is safe to call repeatedly.
package httpserver
