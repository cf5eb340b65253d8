// Package requestid provides HTTP middleware and helpers for request
// correlation identifiers.
//
// The middleware attaches an ID to every request: a valid client-supplied
// "X-Request-ID" header is reused, otherwise a UUIDv4 is generated. The ID is
// stored in the request context, echoed back in the response header, and
// reused by the gateway to name staged upload files.
//
// LoggerExtractor integrates with the logger package so the request ID shows
// up on every log record emitted while handling the request.
package requestid
