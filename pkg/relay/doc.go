// Package relay streams staged event-log files to the external analytics
// backend and returns its reply.
//
// The client makes exactly one attempt per call; retry policy, if ever
// wanted, belongs to a wrapping caller. Two failure classes are kept
// strictly apart:
//
//   - the backend answered with any HTTP status: the reply is parsed and
//     returned as a *Reply, whatever the status code;
//   - the call never produced a usable backend response (DNS failure,
//     refused connection, timeout, malformed body): a *TransportError
//     wrapping the cause is returned instead.
//
// A missing backend URL is a configuration error detected at construction,
// never at call time.
package relay
