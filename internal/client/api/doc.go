// Package api is the client side of the travel-journal REST API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services; HTTPClient
// implements it over net/http with JSON bodies. Every request carries an
// X-Request-ID header and, when the configured TokenSource yields one, an
// `Authorization: Bearer` header. The adapter never reads or writes the
// session itself.
//
// # Error Handling
//
// Failures are reported as one of two concrete types:
//
//   - *TransportError: no HTTP response was received (DNS, refused
//     connection, timeout, cancelled context). Matches ErrTransport.
//   - *APIError: the server answered with a non-2xx status, or with a 2xx
//     body that does not decode into the expected shape. The message is the
//     server's `error` (or `message`) field when present. A 401 matches
//     ErrAuthExpired; a bad 2xx body matches ErrMalformedResponse.
//
// Match them with errors.Is / errors.As.
package api
