// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - auth: API key validation on the X-API-Key header.
//   - rayid: a request id (RayID) for every request, stored in the context
//     locals and echoed in the X-Ray-ID response header for tracing.
//
// Routes that must stay public, such as /swagger and /metrics, are registered
// before auth.
package middleware
