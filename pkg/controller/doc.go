// Package controller contains HTTP middlewares and helper handlers used by
// the API server.
//
// Provided middlewares:
//   - WithCORS: Adds permissive CORS headers and handles OPTIONS preflight.
//     The backend serves a local visualization frontend, so every origin is
//     allowed, as the original plugin did.
//   - WithLogger: Attaches a request-scoped logger and request ID to the
//     context and logs access info.
//   - WithMetrics: Records per-request duration and counts through an
//     OpenTelemetry meter provider.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
package controller
