// Package http implements the HTTP handlers for the PickPulse web
// service. Handlers stay thin: they parse and validate the request,
// delegate to the analysis service, and render the response. All
// errors flow through the shared ErrorHandler, which renders RFC 7807
// problem documents.
//
// Each resource gets its own handler with a Routes() method; the app
// mounts them under /api.
package http
