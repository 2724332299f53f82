// Package app assembles the PickPulse web service: configuration,
// logging, telemetry, the analysis pipeline, the WebSocket hub, and the
// chi router, wired together behind a single Application value with a
// Run/Stop lifecycle.
//
// Construction order matters: config first, then the logger (everything
// downstream logs through it), then OpenTelemetry, then the pipeline
// services, and finally the router that exposes them.
package app
