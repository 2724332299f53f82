// Package services holds the application service layer between the
// HTTP transport and the analytics pipeline.
//
// AnalysisService owns the mutable state of the application: the
// current upload batch, the corpus cache, and the persisted threshold
// settings. Analysis runs are synchronous; the caller gets the full
// result in the response and connected WebSocket clients get a refresh
// event.
package services
