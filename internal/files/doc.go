// Package files discovers and loads picking report workbooks from a
// local directory. The batch CLI uses it to turn a directory of daily
// reports into the same in-memory upload batch the HTTP server receives
// from multipart uploads.
package files
