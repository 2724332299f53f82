// Package dataprocessing turns uploaded picking-report workbooks into
// the analysis corpus.
//
// The pipeline has three stages:
//
//   - Parser reads one workbook: the report date comes from the
//     filename, the worker rows from the 작업자현황 sheet. Malformed
//     rows are dropped individually; malformed files are skipped as a
//     whole and never abort a batch.
//   - Builder concatenates per-file results, derives calendar fields
//     once, and deduplicates the worker-sighting roster.
//   - CorpusCache memoizes the latest build behind a content hash of
//     the upload batch, coalescing concurrent identical builds.
//
// All output types live in pkg/contracts/domain; this package owns no
// long-lived state beyond the single cache entry.
package dataprocessing
