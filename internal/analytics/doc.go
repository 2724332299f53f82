// Package analytics computes the picking performance tables from a
// corpus: the per-worker summary, the duration trend, the weekday
// breakdown, the ranked detail rows and the headline statistics.
//
// Everything here is a pure transformation. Corpora are narrowed by
// copying, never by mutating; two runs over the same inputs produce
// deeply equal results.
package analytics
