// Package exporter writes analysis results to CSV files.
//
// The package has two layers: CSVWriter handles the mechanics of one
// file (directory creation, optional UTF-8 BOM, encoding), and
// ResultExporter maps the analysis tables onto named CSV files in an
// output directory. Numeric cells are rounded here for display; the
// analysis engine itself never rounds.
package exporter
