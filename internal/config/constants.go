package config

import "time"

// Application metadata
const (
	AppName        = "PickPulse"
	AppDescription = "Warehouse daily picking report analytics"
	AppVendor      = "LPI Logistics"
)

// Report file format. These mirror the warehouse WMS export exactly:
// one workbook per day, the date embedded in the filename, worker rows
// on a fixed sheet under two banner rows and a label row.
const (
	// ReportFilePrefix precedes the 8-digit date token in every report
	// filename ("피킹바코드입력-20240115.xlsx").
	ReportFilePrefix = "피킹바코드입력-"

	// ReportDateLayout is the Go layout of the filename date token.
	ReportDateLayout = "20060102"

	// ReportSheetName is the worksheet holding the worker rows.
	ReportSheetName = "작업자현황"

	// ReportHeaderRows is the number of banner rows above the column
	// label row.
	ReportHeaderRows = 2

	// ReportFileExtension is the only accepted workbook extension.
	ReportFileExtension = ".xlsx"
)

// Report column labels, as they appear in the label row.
const (
	ColumnWorkerName = "작업자명"
	ColumnPickCount  = "피킹횟수"
	ColumnAvgMinutes = "1회평균분"
)

// Display layouts
const (
	DateDisplayLayout  = "2006-01-02"
	MonthDisplayLayout = "2006-01"
)

// HTTP client defaults
const (
	DefaultRequestTimeout = 30 * time.Second
)

// Upload handling
const (
	// UploadFieldName is the multipart form field carrying report
	// workbooks.
	UploadFieldName = "files"

	// TempFilePrefix marks Excel lock files that must never be parsed.
	TempFilePrefix = "~$"
)
