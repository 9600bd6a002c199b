package constants

import "time"

const (
	MissingReportCachePrefix = "annual_report_missing" // CacheBuilder adds colon
	MissingReportCacheValue  = "404"
	CacheOperationTimeout    = 5 * time.Second
)
