package models

import "time"

// ReportRangeQuery selects the window of the time-based reports. Both dates
// are inclusive calendar days.
type ReportRangeQuery struct {
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Interval  string     `form:"interval" binding:"omitempty,oneof=day week month"`
}
