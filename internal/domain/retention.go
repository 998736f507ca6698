package domain

import "time"

const DefaultRetentionDates = 730

// RetentionWindow bounds the number of distinct record dates kept in the historical log.
type RetentionWindow struct {
	Dates int
}

func NewRetentionWindow(dates int) RetentionWindow {
	if dates <= 0 {
		dates = DefaultRetentionDates
	}
	return RetentionWindow{Dates: dates}
}

// Expired returns the oldest dates that fall outside the window. dates must be
// distinct and sorted ascending. Whole dates are returned, never a part of one.
func (w RetentionWindow) Expired(dates []time.Time) []time.Time {
	if w.Dates <= 0 || len(dates) <= w.Dates {
		return nil
	}
	return dates[:len(dates)-w.Dates]
}
