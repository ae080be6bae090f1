package reports

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod means a report period is empty or inverted.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is a closed date range.
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod validates and returns a period.
func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, fmt.Errorf("%w: both bounds are required", ErrInvalidPeriod)
	}
	if from.After(to) {
		return Period{}, fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return Period{From: from, To: to}, nil
}

// Month returns the period covering one calendar month.
func Month(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}
