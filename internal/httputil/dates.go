package httputil

import (
	"errors"
	"net/url"
	"time"
)

var ErrDateRange = errors.New("invalid date range")

// ParseDate accepts RFC 3339 timestamps or plain dates. A plain end date
// covers the whole day.
func ParseDate(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// DateRange reads startDate and endDate from q. The range applies only when
// both are present; otherwise both times are zero.
func DateRange(q url.Values) (time.Time, time.Time, error) {
	if q.Get("startDate") == "" || q.Get("endDate") == "" {
		return time.Time{}, time.Time{}, nil
	}
	from, err1 := ParseDate(q.Get("startDate"), false)
	to, err2 := ParseDate(q.Get("endDate"), true)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, ErrDateRange
	}
	return from, to, nil
}
