package models

import "time"

// Interval is a half-open-in-spirit date range; the overlap rule below is
// what actually decides boundary behavior.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether an existing booking's interval blocks a requested
// interval. The rule is boundary-inclusive and deliberately one-sided: the
// existing interval's start or end must fall within [requested.Start,
// requested.End]. The requested endpoints are never tested against the
// existing span, so an existing booking fully inside the requested range is
// caught, while a requested range strictly inside an existing booking is not.
func Overlaps(requested, existing Interval) bool {
	return within(existing.Start, requested) || within(existing.End, requested)
}

func within(t time.Time, iv Interval) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}
