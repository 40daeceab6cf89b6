package feed

import "time"

// maxCacheAgeInDays is how long a cached feed snapshot stays valid.
const maxCacheAgeInDays = 7

// validateTimestamp reports whether a snapshot stored at timestamp is still
// valid when checked against date. The expiry is computed with a calendar
// day addition rather than raw seconds so it tracks real day boundaries.
// A snapshot exactly maxCacheAgeInDays old is already invalid.
func validateTimestamp(timestamp, date time.Time) bool {
	maxCacheAge := timestamp.AddDate(0, 0, maxCacheAgeInDays)
	return date.Before(maxCacheAge)
}
