package normalize

import (
	"time"
)

// Timestamp layouts.
const (
	// CompactLayout is the extraction timestamp format, YYYYMMDDTHHMMSSZ.
	CompactLayout = "20060102T150405Z"

	// ISOLayout is the ISO-8601 UTC format used in processed tables.
	ISOLayout = "2006-01-02T15:04:05Z"
)

// FormatCompact formats t in UTC using CompactLayout.
func FormatCompact(t time.Time) string {
	return t.UTC().Format(CompactLayout)
}

// EpochMillisToISO converts an epoch-millisecond value to an ISO-8601 UTC string.
func EpochMillisToISO(v any) (string, error) {
	ms, err := toInt64(v)
	if err != nil {
		return "", err
	}
	return time.UnixMilli(ms).UTC().Format(ISOLayout), nil
}

// CompactToISO converts a YYYYMMDDTHHMMSSZ timestamp to ISO-8601.
// When s does not parse, it is returned unchanged with ok == false.
func CompactToISO(s string) (iso string, ok bool) {
	t, err := time.Parse(CompactLayout, s)
	if err != nil {
		return s, false
	}
	return t.UTC().Format(ISOLayout), true
}
