// Package mirror copies displayed history values into a remote document
// store. Writes are fire-and-forget: nobody waits for them and failures are
// only logged.
package mirror

import (
	"context"
	"strings"
	"time"
)

// Path layouts. The detail layout matches the row's date column; the full
// layout is the default date description, always in UTC.
const (
	DetailLayout = "Jan 02 03:04"
	FullLayout   = "2006-01-02 15:04:05 -0700"
)

// Store is the remote document store. Only setting a value is used.
type Store interface {
	SetValue(ctx context.Context, path string, value float64) error
}

// Segments returns the two path segments for a sample dated date, with the
// detail segment rendered in loc
func Segments(date time.Time, loc *time.Location) (detail, full string) {
	return date.In(loc).Format(DetailLayout), date.UTC().Format(FullLayout)
}

// Path joins the segments for date in the local time zone.
// Samples sharing the same second map to the same path.
func Path(date time.Time) string {
	return PathIn(date, time.Local)
}

// PathIn is Path with an explicit location for the detail segment
func PathIn(date time.Time, loc *time.Location) string {
	detail, full := Segments(date, loc)
	return detail + "/" + full
}

// Split breaks a slash-separated path into its segments, dropping empties
func Split(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Discard is a Store that drops every write
type Discard struct{}

func (Discard) SetValue(context.Context, string, float64) error { return nil }
