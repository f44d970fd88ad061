package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TimeSpan is the result of subtracting two timestamps, carrying both the
// magnitude and which side of now it falls on so templates can phrase
// "starts in" versus "ended ago".
type TimeSpan struct {
	Kind     string // "InTheFuture", "InThePast" or "Zero"
	Duration time.Duration
}

const (
	SpanFuture = "InTheFuture"
	SpanPast   = "InThePast"
	SpanZero   = "Zero"
)

func builtinFuncs(r *Renderer) map[string]any {
	return map[string]any{
		"now":            r.nowFunc,
		"formatDateTime": r.formatDateTime,
		"subDateTimes":   subDateTimes,
		"formatDuration": formatDuration,
		"wrapString":     wrapString,
		"comma":          comma,
		"ago":            humanize.Time,
	}
}

// nowFunc returns the current time, optionally in a named IANA zone.
func (r *Renderer) nowFunc(tz ...string) (time.Time, error) {
	if len(tz) == 0 {
		return time.Now().In(r.location), nil
	}
	loc, err := time.LoadLocation(tz[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown time zone %q: %w", tz[0], err)
	}
	return time.Now().In(loc), nil
}

// formatDateTime formats t using a Go reference layout in the renderer's
// location.
func (r *Renderer) formatDateTime(layout string, t time.Time) string {
	return t.In(r.location).Format(layout)
}

// subDateTimes computes a - b as a signed span.
func subDateTimes(a, b time.Time) TimeSpan {
	d := a.Sub(b)
	switch {
	case d > 0:
		return TimeSpan{Kind: SpanFuture, Duration: d}
	case d < 0:
		return TimeSpan{Kind: SpanPast, Duration: -d}
	default:
		return TimeSpan{Kind: SpanZero}
	}
}

// formatDuration renders a duration as its most significant components, at
// most three, e.g. "1 hour 4 minutes 12 seconds". Sub-second durations come
// out as "0 seconds".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
		{"second", time.Second},
	}

	var parts []string
	for _, u := range units {
		if len(parts) == 3 {
			break
		}
		n := d / u.size
		d -= n * u.size
		if n == 0 {
			continue
		}
		label := u.name
		if n != 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}

	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

// wrapString surrounds s with the given wrapper on both sides.
func wrapString(wrapper, s string) string {
	return wrapper + s + wrapper
}

// comma formats an integer with thousands separators.
func comma(n int64) string {
	return humanize.Comma(n)
}
