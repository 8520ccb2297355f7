package application

import (
	"fmt"
	"time"
)

// Duration carries the elapsed time of a session in the representations the
// API exposes. All derived fields are computed from Milliseconds alone so the
// representations always agree.
type Duration struct {
	Milliseconds         int64
	Hours                float64
	Formatted            string
	FormattedWithSeconds string
}

// ComputeDuration derives the duration between two instants. A negative
// result indicates clock skew or data corruption and is reported as
// ErrIntegrity rather than clamped.
func ComputeDuration(start, end time.Time) (Duration, error) {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		return Duration{}, fmt.Errorf("%w: session ends %s before it starts", ErrIntegrity, start.Sub(end))
	}
	return DurationFromMillis(ms), nil
}

// DurationFromMillis builds every representation from a non-negative
// millisecond count.
func DurationFromMillis(ms int64) Duration {
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1_000) % 60
	return Duration{
		Milliseconds:         ms,
		Hours:                float64(ms) / 3_600_000,
		Formatted:            fmt.Sprintf("%dh %dm", hours, minutes),
		FormattedWithSeconds: fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
	}
}
