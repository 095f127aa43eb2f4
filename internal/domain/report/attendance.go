package report

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

// Cutoff is a wall-clock time of day after which a first IN counts as late
type Cutoff struct {
	Hour   int
	Minute int
}

func ParseCutoff(s string) (Cutoff, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Cutoff{}, ErrInvalidCutoff
	}
	return Cutoff{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Cutoff) String() string {
	return time.Date(0, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format("15:04")
}

// On returns the cutoff instant on the given day in loc
func (c Cutoff) On(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// Classify marks a worker absent without a first IN, late when it is after the cutoff,
// present otherwise.
func Classify(firstIn *time.Time, cutoff Cutoff, loc *time.Location) AttendanceStatus {
	if firstIn == nil {
		return AttendanceAbsent
	}
	if firstIn.After(cutoff.On(*firstIn, loc)) {
		return AttendanceLate
	}
	return AttendancePresent
}
