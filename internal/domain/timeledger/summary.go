package timeledger

import (
	"math"
	"sort"
	"time"
)

// DayBounds returns the first and last instant of day in loc
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// MonthBounds returns the first and last instant of the month in loc
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Summarize derives a day summary from the events of a single day.
// firstIn is the earliest IN, falling back to the earliest event; lastOut is the latest OUT,
// falling back to the latest event.
func Summarize(workerID string, day time.Time, events []PunchEvent) DaySummary {
	summary := DaySummary{
		WorkerID:   workerID,
		Date:       day,
		EventCount: len(events),
	}
	if len(events) == 0 {
		return summary
	}

	sorted := make([]PunchEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	firstIn := sorted[0].OccurredAt
	for _, e := range sorted {
		if e.Kind == PunchIn {
			firstIn = e.OccurredAt
			break
		}
	}

	lastOut := sorted[len(sorted)-1].OccurredAt
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Kind == PunchOut {
			lastOut = sorted[i].OccurredAt
			break
		}
	}

	summary.FirstIn = &firstIn
	summary.LastOut = &lastOut

	if len(sorted) < 2 {
		return summary
	}
	summary.Hours = ElapsedHours(firstIn, lastOut)
	return summary
}

// ElapsedHours is max(0, to - from) in hours rounded to two decimals
func ElapsedHours(from, to time.Time) float64 {
	hours := to.Sub(from).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

// Rollup folds per-day summaries and accepted leave into a monthly figure.
// Absent days are the calendar length minus worked and leave days, floored at zero.
func Rollup(workerID string, year int, month time.Month, days []DaySummary, leaveDays int) WorkerRollup {
	r := WorkerRollup{
		WorkerID:    workerID,
		Year:        year,
		Month:       month,
		DaysInMonth: DaysInMonth(year, month),
		LeaveDays:   leaveDays,
	}

	var total float64
	for _, d := range days {
		if d.EventCount == 0 {
			continue
		}
		r.DaysWorked++
		total += d.Hours
	}
	r.TotalHours = math.Round(total*100) / 100

	r.AbsentDays = max(0, r.DaysInMonth-r.DaysWorked-leaveDays)
	return r
}

// GroupByDay buckets events by calendar day in loc, keyed by YYYY-MM-DD
func GroupByDay(events []PunchEvent, loc *time.Location) map[string][]PunchEvent {
	days := make(map[string][]PunchEvent)
	for _, e := range events {
		key := e.OccurredAt.In(loc).Format("2006-01-02")
		days[key] = append(days[key], e)
	}
	return days
}
