package domain

import (
	"fmt"
	"time"
)

// StatsPeriod is the window a statistics summary covers.
type StatsPeriod string

const (
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
)

// ParseStatsPeriod validates a period string. Empty means week.
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch p := StatsPeriod(s); p {
	case "":
		return PeriodWeek, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("invalid period %q: must be one of week, month, year", s)
	}
}

// Bounds returns the half-open interval [start, end) of the period containing now.
// Weeks start on Monday.
func (p StatsPeriod) Bounds(now time.Time) (start, end time.Time) {
	switch p {
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case PeriodYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day()-(weekday-1), 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 0, 7)
	}
}

// DailyStats aggregates completed sessions for one day.
type DailyStats struct {
	Date         time.Time
	WorkSessions int
	BreaksTaken  int
	FocusTime    time.Duration
}

// StatsBucket is one bar of a period chart: a day for weeks and months,
// a month for years.
type StatsBucket struct {
	Label        string
	Start        time.Time
	WorkSessions int
	FocusTime    time.Duration
}

// Achievement is a milestone unlocked by the session history.
type Achievement struct {
	Title       string
	Description string
	Unlocked    bool
}

// StatsSummary is the statistics dashboard for a period.
type StatsSummary struct {
	Period         StatsPeriod
	Label          string
	Start          time.Time
	End            time.Time
	WorkSessions   int
	BreaksTaken    int
	FocusTime      time.Duration
	AverageSession time.Duration
	CurrentStreak  int
	LongestStreak  int
	Today          DailyStats
	Buckets        []StatsBucket
	Achievements   []Achievement
}

const (
	consistentStreakDays = 7
	marathonFocus        = 4 * time.Hour
	centurySessions      = 100
)

// Summarize builds the summary of the period containing now. Records may
// span any range: the period totals only count records inside the period,
// while streaks and achievements use the whole history given.
func Summarize(records []*SessionRecord, now time.Time, period StatsPeriod) *StatsSummary {
	loc := now.Location()
	start, end := period.Bounds(now)

	summary := &StatsSummary{
		Period:  period,
		Label:   periodLabel(period, start),
		Start:   start,
		End:     end,
		Today:   DailyStats{Date: dayOf(now, loc)},
		Buckets: buildBuckets(period, start, end),
	}

	focusByDay := make(map[time.Time]time.Duration)
	totalWork := 0

	for _, r := range records {
		at := r.CompletedAt.In(loc)
		day := dayOf(at, loc)

		if r.IsWork() {
			totalWork++
			focusByDay[day] += r.Duration
		}

		if day.Equal(summary.Today.Date) {
			if r.IsWork() {
				summary.Today.WorkSessions++
				summary.Today.FocusTime += r.Duration
			} else {
				summary.Today.BreaksTaken++
			}
		}

		if at.Before(start) || !at.Before(end) {
			continue
		}
		if !r.IsWork() {
			summary.BreaksTaken++
			continue
		}
		summary.WorkSessions++
		summary.FocusTime += r.Duration
		if i := bucketIndex(period, start, at); i >= 0 && i < len(summary.Buckets) {
			summary.Buckets[i].WorkSessions++
			summary.Buckets[i].FocusTime += r.Duration
		}
	}

	if summary.WorkSessions > 0 {
		summary.AverageSession = summary.FocusTime / time.Duration(summary.WorkSessions)
	}

	summary.CurrentStreak, summary.LongestStreak = streaks(focusByDay, dayOf(now, loc))

	marathon := false
	for _, focus := range focusByDay {
		if focus >= marathonFocus {
			marathon = true
			break
		}
	}

	summary.Achievements = []Achievement{
		{Title: "First Timer", Description: "Complete your first focus session", Unlocked: totalWork >= 1},
		{Title: "Consistent", Description: "Complete 7 days in a row", Unlocked: summary.LongestStreak >= consistentStreakDays},
		{Title: "Marathon", Description: "Focus for 4+ hours in a day", Unlocked: marathon},
		{Title: "Century", Description: "Complete 100 focus sessions", Unlocked: totalWork >= centurySessions},
	}

	return summary
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func periodLabel(period StatsPeriod, start time.Time) string {
	switch period {
	case PeriodMonth:
		return start.Format("January 2006")
	case PeriodYear:
		return start.Format("2006")
	default:
		return fmt.Sprintf("Week of %s", start.Format("Jan 2"))
	}
}

func buildBuckets(period StatsPeriod, start, end time.Time) []StatsBucket {
	var buckets []StatsBucket
	if period == PeriodYear {
		for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
			buckets = append(buckets, StatsBucket{Label: m.Format("Jan"), Start: m})
		}
		return buckets
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		label := d.Format("Mon")
		if period == PeriodMonth {
			label = d.Format("02")
		}
		buckets = append(buckets, StatsBucket{Label: label, Start: d})
	}
	return buckets
}

func bucketIndex(period StatsPeriod, start, at time.Time) int {
	if period == PeriodYear {
		return int(at.Month()) - int(start.Month())
	}
	day := dayOf(at, start.Location())
	for i, d := 0, start; i < 31; i, d = i+1, d.AddDate(0, 0, 1) {
		if d.Equal(day) {
			return i
		}
	}
	return -1
}

// streaks returns the run of consecutive focus days ending today (or
// yesterday when nothing was done yet today) and the longest run ever.
func streaks(focusByDay map[time.Time]time.Duration, today time.Time) (current, longest int) {
	if len(focusByDay) == 0 {
		return 0, 0
	}

	has := func(d time.Time) bool {
		_, ok := focusByDay[d]
		return ok
	}

	day := today
	if !has(day) {
		day = day.AddDate(0, 0, -1)
	}
	for has(day) {
		current++
		day = day.AddDate(0, 0, -1)
	}

	for d := range focusByDay {
		if has(d.AddDate(0, 0, -1)) {
			continue
		}
		run := 0
		for next := d; has(next); next = next.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}
