// Package taskdate provides calendar arithmetic for task deadlines.
// Dates are plain YYYY-MM-DD strings and times HH:MM strings, interpreted
// in the local time zone.
package taskdate

import (
	"fmt"
	"time"

	"github.com/nhle/taskflow/internal/model"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire and storage format for times of day.
const TimeLayout = "15:04"

// endOfDayHour/Minute define the implicit deadline for tasks without a time.
const (
	endOfDayHour   = 23
	endOfDayMinute = 59
)

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return t, nil
}

// Format renders a time as a YYYY-MM-DD string.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// Deadline computes the moment a task is due: its date combined with its
// time of day, or 23:59 when no time is set.
func Deadline(t model.Task) (time.Time, error) {
	day, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, err
	}

	hour, minute := endOfDayHour, endOfDayMinute
	if t.Time != "" {
		clock, err := time.Parse(TimeLayout, t.Time)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing time %q: %w", t.Time, err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), nil
}

// DaysLeft returns the whole calendar days between today and the due date.
// Negative for past dates, zero for today. Time of day plays no part; the
// difference is taken between date ordinals in UTC, so a DST transition
// shortening a local day cannot shift the count.
func DaysLeft(date string, today time.Time) (int, error) {
	due, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	a := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24), nil
}

// Tomorrow returns the date string for the day after now.
func Tomorrow(now time.Time) string {
	return Format(now.AddDate(0, 0, 1))
}

// WeekDates returns seven consecutive date strings starting at start.
func WeekDates(start string) ([]string, error) {
	first, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = Format(first.AddDate(0, 0, i))
	}
	return dates, nil
}

// Remaining renders the time left until a task's deadline as a compact
// Japanese label: "期限切れ", "3日後", "2時間30分", "15分", "まもなく".
func Remaining(t model.Task, now time.Time) string {
	deadline, err := Deadline(t)
	if err != nil {
		return ""
	}

	diff := deadline.Sub(now)
	if diff < 0 {
		return model.MessageOverdue
	}

	minutes := int(diff.Minutes())
	hours := minutes / 60
	days := hours / 24

	switch {
	case days >= 1:
		return fmt.Sprintf("%d日後", days)
	case hours >= 1:
		if rem := minutes % 60; rem > 0 {
			return fmt.Sprintf("%d時間%d分", hours, rem)
		}
		return fmt.Sprintf("%d時間", hours)
	case minutes >= 1:
		return fmt.Sprintf("%d分", minutes)
	default:
		return "まもなく"
	}
}

// Ago renders how long ago a timestamp occurred: "たった今", "5分前",
// "3時間前", "2日前".
func Ago(ts time.Time, now time.Time) string {
	minutes := int(now.Sub(ts).Minutes())
	hours := minutes / 60
	days := hours / 24

	switch {
	case minutes < 1:
		return "たった今"
	case minutes < 60:
		return fmt.Sprintf("%d分前", minutes)
	case hours < 24:
		return fmt.Sprintf("%d時間前", hours)
	default:
		return fmt.Sprintf("%d日前", days)
	}
}

// FormatDuration renders estimated minutes as "45分", "2時間" or "1時間30分".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d分", minutes)
	}
	hours := minutes / 60
	if rem := minutes % 60; rem > 0 {
		return fmt.Sprintf("%d時間%d分", hours, rem)
	}
	return fmt.Sprintf("%d時間", hours)
}
