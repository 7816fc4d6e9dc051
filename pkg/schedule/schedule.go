// Package schedule builds the time slot grids and date lists used by
// appointment and session forms.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	// ErrInvalidTime is returned for clock values that are not HH:mm.
	ErrInvalidTime = errors.New("schedule: time must be HH:mm")
	// ErrInvalidDuration is returned for slot lengths that are not a
	// positive whole number of minutes.
	ErrInvalidDuration = errors.New("schedule: duration must be a positive number of minutes")
	// ErrInvalidRange is returned when the end time is not after the start.
	ErrInvalidRange = errors.New("schedule: end must be after start")
	// ErrDuplicateDate is returned by DateList.Add for a date already listed.
	ErrDuplicateDate = errors.New("schedule: date already listed")
)

const (
	// ClockLayout is the HH:mm layout time controls produce.
	ClockLayout = "15:04"
	// DateLayout is the yyyy-MM-dd layout date controls produce.
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock parses an HH:mm value.
func ParseClock(raw string) (Clock, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Slot is one bookable interval.
type Slot struct {
	Start Clock
	End   Clock
}

// Label renders the slot as "HH:mm-HH:mm".
func (s Slot) Label() string {
	return s.Start.String() + "-" + s.End.String()
}

// Slots divides [start, end) into consecutive slots of duration. A trailing
// remainder shorter than duration is dropped. An end of "24:00" is not
// accepted; use "23:59" for the last minute of the day.
func Slots(start, end string, duration time.Duration) ([]Slot, error) {
	if duration <= 0 || duration%time.Minute != 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, duration)
	}
	from, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	if to <= from {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidRange, from, to)
	}

	step := Clock(duration / time.Minute)
	if step >= minutesPerDay {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, duration)
	}
	out := make([]Slot, 0, int((to-from)/step))
	for cur := from; cur+step <= to; cur += step {
		out = append(out, Slot{Start: cur, End: cur + step})
	}
	return out, nil
}

// StartTimes returns the start of every slot as HH:mm, the form a choice or
// select field offers.
func StartTimes(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

// Choices turns slots into select choices whose id is the start time and
// whose names are the slot label in both languages.
func Choices(slots []Slot) []model.Choice {
	out := make([]model.Choice, 0, len(slots))
	for _, s := range slots {
		label := s.Label()
		out = append(out, model.Choice{ID: s.Start.String(), NameEn: label, NameAr: label})
	}
	return out
}

// DateList is an ordered set of calendar dates.
type DateList struct {
	dates []time.Time
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Add inserts the calendar date of t, keeping the list sorted.
func (l *DateList) Add(t time.Time) error {
	d := day(t)
	i := sort.Search(len(l.dates), func(i int) bool { return !l.dates[i].Before(d) })
	if i < len(l.dates) && l.dates[i].Equal(d) {
		return fmt.Errorf("%w: %s", ErrDuplicateDate, d.Format(DateLayout))
	}
	l.dates = append(l.dates, time.Time{})
	copy(l.dates[i+1:], l.dates[i:])
	l.dates[i] = d
	return nil
}

// AddString parses a yyyy-MM-dd value and adds it.
func (l *DateList) AddString(raw string) error {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("schedule: invalid date %q: %w", raw, err)
	}
	return l.Add(t)
}

// Remove deletes the calendar date of t and reports whether it was listed.
func (l *DateList) Remove(t time.Time) bool {
	d := day(t)
	for i, existing := range l.dates {
		if existing.Equal(d) {
			l.dates = append(l.dates[:i], l.dates[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the calendar date of t is listed.
func (l *DateList) Contains(t time.Time) bool {
	d := day(t)
	for _, existing := range l.dates {
		if existing.Equal(d) {
			return true
		}
	}
	return false
}

// Len returns the number of dates.
func (l *DateList) Len() int {
	return len(l.dates)
}

// Strings returns the dates as yyyy-MM-dd in ascending order.
func (l *DateList) Strings() []string {
	out := make([]string, 0, len(l.dates))
	for _, d := range l.dates {
		out = append(out, d.Format(DateLayout))
	}
	return out
}
