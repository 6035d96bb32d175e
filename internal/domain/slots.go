package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// ClockTime is a wall-clock time of day in the business location.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: bad minute", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BusinessHours describes the daily bookable window and slot granularity.
type BusinessHours struct {
	Open     ClockTime
	Close    ClockTime
	Location *time.Location
	Step     time.Duration

	// AllowOverrun offers slots whose end runs past closing.
	AllowOverrun bool
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Open:         ClockTime{Hour: 9},
		Close:        ClockTime{Hour: 20},
		Location:     time.Local,
		Step:         30 * time.Minute,
		AllowOverrun: true,
	}
}

func (h BusinessHours) Validate() error {
	if h.Location == nil {
		return errors.New("business hours location is required")
	}
	if h.Step <= 0 {
		return errors.New("slot step must be positive")
	}
	if h.Close.minutes() <= h.Open.minutes() {
		return errors.New("closing time must be after opening time")
	}
	return nil
}

// Window returns the opening and closing instants for the calendar date of day.
// The date fields of day are taken as given; only the location is replaced.
func (h BusinessHours) Window(day time.Time) Interval {
	y, m, d := day.Date()
	return Interval{
		Start: time.Date(y, m, d, h.Open.Hour, h.Open.Minute, 0, 0, h.Location),
		End:   time.Date(y, m, d, h.Close.Hour, h.Close.Minute, 0, 0, h.Location),
	}
}

// Candidates returns slot starts from opening while start < closing, stepping by Step,
// whose [start, start+duration) overlaps none of busy. The result is ascending.
// It does not filter by the current instant; see SlotsAfter.
func (h BusinessHours) Candidates(day time.Time, duration time.Duration, busy []Interval) []time.Time {
	if duration <= 0 || h.Step <= 0 {
		return nil
	}
	w := h.Window(day)

	slots := make([]time.Time, 0, int(w.End.Sub(w.Start)/h.Step)+1)
	for t := w.Start; t.Before(w.End); t = t.Add(h.Step) {
		slot := Interval{Start: t, End: t.Add(duration)}
		if !h.AllowOverrun && slot.End.After(w.End) {
			continue
		}
		if overlapsAny(slot, busy) {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

// SlotsAfter keeps only slots strictly after now.
func SlotsAfter(slots []time.Time, now time.Time) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.After(now) {
			out = append(out, s)
		}
	}
	return out
}

func overlapsAny(slot Interval, busy []Interval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
