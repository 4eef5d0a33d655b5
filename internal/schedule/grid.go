// Package schedule holds the derived-view logic behind the week
// calendar: bucketing events into day columns, converting times to grid
// pixel positions, and planning optimistic admin mutations. It has no
// server authority; the database remains the source of truth.
package schedule

import (
	"sort"
	"time"
)

// Display window defaults: 08:00-20:00 at 1px per minute gives a 720px
// tall grid.
const (
	DefaultStartHour   = 8
	DefaultEndHour     = 20
	DefaultPxPerMinute = 1

	// Blocks shorter than this render at minimum height so they stay
	// clickable.
	MinBlockHeightPx = 20
)

// Item is the slice of an event the grid needs.
type Item struct {
	ID     string
	Title  string
	RoomID string
	Start  time.Time
	End    time.Time
	Color  string
	Status string
}

// Grid describes one displayed week.
type Grid struct {
	WeekStart   time.Time // Monday 00:00 local
	StartHour   int
	EndHour     int // exclusive bottom
	PxPerMinute int
}

// NewGrid builds a grid for the week containing t, with the default
// display window.
func NewGrid(t time.Time) Grid {
	return Grid{
		WeekStart:   StartOfWeekMonday(t),
		StartHour:   DefaultStartHour,
		EndHour:     DefaultEndHour,
		PxPerMinute: DefaultPxPerMinute,
	}
}

// StartOfWeekMonday returns Monday 00:00 (local) of the week containing t.
func StartOfWeekMonday(t time.Time) time.Time {
	diff := (int(t.Weekday()) + 6) % 7 // Mon=0
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -diff)
}

// Days returns the seven day starts of the displayed week.
func (g Grid) Days() [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = g.WeekStart.AddDate(0, 0, i)
	}
	return days
}

// TotalMinutes is the height of the display window in minutes.
func (g Grid) TotalMinutes() int {
	return (g.EndHour - g.StartHour) * 60
}

// HeightPx is the pixel height of the grid body.
func (g Grid) HeightPx() int {
	return g.TotalMinutes() * g.PxPerMinute
}

// BucketByDay distributes events into seven day columns keyed by the
// calendar day of their start time, each sorted by start ascending.
// Events outside the displayed week are dropped.
func (g Grid) BucketByDay(events []Item) [7][]Item {
	var buckets [7][]Item
	days := g.Days()

	for _, ev := range events {
		for i, day := range days {
			if sameDay(day, ev.Start) {
				buckets[i] = append(buckets[i], ev)
				break
			}
		}
	}

	for i := range buckets {
		sort.Slice(buckets[i], func(a, b int) bool {
			return buckets[i][a].Start.Before(buckets[i][b].Start)
		})
	}

	return buckets
}

// Position converts an event to its vertical pixel placement. Top is
// clamped to [0, HeightPx-1] so events starting before or after the
// display window never render outside the grid.
func (g Grid) Position(ev Item) (top, height int) {
	top = g.minutesSinceWindowStart(ev.Start) * g.PxPerMinute
	if top < 0 {
		top = 0
	}
	if max := g.HeightPx() - 1; top > max {
		top = max
	}

	height = int(ev.End.Sub(ev.Start).Minutes()) * g.PxPerMinute
	if height < MinBlockHeightPx {
		height = MinBlockHeightPx
	}
	return top, height
}

// NowIndicator returns the pixel offset of the "now" line. It is shown
// only when the displayed week is the current week and now falls within
// the display window.
func (g Grid) NowIndicator(now time.Time) (px int, visible bool) {
	if !sameDay(g.WeekStart, StartOfWeekMonday(now)) {
		return 0, false
	}
	if now.Hour() < g.StartHour || now.Hour() >= g.EndHour {
		return 0, false
	}
	return g.minutesSinceWindowStart(now) * g.PxPerMinute, true
}

// Slot identifies a clickable empty cell: the local ISO date and hour,
// for prefilling a creation form.
type Slot struct {
	Date string // YYYY-MM-DD, local calendar date, not UTC-shifted
	Hour int
}

// SlotAt maps a (day column, hour row) click to its slot.
func (g Grid) SlotAt(dayIndex, hour int) Slot {
	day := g.WeekStart.AddDate(0, 0, dayIndex)
	return Slot{
		Date: day.Format("2006-01-02"),
		Hour: hour,
	}
}

// SlotOccupied reports whether any event covers part of the hour cell
// at (dayIndex, hour).
func (g Grid) SlotOccupied(events []Item, dayIndex, hour int) bool {
	day := g.WeekStart.AddDate(0, 0, dayIndex)
	cellStart := day.Add(time.Duration(hour) * time.Hour)
	cellEnd := cellStart.Add(time.Hour)

	for _, ev := range events {
		if Overlaps(ev.Start, ev.End, cellStart, cellEnd) {
			return true
		}
	}
	return false
}

func (g Grid) minutesSinceWindowStart(t time.Time) int {
	return t.Hour()*60 + t.Minute() - g.StartHour*60
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
