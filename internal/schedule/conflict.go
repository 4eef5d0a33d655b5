package schedule

import "time"

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Back-to-back bookings (a ends exactly when b
// starts) do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindConflicts returns the ids of existing events in the same room
// whose windows intersect the candidate. Cancelled events do not hold
// their slot.
func FindConflicts(existing []Item, candidate Item) []string {
	var conflicts []string
	for _, ev := range existing {
		if ev.ID == candidate.ID {
			continue
		}
		if ev.RoomID != candidate.RoomID {
			continue
		}
		if ev.Status == "CANCELLED" {
			continue
		}
		if Overlaps(ev.Start, ev.End, candidate.Start, candidate.End) {
			conflicts = append(conflicts, ev.ID)
		}
	}
	return conflicts
}
