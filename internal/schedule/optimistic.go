package schedule

import "sync"

// Action is an admin mutation the client applies before the server
// confirms it.
type Action string

const (
	ActionCancel  Action = "cancel"
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

// Rollback is the single-level undo captured before an optimistic
// mutation: enough state to restore the list exactly as it was. Not a
// general undo stack.
type Rollback struct {
	kind       Action
	index      int
	prevStatus string
	prevItem   Item
}

// Apply mutates the event list in place for the given action and
// returns the rollback to replay on request failure. Returns ok=false
// when the id is not present, leaving the list untouched.
func Apply(events *[]Item, action Action, id string) (rb Rollback, ok bool) {
	list := *events
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Rollback{}, false
	}

	switch action {
	case ActionDelete:
		rb = Rollback{kind: ActionDelete, index: idx, prevItem: list[idx]}
		*events = append(list[:idx], list[idx+1:]...)
	case ActionCancel, ActionRestore:
		rb = Rollback{kind: action, index: idx, prevStatus: list[idx].Status}
		if action == ActionCancel {
			list[idx].Status = "CANCELLED"
		} else {
			list[idx].Status = "ACTIVE"
		}
	default:
		return Rollback{}, false
	}

	return rb, true
}

// Revert replays the snapshot: status flips are undone in place,
// deletions are reinserted at their original index.
func (rb Rollback) Revert(events *[]Item) {
	list := *events

	switch rb.kind {
	case ActionDelete:
		if rb.index > len(list) {
			*events = append(list, rb.prevItem)
			return
		}
		list = append(list, Item{})
		copy(list[rb.index+1:], list[rb.index:])
		list[rb.index] = rb.prevItem
		*events = list
	case ActionCancel, ActionRestore:
		if rb.index < len(list) {
			list[rb.index].Status = rb.prevStatus
		}
	}
}

// Reconcile replaces the optimistic guess with the server's canonical
// fields once the mutation succeeds.
func Reconcile(events *[]Item, canonical Item) {
	list := *events
	for i := range list {
		if list[i].ID == canonical.ID {
			list[i] = canonical
			return
		}
	}
}

// Flight tracks in-flight mutations per event id so the same action is
// single-flight: re-invoking while pending is a no-op. Different events
// may be mutated concurrently.
type Flight struct {
	mu       sync.Mutex
	inflight map[string]bool
}

func NewFlight() *Flight {
	return &Flight{inflight: make(map[string]bool)}
}

// Begin marks id in flight. Returns false when a mutation for the same
// id is already pending.
func (f *Flight) Begin(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight[id] {
		return false
	}
	f.inflight[id] = true
	return true
}

// End clears the in-flight mark.
func (f *Flight) End(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inflight, id)
}

// InFlight reports whether a mutation for id is pending.
func (f *Flight) InFlight(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight[id]
}
