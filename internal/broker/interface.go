package broker

import "time"

// EventNotice tells calendar clients that an event changed and which
// room to refetch. It carries no event body; the API stays the source
// of truth.
type EventNotice struct {
	Action     string    `json:"action"` // created, updated, cancelled, restored, deleted
	EventID    string    `json:"event_id"`
	RoomID     string    `json:"room_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broker fans event change notices out to every connected node.
type Broker interface {
	Publish(notice EventNotice) error
	Subscribe() (<-chan EventNotice, error)
	Close() error
}
