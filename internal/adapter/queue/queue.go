package queue

// MessageQueue is the event bus carrying conversation events out of the turn
// path. The dispatcher publishes turn.completed after every processed turn and
// booking.created when a caller finishes the booking flow; the monitor hub and
// downstream consumers subscribe. Publishing is best-effort: a caller's turn
// never fails because the bus is down.
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}
