// Package messages implements message storage and delivery between
// addresses.
package messages

// Message is an immutable delivered message. IDs are assigned by the store
// in creation order; Timestamp is Unix milliseconds as reported by the
// sender, falling back to the server clock.
type Message struct {
	ID        int64
	From      string
	To        string
	Text      string
	Timestamp int64
}
