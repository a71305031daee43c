package models

// List is one participant's wish list inside an event.
// There is exactly one list per (event, participant) pair.
type List struct {
	// ID is the unique identifier for the list (UUID format).
	ID string

	// EventID is the event this list belongs to.
	EventID string

	// UserID is the participant who owns the list.
	UserID string

	// Title is the display name of the list.
	Title string

	// Description is an optional free-text description.
	Description string

	// Owner carries the owner's display identity on read paths.
	Owner UserRef

	// Items is populated on detail read paths.
	Items []Item

	// CreatedAt is the Unix timestamp when the list was created.
	CreatedAt int64
}
