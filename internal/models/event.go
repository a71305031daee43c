package models

// Event represents an occasion (e.g. "Christmas 2026") that gathers participants.
// Each participant owns exactly one list inside the event.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Title is the display name of the event.
	Title string

	// Description is an optional free-text description.
	Description string

	// InvitationCode is the short shareable code used to join the event.
	InvitationCode string

	// CreatorID is the user who created the event.
	CreatorID string

	// IsCreator is set on read paths when the event is returned for a
	// specific user; it is not persisted.
	IsCreator bool

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// EventParticipant links a user to an event they have joined.
type EventParticipant struct {
	EventID string
	UserID  string

	// User carries display identity on read paths.
	User UserRef

	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64
}
