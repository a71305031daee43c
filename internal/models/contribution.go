package models

// ContributionType distinguishes a solo purchase from participation in a
// shared one.
type ContributionType string

const (
	// ContributionFull means the contributor buys the gift alone. A FULL
	// contribution may exist only as the item's sole contribution and its
	// amount always equals the total price.
	ContributionFull ContributionType = "FULL"

	// ContributionPartial means the contributor joins a shared purchase.
	ContributionPartial ContributionType = "PARTIAL"
)

// Contribution is one user's recorded pledge toward an item.
// The (ItemID, UserID) pair is unique: re-submitting updates in place.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// ItemID and UserID form the unique key.
	ItemID string
	UserID string

	// Amount is the contributor's pledged share (non-negative).
	Amount float64

	// TotalPrice is the item's full price. It is optional per contribution
	// but shared across the item: once any contribution establishes it,
	// every later contribution sees the same value. Zero means not set.
	TotalPrice float64

	// Type is FULL or PARTIAL.
	Type ContributionType

	// HasAdvanced reports whether this contributor paid the full price
	// upfront. Derived from the item's AdvancerUserID on read paths;
	// meaningful only for PARTIAL contributions.
	HasAdvanced bool

	// Note is an optional free-text note.
	Note string

	// User carries the contributor's display identity on read paths.
	User UserRef

	// ItemTitle, ListID and EventID are attached on read paths that span
	// the item -> list -> event join.
	ItemTitle string
	ListID    string
	EventID   string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
