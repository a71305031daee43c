package models

// Item represents a single gift on a list.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ListID is the list this item belongs to.
	ListID string

	// Title is the display name of the gift.
	Title string

	// Description is an optional free-text description.
	Description string

	// URL is an optional link to the product page.
	URL string

	// IsBonus marks an item added by another participant as a surprise.
	// Bonus items are hidden from the list owner's own view.
	IsBonus bool

	// AddedByUserID is the user who added the item. For bonus items this is
	// a participant other than the list owner.
	AddedByUserID string

	// AdvancerUserID is the contributor who paid the item's full price
	// upfront, empty if nobody has. It is only ever written by the
	// contribution upsert service, which guarantees at most one advancer
	// per item.
	AdvancerUserID string

	// ContributionRev is an optimistic concurrency token covering the
	// item's contribution set. Every contribution write increments it;
	// writers validate against a snapshot revision so two concurrent
	// upserts cannot jointly overfund the item.
	ContributionRev int64

	// Contributions is populated on detail read paths.
	Contributions []Contribution

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
