package models

// Debt records that FromUserID owes ToUserID Amount for one item.
// Debts are derived by the debt deriver whenever an advanced contribution
// changes; the only mutation outside the deriver is settlement, which is
// one-way (unsettled -> settled).
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// ItemID is the item the reimbursement is for. The
	// (ItemID, FromUserID, ToUserID) triple is unique.
	ItemID string

	// FromUserID owes ToUserID.
	FromUserID string
	ToUserID   string

	// Amount is the reimbursement amount.
	Amount float64

	// IsSettled marks the debt as resolved. Settlement is terminal: there
	// is no operation to revert it.
	IsSettled bool

	// SettledAt is the Unix timestamp of settlement, zero while unsettled.
	SettledAt int64

	// FromUser, ToUser and ItemTitle carry display data on read paths.
	FromUser  UserRef
	ToUser    UserRef
	ItemTitle string

	// CreatedAt is the Unix timestamp when the debt was derived.
	CreatedAt int64
}
