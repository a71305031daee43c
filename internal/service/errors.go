package service

import "fmt"

// Domain error taxonomy. The HTTP boundary matches these with errors.As and
// translates them into the {success:false, error} envelope; anything else is
// treated as an internal failure and surfaced with a generic message.

// ValidationError reports invalid caller input (missing required field,
// non-positive amount, and so on).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// OverfundedError reports that recorded contributions would exceed the
// item's total price.
type OverfundedError struct {
	TotalPrice float64
}

func (e *OverfundedError) Error() string {
	return fmt.Sprintf("total contributions cannot exceed the item price of %.2f", e.TotalPrice)
}

// ConflictError reports that the request contradicts the item's existing
// contribution state, e.g. a FULL takeover of an item that already has
// contributors.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// AuthorizationError reports that the authenticated user is not allowed to
// perform the operation (not the list owner, not a party to the debt, not a
// participant).
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }
