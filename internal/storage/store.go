// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/lmercier/giftpool/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStaleRevision is returned by UpsertContribution when the item's
// contribution set changed between the caller's snapshot and the write.
// Callers re-read and retry.
var ErrStaleRevision = errors.New("stale contribution revision")

// ErrAdvancerTaken is returned by UpsertContribution when a different
// contributor already advanced the item's full price.
var ErrAdvancerTaken = errors.New("item already has an advancer")

// Store defines the persistence interface for the gift-pool backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// Users.

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Events. CreateEvent populates ID, InvitationCode and CreatedAt.

	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetEventByInvitationCode(ctx context.Context, code string) (*models.Event, error)
	// ListEventsForUser returns events the user created or joined, newest
	// first, with IsCreator set.
	ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error)
	AddEventParticipant(ctx context.Context, eventID, userID string) error
	IsEventParticipant(ctx context.Context, eventID, userID string) (bool, error)
	ListEventParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error)

	// Lists. CreateList populates ID and CreatedAt.

	CreateList(ctx context.Context, list *models.List) error
	GetList(ctx context.Context, id string) (*models.List, error)
	// GetListWithItems loads the list with its owner identity, items and
	// each item's contributions (with contributor identity).
	GetListWithItems(ctx context.Context, id string) (*models.List, error)
	ListListsForUser(ctx context.Context, userID string) ([]models.List, error)

	// Items. CreateItem populates ID and timestamps.

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id string) error

	// Contributions.

	// ListContributionsForItem returns the item's contributions in
	// creation order, with contributor identity and HasAdvanced resolved
	// against the item's advancer.
	ListContributionsForItem(ctx context.Context, itemID string) ([]models.Contribution, error)
	// ListContributionsForUser returns the user's own contributions,
	// newest first, joined with item/list/event display data.
	ListContributionsForUser(ctx context.Context, userID string) ([]models.Contribution, error)
	// ListContributionsForSharedItems returns every contribution on each
	// item the user has contributed to, in creation order. Input for the
	// equal-split display aggregation.
	ListContributionsForSharedItems(ctx context.Context, userID string) ([]models.Contribution, error)
	// UpsertContribution writes the (item, user) contribution inside one
	// transaction guarded by the item's contribution revision: if the
	// stored revision differs from expectedRev the write is rejected with
	// ErrStaleRevision. advance designates the contributor as the item's
	// advancer; a write with advance unset from the current holder
	// releases the slot. The revision increments on every successful
	// write.
	UpsertContribution(ctx context.Context, c *models.Contribution, expectedRev int64, advance bool) (*models.Contribution, error)
	// DeleteContribution removes the (item, user) contribution, bumping
	// the revision and clearing the item's advancer when the withdrawing
	// user held it. Existing debts are left untouched.
	DeleteContribution(ctx context.Context, itemID, userID string) error

	// Debts.

	GetDebt(ctx context.Context, id string) (*models.Debt, error)
	// ListDebtsForUser returns debts where the user is either party,
	// newest first; eventID, when non-empty, restricts to debts whose
	// item's list belongs to that event.
	ListDebtsForUser(ctx context.Context, userID, eventID string) ([]models.Debt, error)
	// SettleDebt marks the debt settled with the given timestamp.
	SettleDebt(ctx context.Context, id string, settledAt int64) (*models.Debt, error)
	// ReconcileItemDebts replaces the item's debts with desired inside one
	// transaction, as a diff: settled debts are never touched, unsettled
	// debts matching a desired (from, to) pair get their amount updated,
	// unsettled debts with no match are removed, and the rest are
	// inserted.
	ReconcileItemDebts(ctx context.Context, itemID string, desired []models.Debt) error

	// Close releases any resources held by the store.
	Close() error
}
