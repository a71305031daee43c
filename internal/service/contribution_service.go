package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

// amountTolerance absorbs rounding noise when checking the funding cap.
const amountTolerance = 0.01

// upsertMaxAttempts bounds the optimistic-revision retry loop.
const upsertMaxAttempts = 3

// ContributionService validates and writes contributions, enforcing the
// monetary invariants of an item's contribution set:
//
//   - at most one contribution per (item, user)
//   - one shared total price per item, established by the first
//     contribution that carries it
//   - the sum of amounts never exceeds the total price (0.01 tolerance)
//   - at most one advancer per item
//   - a FULL contribution only as the item's sole contribution
//
// Validation and write are coupled through the item's contribution
// revision: the snapshot the rules were checked against must still be
// current when the write lands, otherwise the service re-reads and retries.
type ContributionService struct {
	store storage.Store
	debts *DebtService
}

// NewContributionService creates a ContributionService with the given
// storage backend and debt deriver.
func NewContributionService(store storage.Store, debts *DebtService) *ContributionService {
	return &ContributionService{store: store, debts: debts}
}

// UpsertContributionInput is the caller's request to create or update their
// contribution on an item. Amount and TotalPrice use pointers to tell
// "omitted" apart from zero.
type UpsertContributionInput struct {
	ItemID      string
	UserID      string
	Amount      *float64
	TotalPrice  *float64
	Type        models.ContributionType
	Note        string
	HasAdvanced bool
}

// Upsert creates or updates the caller's contribution on an item. After the
// write commits the debt deriver runs for the item, so ledgers of advanced
// items track every contribution change.
func (s *ContributionService) Upsert(ctx context.Context, input UpsertContributionInput) (*models.Contribution, error) {
	if input.Type != models.ContributionFull && input.Type != models.ContributionPartial {
		return nil, &ValidationError{Reason: "contribution type must be FULL or PARTIAL"}
	}
	if input.Amount != nil && *input.Amount < 0 {
		return nil, &ValidationError{Reason: "amount must not be negative"}
	}
	if input.TotalPrice != nil && *input.TotalPrice <= 0 {
		return nil, &ValidationError{Reason: "total price must be positive"}
	}

	item, err := s.getItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, item, input.UserID); err != nil {
		return nil, err
	}

	var result *models.Contribution
	for attempt := 1; ; attempt++ {
		result, err = s.tryUpsert(ctx, item, input)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrStaleRevision) || attempt >= upsertMaxAttempts {
			if errors.Is(err, storage.ErrStaleRevision) {
				return nil, &ConflictError{Reason: "the item's contributions changed concurrently, please retry"}
			}
			return nil, err
		}
		slog.Debug("Contribution upsert raced, retrying",
			"item_id", input.ItemID,
			"user_id", input.UserID,
			"attempt", attempt,
		)
		if item, err = s.getItem(ctx, input.ItemID); err != nil {
			return nil, err
		}
	}

	slog.Info("Contribution upserted",
		"item_id", result.ItemID,
		"user_id", result.UserID,
		"type", result.Type,
		"amount", result.Amount,
		"has_advanced", result.HasAdvanced,
	)

	// The deriver is a no-op while the item has no advancer, so it can run
	// after every write: any contribution change on an advanced item must
	// be reflected in the ledger.
	if err := s.debts.RecomputeItem(ctx, result.ItemID); err != nil {
		return nil, err
	}
	return result, nil
}

// tryUpsert validates against a snapshot of the item's contribution set and
// writes under that snapshot's revision.
func (s *ContributionService) tryUpsert(ctx context.Context, item *models.Item, input UpsertContributionInput) (*models.Contribution, error) {
	existing, err := s.store.ListContributionsForItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}

	var others []models.Contribution
	for _, c := range existing {
		if c.UserID != input.UserID {
			others = append(others, c)
		}
	}

	totalPrice, err := resolveTotalPrice(input, existing)
	if err != nil {
		return nil, err
	}

	var othersSum float64
	for _, c := range others {
		othersSum += c.Amount
	}

	var amount float64
	switch input.Type {
	case models.ContributionFull:
		if len(others) > 0 {
			return nil, &ConflictError{Reason: "the item already has contributions from other users"}
		}
		// A solo purchase always covers the full price.
		amount = totalPrice
	case models.ContributionPartial:
		if input.Amount == nil {
			remaining := totalPrice - othersSum
			if remaining < amountTolerance {
				return nil, &OverfundedError{TotalPrice: totalPrice}
			}
			amount = remaining
		} else {
			amount = *input.Amount
			if amount <= 0 {
				return nil, &ValidationError{Reason: "amount must be positive"}
			}
		}
	}

	if othersSum+amount > totalPrice+amountTolerance {
		return nil, &OverfundedError{TotalPrice: totalPrice}
	}

	advance := input.HasAdvanced && input.Type == models.ContributionPartial
	if advance && item.AdvancerUserID != "" && item.AdvancerUserID != input.UserID {
		return nil, &ConflictError{Reason: "another contributor already advanced the full price"}
	}

	contribution := &models.Contribution{
		ItemID:     item.ID,
		UserID:     input.UserID,
		Amount:     amount,
		TotalPrice: totalPrice,
		Type:       input.Type,
		Note:       strings.TrimSpace(input.Note),
	}

	result, err := s.store.UpsertContribution(ctx, contribution, item.ContributionRev, advance)
	if err != nil {
		if errors.Is(err, storage.ErrAdvancerTaken) {
			return nil, &ConflictError{Reason: "another contributor already advanced the full price"}
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, err
	}
	return result, nil
}

// resolveTotalPrice returns the item's shared total price for this upsert:
// the value supplied now, or the one established by a prior contribution.
// A supplied value must agree with an established one.
func resolveTotalPrice(input UpsertContributionInput, existing []models.Contribution) (float64, error) {
	var established float64
	for _, c := range existing {
		if c.TotalPrice != 0 {
			established = c.TotalPrice
			break
		}
	}

	switch {
	case input.TotalPrice == nil && established == 0:
		return 0, &ValidationError{Reason: "the item's total price is required for the first contribution"}
	case input.TotalPrice == nil:
		return established, nil
	case established != 0 && math.Abs(*input.TotalPrice-established) > amountTolerance:
		return 0, &ValidationError{Reason: fmt.Sprintf("the item's total price is already set to %.2f", established)}
	default:
		return *input.TotalPrice, nil
	}
}

// Withdraw removes the caller's contribution from an item. Debts derived
// from the old contribution set are intentionally left in place; see the
// debt service documentation.
func (s *ContributionService) Withdraw(ctx context.Context, itemID, userID string) error {
	if _, err := s.getItem(ctx, itemID); err != nil {
		return err
	}

	err := s.store.DeleteContribution(ctx, itemID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil // nothing to withdraw
	}
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	slog.Info("Contribution withdrawn", "item_id", itemID, "user_id", userID)
	return nil
}

// ListMine returns the caller's contributions, newest first, with item and
// event display data attached.
func (s *ContributionService) ListMine(ctx context.Context, userID string) ([]models.Contribution, error) {
	contributions, err := s.store.ListContributionsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	return contributions, nil
}

func (s *ContributionService) getItem(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return item, nil
}

// requireParticipant checks that the user takes part in the event the
// item's list belongs to.
func (s *ContributionService) requireParticipant(ctx context.Context, item *models.Item, userID string) error {
	list, err := s.store.GetList(ctx, item.ListID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "list"}
		}
		return fmt.Errorf("failed to load list: %w", err)
	}

	ok, err := s.store.IsEventParticipant(ctx, list.EventID, userID)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if !ok {
		return &AuthorizationError{Reason: "you are not a participant of this event"}
	}
	return nil
}
