package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lmercier/giftpool/internal/calculator"
	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

// DebtService owns the debt ledger: it derives reimbursement debts from
// advanced contributions, answers ledger queries, settles debts, and serves
// the legacy equal-split display aggregation.
//
// Two derivation models coexist on purpose. The ledger persists what the
// advancer-reimbursement strategy produces; the equal-split strategy is
// computed on demand for display and never stored. They disagree for the
// same data and are tested independently.
type DebtService struct {
	store   storage.Store
	ledger  calculator.DebtStrategy
	display calculator.DebtStrategy
}

// NewDebtService creates a DebtService with the given storage backend.
func NewDebtService(store storage.Store) *DebtService {
	return &DebtService{
		store:   store,
		ledger:  calculator.AdvancerReimbursementStrategy{},
		display: calculator.EqualSplitStrategy{},
	}
}

// RecomputeItem re-derives the item's persisted debts from its current
// contributions. Without an advancer the ledger is left untouched: no
// advanced money means no reimbursements are implied, and previously
// derived debts stay as they are.
func (s *DebtService) RecomputeItem(ctx context.Context, itemID string) error {
	contributions, err := s.store.ListContributionsForItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to load contributions: %w", err)
	}

	hasAdvancer := false
	for _, c := range contributions {
		if c.HasAdvanced {
			hasAdvancer = true
			break
		}
	}
	if !hasAdvancer {
		return nil
	}

	proposed := s.ledger.Derive(toShares(contributions))

	desired := make([]models.Debt, len(proposed))
	for i, p := range proposed {
		desired[i] = models.Debt{
			ItemID:     itemID,
			FromUserID: p.FromUserID,
			ToUserID:   p.ToUserID,
			Amount:     p.Amount,
		}
	}

	if err := s.store.ReconcileItemDebts(ctx, itemID, desired); err != nil {
		return fmt.Errorf("failed to reconcile debts: %w", err)
	}

	slog.Info("Debts recomputed",
		"item_id", itemID,
		"strategy", s.ledger.Name(),
		"debt_count", len(desired),
	)
	return nil
}

// GetMyDebts returns every debt where the user is either party, newest
// first. A non-empty eventID restricts results to debts whose item belongs
// to a list under that event.
func (s *DebtService) GetMyDebts(ctx context.Context, userID, eventID string) ([]models.Debt, error) {
	if eventID != "" {
		if _, err := s.store.GetEvent(ctx, eventID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, &NotFoundError{Resource: "event"}
			}
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
	}

	debts, err := s.store.ListDebtsForUser(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, nil
}

// Settle marks a debt as settled. Only a party to the debt may settle it;
// settlement is terminal.
func (s *DebtService) Settle(ctx context.Context, debtID, userID string) (*models.Debt, error) {
	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "debt"}
		}
		return nil, fmt.Errorf("failed to load debt: %w", err)
	}

	if debt.FromUserID != userID && debt.ToUserID != userID {
		return nil, &AuthorizationError{Reason: "you are not a party to this debt"}
	}

	settled, err := s.store.SettleDebt(ctx, debtID, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to settle debt: %w", err)
	}

	slog.Info("Debt settled", "debt_id", debtID, "user_id", userID)
	return settled, nil
}

// LegacyDebtSummary is the equal-split display aggregation over the shared
// items the user takes part in.
type LegacyDebtSummary struct {
	Debts            []calculator.ProposedDebt
	ContributorCount int
}

// GetLegacyDebts computes the legacy equal-split view across every item the
// user has contributed to. The result is display-only and is not persisted;
// it can disagree with the ledger for the same items.
func (s *DebtService) GetLegacyDebts(ctx context.Context, userID string) (*LegacyDebtSummary, error) {
	contributions, err := s.store.ListContributionsForSharedItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}

	shares := toShares(contributions)
	debts := s.display.Derive(shares)

	contributors := make(map[string]bool)
	for _, share := range shares {
		contributors[share.UserID] = true
	}

	slog.Debug("Legacy debts computed",
		"user_id", userID,
		"strategy", s.display.Name(),
		"debt_count", len(debts),
	)
	return &LegacyDebtSummary{Debts: debts, ContributorCount: len(contributors)}, nil
}

func toShares(contributions []models.Contribution) []calculator.ContributionShare {
	shares := make([]calculator.ContributionShare, len(contributions))
	for i, c := range contributions {
		shares[i] = calculator.ContributionShare{
			UserID:      c.UserID,
			UserName:    c.User.Name,
			Amount:      c.Amount,
			ItemID:      c.ItemID,
			ItemTitle:   c.ItemTitle,
			HasAdvanced: c.HasAdvanced,
		}
	}
	return shares
}
