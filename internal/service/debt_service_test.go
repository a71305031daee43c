package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lmercier/giftpool/internal/models"
)

// advanceAndJoin records Alice advancing the item's 50 with a 20 share and
// Bob contributing 30, leaving one ledger debt of bob -> alice 30.
func advanceAndJoin(t *testing.T, env *testEnv) models.Debt {
	t.Helper()
	env.contribute(t, UpsertContributionInput{
		UserID: env.alice.ID, Type: models.ContributionPartial,
		Amount: floatPtr(20), TotalPrice: floatPtr(50), HasAdvanced: true,
	})
	env.contribute(t, UpsertContributionInput{
		UserID: env.bob.ID, Type: models.ContributionPartial, Amount: floatPtr(30),
	})

	debts, err := env.debts.GetMyDebts(context.Background(), env.bob.ID, "")
	if err != nil {
		t.Fatalf("GetMyDebts: %v", err)
	}
	if len(debts) != 1 {
		t.Fatalf("got %d debts, want 1", len(debts))
	}
	return debts[0]
}

func TestGetMyDebts(t *testing.T) {
	ctx := context.Background()

	t.Run("both parties see the debt", func(t *testing.T) {
		env := newTestEnv(t)
		debt := advanceAndJoin(t, env)

		for _, u := range []*models.User{env.alice, env.bob} {
			debts, err := env.debts.GetMyDebts(ctx, u.ID, "")
			if err != nil {
				t.Fatalf("GetMyDebts for %s: %v", u.Name, err)
			}
			if len(debts) != 1 || debts[0].ID != debt.ID {
				t.Errorf("%s sees %v, want the shared debt", u.Name, debts)
			}
		}

		debts, err := env.debts.GetMyDebts(ctx, env.carol.ID, "")
		if err != nil {
			t.Fatalf("GetMyDebts for carol: %v", err)
		}
		if len(debts) != 0 {
			t.Errorf("carol is not a party but sees %v", debts)
		}
	})

	t.Run("event scoping", func(t *testing.T) {
		env := newTestEnv(t)
		advanceAndJoin(t, env)

		scoped, err := env.debts.GetMyDebts(ctx, env.bob.ID, env.event.ID)
		if err != nil {
			t.Fatalf("GetMyDebts scoped: %v", err)
		}
		if len(scoped) != 1 {
			t.Errorf("got %d debts inside the event, want 1", len(scoped))
		}

		// A different event has no debts for Bob.
		other, err := env.events.Create(ctx, CreateEventInput{Title: "Birthday", CreatorID: env.bob.ID})
		if err != nil {
			t.Fatalf("Create event: %v", err)
		}
		empty, err := env.debts.GetMyDebts(ctx, env.bob.ID, other.ID)
		if err != nil {
			t.Fatalf("GetMyDebts other event: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("got %d debts in an unrelated event, want 0", len(empty))
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.debts.GetMyDebts(ctx, env.bob.ID, "missing")
		var nfErr *NotFoundError
		if !errors.As(err, &nfErr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestSettle(t *testing.T) {
	ctx := context.Background()

	t.Run("either party may settle", func(t *testing.T) {
		env := newTestEnv(t)
		debt := advanceAndJoin(t, env)

		settled, err := env.debts.Settle(ctx, debt.ID, env.alice.ID)
		if err != nil {
			t.Fatalf("Settle: %v", err)
		}
		if !settled.IsSettled || settled.SettledAt == 0 {
			t.Errorf("debt not settled: %+v", settled)
		}
	})

	t.Run("a third party may not settle", func(t *testing.T) {
		env := newTestEnv(t)
		debt := advanceAndJoin(t, env)

		_, err := env.debts.Settle(ctx, debt.ID, env.carol.ID)
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Errorf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("unknown debt", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.debts.Settle(ctx, "missing", env.alice.ID)
		var nfErr *NotFoundError
		if !errors.As(err, &nfErr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("settlement survives later recomputation", func(t *testing.T) {
		env := newTestEnv(t)
		debt := advanceAndJoin(t, env)

		if _, err := env.debts.Settle(ctx, debt.ID, env.bob.ID); err != nil {
			t.Fatalf("Settle: %v", err)
		}

		// Bob changes his share, which re-derives the item's debts. The
		// settled debt must keep its original amount and settlement.
		env.contribute(t, UpsertContributionInput{
			UserID: env.bob.ID, Type: models.ContributionPartial, Amount: floatPtr(25),
		})

		debts, err := env.debts.GetMyDebts(ctx, env.bob.ID, "")
		if err != nil {
			t.Fatalf("GetMyDebts: %v", err)
		}
		if len(debts) != 1 {
			t.Fatalf("got %d debts, want 1", len(debts))
		}
		got := debts[0]
		if !got.IsSettled || math.Abs(got.Amount-30) > 0.01 {
			t.Errorf("settled debt was touched by recomputation: %+v", got)
		}
	})
}

func TestGetLegacyDebts(t *testing.T) {
	ctx := context.Background()

	t.Run("equal split over shared items", func(t *testing.T) {
		env := newTestEnv(t)
		// Alice 40, Bob 10, Carol 10: the per-person share is 20, so Bob
		// and Carol owe each other 10 in the legacy model.
		env.contribute(t, UpsertContributionInput{
			UserID: env.alice.ID, Type: models.ContributionPartial,
			Amount: floatPtr(40), TotalPrice: floatPtr(60),
		})
		env.contribute(t, UpsertContributionInput{
			UserID: env.bob.ID, Type: models.ContributionPartial, Amount: floatPtr(10),
		})
		env.contribute(t, UpsertContributionInput{
			UserID: env.carol.ID, Type: models.ContributionPartial, Amount: floatPtr(10),
		})

		summary, err := env.debts.GetLegacyDebts(ctx, env.bob.ID)
		if err != nil {
			t.Fatalf("GetLegacyDebts: %v", err)
		}
		if summary.ContributorCount != 3 {
			t.Errorf("contributor count = %d, want 3", summary.ContributorCount)
		}
		if len(summary.Debts) != 2 {
			t.Fatalf("got %d legacy debts, want 2", len(summary.Debts))
		}
		for _, d := range summary.Debts {
			if math.Abs(d.Amount-10) > 0.01 {
				t.Errorf("legacy debt %s -> %s = %v, want 10", d.FromUserID, d.ToUserID, d.Amount)
			}
			if len(d.Items) != 1 || d.Items[0].ItemID != env.item.ID {
				t.Errorf("legacy debt not attributed to the item: %+v", d.Items)
			}
		}
	})

	t.Run("legacy view is not the ledger", func(t *testing.T) {
		env := newTestEnv(t)
		advanceAndJoin(t, env)

		// The ledger says bob -> alice 30. The equal-split view over the
		// same data (20 vs 30 against a 25 average) finds no pair of
		// short contributors and proposes nothing.
		summary, err := env.debts.GetLegacyDebts(ctx, env.bob.ID)
		if err != nil {
			t.Fatalf("GetLegacyDebts: %v", err)
		}
		if len(summary.Debts) != 0 {
			t.Errorf("legacy view proposed %v, want none", summary.Debts)
		}
		if summary.ContributorCount != 2 {
			t.Errorf("contributor count = %d, want 2", summary.ContributorCount)
		}
	})

	t.Run("no contributions", func(t *testing.T) {
		env := newTestEnv(t)
		summary, err := env.debts.GetLegacyDebts(ctx, env.carol.ID)
		if err != nil {
			t.Fatalf("GetLegacyDebts: %v", err)
		}
		if len(summary.Debts) != 0 || summary.ContributorCount != 0 {
			t.Errorf("expected an empty summary, got %+v", summary)
		}
	})
}
