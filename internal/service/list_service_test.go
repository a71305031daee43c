package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lmercier/giftpool/internal/models"
)

func newListEnv(t *testing.T) (*testEnv, *ListService) {
	t.Helper()
	env := newTestEnv(t)
	return env, NewListService(env.store)
}

func TestListGetHidesBonusItemsFromOwner(t *testing.T) {
	ctx := context.Background()
	env, lists := newListEnv(t)

	// Bob sneaks a surprise onto Alice's list next to her own item.
	bonus, err := lists.CreateItem(ctx, CreateItemInput{
		ListID: env.item.ListID,
		UserID: env.bob.ID,
		Title:  "Surprise socks",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if !bonus.IsBonus {
		t.Fatal("item added by a non-owner should be a bonus item")
	}

	ownerView, err := lists.Get(ctx, env.item.ListID, env.alice.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	for _, item := range ownerView.Items {
		if item.ID == bonus.ID {
			t.Error("the owner can see the surprise")
		}
	}

	guestView, err := lists.Get(ctx, env.item.ListID, env.bob.ID)
	if err != nil {
		t.Fatalf("Get as guest: %v", err)
	}
	if len(guestView.Items) != len(ownerView.Items)+1 {
		t.Errorf("guest sees %d items, owner %d; want exactly one more",
			len(guestView.Items), len(ownerView.Items))
	}
}

func TestListGetAuthorization(t *testing.T) {
	ctx := context.Background()
	env, lists := newListEnv(t)
	outsider := createServiceUser(t, env.store, "mallory")

	_, err := lists.Get(ctx, env.item.ListID, outsider.ID)
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Errorf("expected AuthorizationError, got %v", err)
	}

	_, err = lists.Get(ctx, "missing", env.alice.ID)
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestCreateItemValidation(t *testing.T) {
	ctx := context.Background()
	env, lists := newListEnv(t)

	_, err := lists.CreateItem(ctx, CreateItemInput{
		ListID: env.item.ListID, UserID: env.alice.ID, Title: "   ",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for an empty title, got %v", err)
	}

	outsider := createServiceUser(t, env.store, "mallory")
	_, err = lists.CreateItem(ctx, CreateItemInput{
		ListID: env.item.ListID, UserID: outsider.ID, Title: "Trojan gift",
	})
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Errorf("expected AuthorizationError for a non-participant, got %v", err)
	}
}

func TestUpdateItemAuthorization(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name    string
		item    func(t *testing.T, env *testEnv, lists *ListService) *models.Item
		editor  func(env *testEnv) string
		allowed bool
	}{
		{
			name: "owner edits own item",
			item: func(t *testing.T, env *testEnv, lists *ListService) *models.Item {
				return env.item
			},
			editor:  func(env *testEnv) string { return env.alice.ID },
			allowed: true,
		},
		{
			name: "guest cannot edit the owner's item",
			item: func(t *testing.T, env *testEnv, lists *ListService) *models.Item {
				return env.item
			},
			editor:  func(env *testEnv) string { return env.bob.ID },
			allowed: false,
		},
		{
			name: "bonus adder edits their bonus item",
			item: func(t *testing.T, env *testEnv, lists *ListService) *models.Item {
				item, err := lists.CreateItem(ctx, CreateItemInput{
					ListID: env.item.ListID, UserID: env.bob.ID, Title: "Surprise",
				})
				if err != nil {
					t.Fatalf("CreateItem: %v", err)
				}
				return item
			},
			editor:  func(env *testEnv) string { return env.bob.ID },
			allowed: true,
		},
		{
			name: "owner cannot edit a bonus item",
			item: func(t *testing.T, env *testEnv, lists *ListService) *models.Item {
				item, err := lists.CreateItem(ctx, CreateItemInput{
					ListID: env.item.ListID, UserID: env.bob.ID, Title: "Surprise",
				})
				if err != nil {
					t.Fatalf("CreateItem: %v", err)
				}
				return item
			},
			editor:  func(env *testEnv) string { return env.alice.ID },
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, lists := newListEnv(t)
			item := tt.item(t, env, lists)

			updated, err := lists.UpdateItem(ctx, UpdateItemInput{
				ItemID: item.ID,
				UserID: tt.editor(env),
				Title:  strPtr("Renamed"),
			})
			if tt.allowed {
				if err != nil {
					t.Fatalf("UpdateItem: %v", err)
				}
				if updated.Title != "Renamed" {
					t.Errorf("title = %q, want Renamed", updated.Title)
				}
				return
			}
			var authErr *AuthorizationError
			if !errors.As(err, &authErr) {
				t.Errorf("expected AuthorizationError, got %v", err)
			}
		})
	}
}

func TestDeleteItemCascades(t *testing.T) {
	ctx := context.Background()
	env, lists := newListEnv(t)

	// Contributions and a derived debt hang off the item.
	env.contribute(t, UpsertContributionInput{
		UserID: env.alice.ID, Type: models.ContributionPartial,
		Amount: floatPtr(20), TotalPrice: floatPtr(50), HasAdvanced: true,
	})
	env.contribute(t, UpsertContributionInput{
		UserID: env.bob.ID, Type: models.ContributionPartial, Amount: floatPtr(30),
	})

	if err := lists.DeleteItem(ctx, env.item.ID, env.alice.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	contributions, err := env.contributions.ListMine(ctx, env.bob.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(contributions) != 0 {
		t.Errorf("contributions survived the item delete: %v", contributions)
	}
	debts, err := env.debts.GetMyDebts(ctx, env.bob.ID, "")
	if err != nil {
		t.Fatalf("GetMyDebts: %v", err)
	}
	if len(debts) != 0 {
		t.Errorf("debts survived the item delete: %v", debts)
	}
}
