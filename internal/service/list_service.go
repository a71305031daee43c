package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

// ListService manages wish lists and their items.
type ListService struct {
	store storage.Store
}

// NewListService creates a ListService with the given storage backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// ListMine returns the caller's lists across all their events.
func (s *ListService) ListMine(ctx context.Context, userID string) ([]models.List, error) {
	lists, err := s.store.ListListsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// Get returns a list with its items and contributions. The viewer must be a
// participant of the list's event. The list owner does not see bonus items
// added by others: those are surprises for them.
func (s *ListService) Get(ctx context.Context, listID, viewerID string) (*models.List, error) {
	list, err := s.store.GetListWithItems(ctx, listID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "list"}
		}
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	if err := s.requireParticipant(ctx, list.EventID, viewerID); err != nil {
		return nil, err
	}

	if viewerID == list.UserID {
		visible := list.Items[:0]
		for _, item := range list.Items {
			if !item.IsBonus {
				visible = append(visible, item)
			}
		}
		list.Items = visible
	}
	return list, nil
}

// CreateItemInput is the caller's request to add an item to a list.
type CreateItemInput struct {
	ListID      string
	UserID      string
	Title       string
	Description string
	URL         string
}

// CreateItem adds an item to a list. The list owner adds regular items;
// any other participant of the event adds a bonus item, which stays hidden
// from the owner.
func (s *ListService) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &ValidationError{Reason: "the item title is required"}
	}

	list, err := s.store.GetList(ctx, input.ListID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "list"}
		}
		return nil, fmt.Errorf("failed to load list: %w", err)
	}

	isBonus := list.UserID != input.UserID
	if isBonus {
		if err := s.requireParticipant(ctx, list.EventID, input.UserID); err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		ListID:        input.ListID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		URL:           strings.TrimSpace(input.URL),
		IsBonus:       isBonus,
		AddedByUserID: input.UserID,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	slog.Info("Item created",
		"item_id", item.ID,
		"list_id", item.ListID,
		"added_by", input.UserID,
		"is_bonus", isBonus,
	)
	return item, nil
}

// UpdateItemInput is the caller's request to edit an item.
type UpdateItemInput struct {
	ItemID      string
	UserID      string
	Title       *string
	Description *string
	URL         *string
}

// UpdateItem edits an item's title, description or URL. Allowed for the
// list owner and, for bonus items, the participant who added them.
func (s *ListService) UpdateItem(ctx context.Context, input UpdateItemInput) (*models.Item, error) {
	item, list, err := s.getItemWithList(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := authorizeItemEdit(item, list, input.UserID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, &ValidationError{Reason: "the item title is required"}
		}
		item.Title = title
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.URL != nil {
		item.URL = strings.TrimSpace(*input.URL)
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "item"}
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item with the same authorization rules as
// UpdateItem. Contributions and debts on the item are removed with it.
func (s *ListService) DeleteItem(ctx context.Context, itemID, userID string) error {
	item, list, err := s.getItemWithList(ctx, itemID)
	if err != nil {
		return err
	}
	if err := authorizeItemEdit(item, list, userID); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &NotFoundError{Resource: "item"}
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	slog.Info("Item deleted", "item_id", itemID, "user_id", userID)
	return nil
}

func (s *ListService) getItemWithList(ctx context.Context, itemID string) (*models.Item, *models.List, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "item"}
		}
		return nil, nil, fmt.Errorf("failed to load item: %w", err)
	}

	list, err := s.store.GetList(ctx, item.ListID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, &NotFoundError{Resource: "list"}
		}
		return nil, nil, fmt.Errorf("failed to load list: %w", err)
	}
	return item, list, nil
}

func authorizeItemEdit(item *models.Item, list *models.List, userID string) error {
	if list.UserID == userID && !item.IsBonus {
		return nil
	}
	if item.IsBonus && item.AddedByUserID == userID {
		return nil
	}
	return &AuthorizationError{Reason: "you do not have access to this item"}
}

func (s *ListService) requireParticipant(ctx context.Context, eventID, userID string) error {
	ok, err := s.store.IsEventParticipant(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if !ok {
		return &AuthorizationError{Reason: "you are not a participant of this event"}
	}
	return nil
}
