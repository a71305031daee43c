package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

// CreateList persists a new list.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists (id, event_id, user_id, title, description, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		list.ID, list.EventID, list.UserID, list.Title, list.Description, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID, without items.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.List, error) {
	list := &models.List{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, event_id, user_id, title, description, created_at FROM lists WHERE id = ?",
		id,
	).Scan(&list.ID, &list.EventID, &list.UserID, &list.Title, &list.Description, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// GetListWithItems retrieves a list with its owner identity, items and each
// item's contributions.
func (s *SQLiteStore) GetListWithItems(ctx context.Context, id string) (*models.List, error) {
	list := &models.List{}
	err := s.db.QueryRowContext(ctx,
		`SELECT l.id, l.event_id, l.user_id, l.title, l.description, l.created_at,
		        u.id, u.name, u.email
		 FROM lists l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.id = ?`,
		id,
	).Scan(&list.ID, &list.EventID, &list.UserID, &list.Title, &list.Description, &list.CreatedAt,
		&list.Owner.ID, &list.Owner.Name, &list.Owner.Email)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT id, list_id, title, description, url, is_bonus, added_by_user_id,
		        advancer_user_id, contribution_rev, created_at, updated_at
		 FROM items WHERE list_id = ? ORDER BY created_at`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanItem(itemRows)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, *item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range list.Items {
		contributions, err := s.ListContributionsForItem(ctx, list.Items[i].ID)
		if err != nil {
			return nil, err
		}
		list.Items[i].Contributions = contributions
	}

	return list, nil
}

// ListListsForUser returns the user's lists across all events.
func (s *SQLiteStore) ListListsForUser(ctx context.Context, userID string) ([]models.List, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, user_id, title, description, created_at
		 FROM lists WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.EventID, &l.UserID, &l.Title, &l.Description, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}
