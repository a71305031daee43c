package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

const itemColumns = `id, list_id, title, description, url, is_bonus, added_by_user_id,
	advancer_user_id, contribution_rev, created_at, updated_at`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*models.Item, error) {
	item := &models.Item{}
	var advancer sql.NullString
	err := row.Scan(&item.ID, &item.ListID, &item.Title, &item.Description, &item.URL,
		&item.IsBonus, &item.AddedByUserID, &advancer, &item.ContributionRev,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	item.AdvancerUserID = advancer.String
	return item, nil
}

// CreateItem persists a new item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if item.CreatedAt == 0 {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, list_id, title, description, url, is_bonus, added_by_user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ListID, item.Title, item.Description, item.URL,
		item.IsBonus, item.AddedByUserID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by ID, without contributions.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ?", id)

	item, err := scanItem(row)
	if err != nil {
		if errorIsNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateItem updates the item's editable fields (title, description, URL).
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.Item) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE items SET title = ?, description = ?, url = ?, updated_at = ? WHERE id = ?",
		item.Title, item.Description, item.URL, time.Now().Unix(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteItem removes an item; contributions and debts cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func errorIsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
