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

func scanContribution(row scanner) (*models.Contribution, error) {
	c := &models.Contribution{}
	var totalPrice sql.NullFloat64
	var advancer sql.NullString
	err := row.Scan(&c.ID, &c.ItemID, &c.UserID, &c.Amount, &totalPrice, &c.Type, &c.Note,
		&c.CreatedAt, &c.UpdatedAt, &c.User.ID, &c.User.Name, &c.User.Email, &advancer)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contribution: %w", err)
	}
	c.TotalPrice = totalPrice.Float64
	c.HasAdvanced = advancer.Valid && advancer.String == c.UserID
	return c, nil
}

const contributionColumns = `c.id, c.item_id, c.user_id, c.amount, c.total_price, c.type, c.note,
	c.created_at, c.updated_at, u.id, u.name, u.email, i.advancer_user_id`

// ListContributionsForItem returns the item's contributions in creation
// order with contributor identity.
func (s *SQLiteStore) ListContributionsForItem(ctx context.Context, itemID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contributionColumns+`
		 FROM contributions c
		 JOIN users u ON u.id = c.user_id
		 JOIN items i ON i.id = c.item_id
		 WHERE c.item_id = ?
		 ORDER BY c.created_at, c.id`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	return collectContributions(rows)
}

// ListContributionsForUser returns the user's own contributions, newest
// first, joined with item, list and event display data.
func (s *SQLiteStore) ListContributionsForUser(ctx context.Context, userID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contributionColumns+`, i.title, l.id, l.event_id
		 FROM contributions c
		 JOIN users u ON u.id = c.user_id
		 JOIN items i ON i.id = c.item_id
		 JOIN lists l ON l.id = i.list_id
		 WHERE c.user_id = ?
		 ORDER BY c.created_at DESC, c.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c := models.Contribution{}
		var totalPrice sql.NullFloat64
		var advancer sql.NullString
		err := rows.Scan(&c.ID, &c.ItemID, &c.UserID, &c.Amount, &totalPrice, &c.Type, &c.Note,
			&c.CreatedAt, &c.UpdatedAt, &c.User.ID, &c.User.Name, &c.User.Email, &advancer,
			&c.ItemTitle, &c.ListID, &c.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		c.TotalPrice = totalPrice.Float64
		c.HasAdvanced = advancer.Valid && advancer.String == c.UserID
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}

// ListContributionsForSharedItems returns every contribution on each item
// the user has contributed to, in creation order, with item titles.
func (s *SQLiteStore) ListContributionsForSharedItems(ctx context.Context, userID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contributionColumns+`, i.title
		 FROM contributions c
		 JOIN users u ON u.id = c.user_id
		 JOIN items i ON i.id = c.item_id
		 WHERE c.item_id IN (SELECT item_id FROM contributions WHERE user_id = ?)
		 ORDER BY i.created_at, c.created_at, c.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		c := models.Contribution{}
		var totalPrice sql.NullFloat64
		var advancer sql.NullString
		err := rows.Scan(&c.ID, &c.ItemID, &c.UserID, &c.Amount, &totalPrice, &c.Type, &c.Note,
			&c.CreatedAt, &c.UpdatedAt, &c.User.ID, &c.User.Name, &c.User.Email, &advancer,
			&c.ItemTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		c.TotalPrice = totalPrice.Float64
		c.HasAdvanced = advancer.Valid && advancer.String == c.UserID
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}

func collectContributions(rows *sql.Rows) ([]models.Contribution, error) {
	var contributions []models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}

// UpsertContribution writes the (item, user) contribution inside one
// transaction guarded by the item's contribution revision. The write is
// rejected with storage.ErrStaleRevision if the revision moved since the
// caller's snapshot, and with storage.ErrAdvancerTaken if advance is set
// while another contributor already holds the advancer slot. A write with
// advance unset from the current holder releases the slot.
func (s *SQLiteStore) UpsertContribution(ctx context.Context, c *models.Contribution, expectedRev int64, advance bool) (*models.Contribution, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var rev int64
	var advancer sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT contribution_rev, advancer_user_id FROM items WHERE id = ?",
		c.ItemID,
	).Scan(&rev, &advancer)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read item revision: %w", err)
	}
	if rev != expectedRev {
		return nil, storage.ErrStaleRevision
	}
	if advance && advancer.Valid && advancer.String != c.UserID {
		return nil, storage.ErrAdvancerTaken
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().Unix()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contributions (id, item_id, user_id, amount, total_price, type, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (item_id, user_id) DO UPDATE SET
		   amount = excluded.amount,
		   total_price = excluded.total_price,
		   type = excluded.type,
		   note = excluded.note,
		   updated_at = excluded.updated_at`,
		c.ID, c.ItemID, c.UserID, c.Amount, nullFloat(c.TotalPrice), string(c.Type), c.Note, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert contribution: %w", err)
	}

	if advance {
		if _, err := tx.ExecContext(ctx,
			"UPDATE items SET advancer_user_id = ? WHERE id = ?",
			c.UserID, c.ItemID,
		); err != nil {
			return nil, fmt.Errorf("failed to set advancer: %w", err)
		}
	} else if advancer.Valid && advancer.String == c.UserID {
		// The holder re-submitted without advancing: release the slot.
		if _, err := tx.ExecContext(ctx,
			"UPDATE items SET advancer_user_id = NULL WHERE id = ?",
			c.ItemID,
		); err != nil {
			return nil, fmt.Errorf("failed to clear advancer: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE items SET contribution_rev = contribution_rev + 1, updated_at = ? WHERE id = ?",
		now, c.ItemID,
	); err != nil {
		return nil, fmt.Errorf("failed to bump revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.getContribution(ctx, c.ItemID, c.UserID)
}

func (s *SQLiteStore) getContribution(ctx context.Context, itemID, userID string) (*models.Contribution, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contributionColumns+`
		 FROM contributions c
		 JOIN users u ON u.id = c.user_id
		 JOIN items i ON i.id = c.item_id
		 WHERE c.item_id = ? AND c.user_id = ?`,
		itemID, userID,
	)
	c, err := scanContribution(row)
	if err != nil {
		if errorIsNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// DeleteContribution removes the (item, user) contribution, bumping the
// item's revision. When the withdrawing user held the advancer slot it is
// cleared; previously derived debts are intentionally left in place.
func (s *SQLiteStore) DeleteContribution(ctx context.Context, itemID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM contributions WHERE item_id = ? AND user_id = ?",
		itemID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET
		   advancer_user_id = CASE WHEN advancer_user_id = ? THEN NULL ELSE advancer_user_id END,
		   contribution_rev = contribution_rev + 1,
		   updated_at = ?
		 WHERE id = ?`,
		userID, time.Now().Unix(), itemID,
	); err != nil {
		return fmt.Errorf("failed to bump revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
