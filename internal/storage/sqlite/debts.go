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

const debtColumns = `d.id, d.item_id, d.from_user_id, d.to_user_id, d.amount,
	d.is_settled, d.settled_at, d.created_at,
	fu.id, fu.name, fu.email, tu.id, tu.name, tu.email, i.title`

func scanDebt(row scanner) (*models.Debt, error) {
	d := &models.Debt{}
	var settledAt sql.NullInt64
	err := row.Scan(&d.ID, &d.ItemID, &d.FromUserID, &d.ToUserID, &d.Amount,
		&d.IsSettled, &settledAt, &d.CreatedAt,
		&d.FromUser.ID, &d.FromUser.Name, &d.FromUser.Email,
		&d.ToUser.ID, &d.ToUser.Name, &d.ToUser.Email, &d.ItemTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to scan debt: %w", err)
	}
	d.SettledAt = settledAt.Int64
	return d, nil
}

// GetDebt retrieves a debt by ID with both parties' identity.
func (s *SQLiteStore) GetDebt(ctx context.Context, id string) (*models.Debt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+`
		 FROM debts d
		 JOIN users fu ON fu.id = d.from_user_id
		 JOIN users tu ON tu.id = d.to_user_id
		 JOIN items i ON i.id = d.item_id
		 WHERE d.id = ?`,
		id,
	)
	d, err := scanDebt(row)
	if err != nil {
		if errorIsNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListDebtsForUser returns debts where the user is either party, newest
// first. A non-empty eventID restricts results to debts whose item's list
// belongs to that event.
func (s *SQLiteStore) ListDebtsForUser(ctx context.Context, userID, eventID string) ([]models.Debt, error) {
	query := `SELECT ` + debtColumns + `
		 FROM debts d
		 JOIN users fu ON fu.id = d.from_user_id
		 JOIN users tu ON tu.id = d.to_user_id
		 JOIN items i ON i.id = d.item_id
		 JOIN lists l ON l.id = i.list_id
		 WHERE (d.from_user_id = ? OR d.to_user_id = ?)`
	args := []any{userID, userID}
	if eventID != "" {
		query += " AND l.event_id = ?"
		args = append(args, eventID)
	}
	query += " ORDER BY d.created_at DESC, d.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// SettleDebt marks the debt settled. Settlement is one-way; settling an
// already settled debt keeps the original settlement time.
func (s *SQLiteStore) SettleDebt(ctx context.Context, id string, settledAt int64) (*models.Debt, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET is_settled = 1, settled_at = ? WHERE id = ? AND is_settled = 0",
		settledAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle debt: %w", err)
	}
	if _, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to check settle: %w", err)
	}
	return s.GetDebt(ctx, id)
}

// ReconcileItemDebts replaces the item's debts with desired inside one
// transaction, as a diff:
//
//   - settled debts are never touched
//   - an unsettled debt matching a desired (from, to) pair has its amount
//     updated in place
//   - unsettled debts with no matching pair are removed
//   - remaining desired pairs are inserted as new unsettled debts
//
// A desired pair whose debt is already settled is skipped entirely, so
// settlement history survives recomputation.
func (s *SQLiteStore) ReconcileItemDebts(ctx context.Context, itemID string, desired []models.Debt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id, from_user_id, to_user_id, is_settled FROM debts WHERE item_id = ?",
		itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to load debts: %w", err)
	}

	type existingDebt struct {
		id      string
		settled bool
	}
	existing := make(map[string]existingDebt)
	for rows.Next() {
		var id, from, to string
		var settled bool
		if err := rows.Scan(&id, &from, &to, &settled); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan debt: %w", err)
		}
		existing[from+"->"+to] = existingDebt{id: id, settled: settled}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate debts: %w", err)
	}

	now := time.Now().Unix()
	kept := make(map[string]bool)
	for _, d := range desired {
		key := d.FromUserID + "->" + d.ToUserID
		if prev, ok := existing[key]; ok {
			kept[key] = true
			if prev.settled {
				continue // settlement history is preserved
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE debts SET amount = ? WHERE id = ?",
				d.Amount, prev.id,
			); err != nil {
				return fmt.Errorf("failed to update debt: %w", err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO debts (id, item_id, from_user_id, to_user_id, amount, is_settled, created_at)
			 VALUES (?, ?, ?, ?, ?, 0, ?)`,
			uuid.New().String(), itemID, d.FromUserID, d.ToUserID, d.Amount, now,
		); err != nil {
			return fmt.Errorf("failed to insert debt: %w", err)
		}
	}

	for key, prev := range existing {
		if kept[key] || prev.settled {
			continue
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", prev.id); err != nil {
			return fmt.Errorf("failed to delete debt: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
