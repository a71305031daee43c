package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/storage"
)

// invitationCodeAlphabet avoids ambiguous characters (0/O, 1/I).
const invitationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const invitationCodeLength = 8

// newInvitationCode generates a short shareable join code.
func newInvitationCode() (string, error) {
	b := make([]byte, invitationCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i := range b {
		b[i] = invitationCodeAlphabet[int(b[i])%len(invitationCodeAlphabet)]
	}
	return string(b), nil
}

// CreateEvent persists a new event, generating its ID and invitation code.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	if event.InvitationCode == "" {
		code, err := newInvitationCode()
		if err != nil {
			return err
		}
		event.InvitationCode = code
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, invitation_code, creator_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Title, event.Description, event.InvitationCode, event.CreatorID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.getEvent(ctx, "id = ?", id)
}

// GetEventByInvitationCode retrieves an event by its invitation code.
func (s *SQLiteStore) GetEventByInvitationCode(ctx context.Context, code string) (*models.Event, error) {
	return s.getEvent(ctx, "invitation_code = ?", code)
}

func (s *SQLiteStore) getEvent(ctx context.Context, where string, arg any) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, invitation_code, creator_id, created_at FROM events WHERE "+where,
		arg,
	).Scan(&event.ID, &event.Title, &event.Description, &event.InvitationCode, &event.CreatorID, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListEventsForUser returns events the user created or joined, newest first.
func (s *SQLiteStore) ListEventsForUser(ctx context.Context, userID string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, invitation_code, creator_id, created_at
		 FROM events
		 WHERE creator_id = ?
		    OR id IN (SELECT event_id FROM event_participants WHERE user_id = ?)
		 ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.InvitationCode, &e.CreatorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.IsCreator = e.CreatorID == userID
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// AddEventParticipant records that a user joined an event. Adding an
// existing participant is a no-op.
func (s *SQLiteStore) AddEventParticipant(ctx context.Context, eventID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_participants (event_id, user_id, joined_at) VALUES (?, ?, ?)
		 ON CONFLICT (event_id, user_id) DO NOTHING`,
		eventID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// IsEventParticipant reports whether the user has joined the event.
func (s *SQLiteStore) IsEventParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM event_participants WHERE event_id = ? AND user_id = ?",
		eventID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return true, nil
}

// ListEventParticipants returns the event's participants with identity, in
// join order.
func (s *SQLiteStore) ListEventParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.event_id, p.user_id, p.joined_at, u.id, u.name, u.email
		 FROM event_participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.event_id = ?
		 ORDER BY p.joined_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.EventParticipant
	for rows.Next() {
		var p models.EventParticipant
		if err := rows.Scan(&p.EventID, &p.UserID, &p.JoinedAt, &p.User.ID, &p.User.Name, &p.User.Email); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}
