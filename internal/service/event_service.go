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

// defaultListTitle names the personal list created for every participant.
const defaultListTitle = "My list"

// EventService manages events, participation and the personal list each
// participant owns inside an event.
type EventService struct {
	store storage.Store
}

// NewEventService creates an EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// CreateEventInput is the caller's request to create an event.
type CreateEventInput struct {
	Title       string
	Description string
	CreatorID   string
}

// Create creates an event, joins the creator as its first participant and
// creates their personal list.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, &ValidationError{Reason: "the event title is required"}
	}

	event := &models.Event{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CreatorID:   input.CreatorID,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.store.AddEventParticipant(ctx, event.ID, input.CreatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator as participant: %w", err)
	}

	list := &models.List{
		EventID: event.ID,
		UserID:  input.CreatorID,
		Title:   defaultListTitle,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create creator list: %w", err)
	}

	event.IsCreator = true
	slog.Info("Event created", "event_id", event.ID, "creator_id", input.CreatorID)
	return event, nil
}

// Join adds the user to the event matching the invitation code and creates
// their personal list. Joining an event the user already participates in
// just returns the event.
func (s *EventService) Join(ctx context.Context, invitationCode, userID string) (*models.Event, error) {
	code := strings.TrimSpace(strings.ToUpper(invitationCode))
	if code == "" {
		return nil, &ValidationError{Reason: "the invitation code is required"}
	}

	event, err := s.store.GetEventByInvitationCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "event"}
		}
		return nil, fmt.Errorf("failed to look up invitation code: %w", err)
	}

	already, err := s.store.IsEventParticipant(ctx, event.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}
	if already {
		event.IsCreator = event.CreatorID == userID
		return event, nil
	}

	if err := s.store.AddEventParticipant(ctx, event.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	list := &models.List{
		EventID: event.ID,
		UserID:  userID,
		Title:   defaultListTitle,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create participant list: %w", err)
	}

	slog.Info("Event joined", "event_id", event.ID, "user_id", userID)
	return event, nil
}

// ListForUser returns the events the user created or joined, newest first.
func (s *EventService) ListForUser(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.store.ListEventsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// EventDetail is an event with its participant roster.
type EventDetail struct {
	Event        *models.Event
	Participants []models.EventParticipant
}

// Get returns the event with its participants. The caller must be a
// participant.
func (s *EventService) Get(ctx context.Context, eventID, userID string) (*EventDetail, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &NotFoundError{Resource: "event"}
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	ok, err := s.store.IsEventParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check participant: %w", err)
	}
	if !ok {
		return nil, &AuthorizationError{Reason: "you are not a participant of this event"}
	}

	participants, err := s.store.ListEventParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	event.IsCreator = event.CreatorID == userID
	return &EventDetail{Event: event, Participants: participants}, nil
}
