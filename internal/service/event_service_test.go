package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("creator joins and gets a personal list", func(t *testing.T) {
		env := newTestEnv(t)
		event, err := env.events.Create(ctx, CreateEventInput{Title: "  Birthday  ", CreatorID: env.bob.ID})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if event.Title != "Birthday" {
			t.Errorf("title = %q, want trimmed Birthday", event.Title)
		}
		if !event.IsCreator {
			t.Error("expected IsCreator on the returned event")
		}
		if event.InvitationCode == "" {
			t.Error("expected a generated invitation code")
		}

		detail, err := env.events.Get(ctx, event.ID, env.bob.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(detail.Participants) != 1 || detail.Participants[0].UserID != env.bob.ID {
			t.Errorf("participants = %+v, want only bob", detail.Participants)
		}

		lists, err := env.store.ListListsForUser(ctx, env.bob.ID)
		if err != nil {
			t.Fatalf("ListListsForUser: %v", err)
		}
		var found bool
		for _, l := range lists {
			if l.EventID == event.ID {
				found = true
			}
		}
		if !found {
			t.Error("creator has no personal list in the new event")
		}
	})

	t.Run("empty title", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.events.Create(ctx, CreateEventInput{Title: "   ", CreatorID: env.bob.ID})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
}

func TestJoinEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("code is case insensitive", func(t *testing.T) {
		env := newTestEnv(t)
		dave := createServiceUser(t, env.store, "dave")

		joined, err := env.events.Join(ctx, " "+strings.ToLower(env.event.InvitationCode)+" ", dave.ID)
		if err != nil {
			t.Fatalf("Join: %v", err)
		}
		if joined.ID != env.event.ID {
			t.Errorf("joined event %s, want %s", joined.ID, env.event.ID)
		}

		lists, err := env.store.ListListsForUser(ctx, dave.ID)
		if err != nil || len(lists) != 1 {
			t.Fatalf("expected one personal list for dave, got %v (%v)", lists, err)
		}
	})

	t.Run("joining twice keeps one list", func(t *testing.T) {
		env := newTestEnv(t)
		// Bob joined during setup; a second join is a no-op.
		if _, err := env.events.Join(ctx, env.event.InvitationCode, env.bob.ID); err != nil {
			t.Fatalf("re-join: %v", err)
		}
		lists, err := env.store.ListListsForUser(ctx, env.bob.ID)
		if err != nil {
			t.Fatalf("ListListsForUser: %v", err)
		}
		if len(lists) != 1 {
			t.Errorf("got %d lists, want 1", len(lists))
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.events.Join(ctx, "NOPE1234", env.bob.ID)
		var nfErr *NotFoundError
		if !errors.As(err, &nfErr) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestGetEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("non-participant is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		outsider := createServiceUser(t, env.store, "mallory")

		_, err := env.events.Get(ctx, env.event.ID, outsider.ID)
		var authErr *AuthorizationError
		if !errors.As(err, &authErr) {
			t.Errorf("expected AuthorizationError, got %v", err)
		}
	})

	t.Run("roster and creator flag", func(t *testing.T) {
		env := newTestEnv(t)
		detail, err := env.events.Get(ctx, env.event.ID, env.bob.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if detail.Event.IsCreator {
			t.Error("bob is not the creator")
		}
		if len(detail.Participants) != 3 {
			t.Errorf("got %d participants, want 3", len(detail.Participants))
		}
	})
}
