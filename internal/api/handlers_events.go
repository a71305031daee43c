package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lmercier/giftpool/internal/middleware"
	"github.com/lmercier/giftpool/internal/service"
)

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	event, err := a.events.Create(r.Context(), service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   middleware.GetUserID(r.Context()),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, toEventResponse(event))
}

type joinEventRequest struct {
	InvitationCode string `json:"invitation_code"`
}

func (a *API) handleJoinEvent(w http.ResponseWriter, r *http.Request) {
	var req joinEventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	event, err := a.events.Join(r.Context(), req.InvitationCode, middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toEventResponse(event))
}

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]eventResponse, len(events))
	for i := range events {
		resp[i] = toEventResponse(&events[i])
	}
	respondData(w, http.StatusOK, resp)
}

func (a *API) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	detail, err := a.events.Get(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toEventDetailResponse(detail))
}
