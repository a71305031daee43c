package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lmercier/giftpool/internal/middleware"
	"github.com/lmercier/giftpool/internal/service"
)

func (a *API) handleListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := a.lists.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]listResponse, len(lists))
	for i := range lists {
		resp[i] = toListResponse(&lists[i])
	}
	respondData(w, http.StatusOK, resp)
}

func (a *API) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := a.lists.Get(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toListResponse(list))
}

type createItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

func (a *API) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, err := a.lists.CreateItem(r.Context(), service.CreateItemInput{
		ListID:      mux.Vars(r)["id"],
		UserID:      middleware.GetUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, toItemResponse(item))
}

type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	item, err := a.lists.UpdateItem(r.Context(), service.UpdateItemInput{
		ItemID:      mux.Vars(r)["id"],
		UserID:      middleware.GetUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toItemResponse(item))
}

func (a *API) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	err := a.lists.DeleteItem(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
