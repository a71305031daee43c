package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lmercier/giftpool/internal/middleware"
	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/service"
)

type upsertContributionRequest struct {
	// Amount and TotalPrice are pointers so that "omitted" and zero can
	// be told apart: an omitted PARTIAL amount means "cover the rest".
	Amount      *float64 `json:"amount"`
	TotalPrice  *float64 `json:"total_price"`
	Type        string   `json:"type"`
	Note        string   `json:"note"`
	HasAdvanced bool     `json:"has_advanced"`
}

func (a *API) handleUpsertContribution(w http.ResponseWriter, r *http.Request) {
	var req upsertContributionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	contribution, err := a.contributions.Upsert(r.Context(), service.UpsertContributionInput{
		ItemID:      mux.Vars(r)["id"],
		UserID:      middleware.GetUserID(r.Context()),
		Amount:      req.Amount,
		TotalPrice:  req.TotalPrice,
		Type:        models.ContributionType(req.Type),
		Note:        req.Note,
		HasAdvanced: req.HasAdvanced,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toContributionResponse(contribution))
}

func (a *API) handleWithdrawContribution(w http.ResponseWriter, r *http.Request) {
	err := a.contributions.Withdraw(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (a *API) handleListContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := a.contributions.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toContributionResponses(contributions))
}
