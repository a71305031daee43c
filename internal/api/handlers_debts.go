package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lmercier/giftpool/internal/middleware"
)

func (a *API) handleListDebts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	eventID := r.URL.Query().Get("event_id")

	debts, err := a.debts.GetMyDebts(r.Context(), userID, eventID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]debtResponse, len(debts))
	for i := range debts {
		resp[i] = toDebtResponse(&debts[i])
	}
	respondData(w, http.StatusOK, resp)
}

func (a *API) handleSettleDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := a.debts.Settle(r.Context(), mux.Vars(r)["id"], middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toDebtResponse(debt))
}

func (a *API) handleLegacyDebts(w http.ResponseWriter, r *http.Request) {
	summary, err := a.debts.GetLegacyDebts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, toLegacyDebtSummaryResponse(summary))
}
