package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lmercier/giftpool/internal/auth"
	"github.com/lmercier/giftpool/internal/middleware"
	"github.com/lmercier/giftpool/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.authn.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrMissingEmail):
			respondFail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailExists):
			respondFail(w, http.StatusConflict, err.Error())
		default:
			slog.Error("Registration failed", "error", err)
			respondFail(w, http.StatusInternalServerError, "an internal error occurred")
		}
		return
	}

	a.respondSession(w, user, http.StatusCreated)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondFail(w, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("Login failed", "error", err)
		respondFail(w, http.StatusInternalServerError, "an internal error occurred")
		return
	}

	a.respondSession(w, user, http.StatusOK)
}

func (a *API) respondSession(w http.ResponseWriter, user *models.User, status int) {
	token, err := a.jwt.Generate(user)
	if err != nil {
		slog.Error("Token generation failed", "error", err)
		respondFail(w, http.StatusInternalServerError, "an internal error occurred")
		return
	}
	respondData(w, status, sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := a.store.GetUserByID(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load current user", "user_id", userID, "error", err)
		respondFail(w, http.StatusInternalServerError, "an internal error occurred")
		return
	}
	respondData(w, http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}
