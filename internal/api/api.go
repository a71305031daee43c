// Package api exposes the HTTP surface of the gift-pool backend.
//
// Every response uses the uniform envelope
//
//	{"success": true, "data": ...}
//	{"success": false, "error": "..."}
//
// and no handler lets an error escape: service failures are translated at
// this boundary, unexpected ones are logged and surfaced generically.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/lmercier/giftpool/internal/auth"
	"github.com/lmercier/giftpool/internal/middleware"
	"github.com/lmercier/giftpool/internal/service"
	"github.com/lmercier/giftpool/internal/storage"
)

// API wires the routers, services and middleware together.
type API struct {
	router        *mux.Router
	store         storage.Store
	authn         auth.Authenticator
	jwt           *auth.JWTManager
	events        *service.EventService
	lists         *service.ListService
	contributions *service.ContributionService
	debts         *service.DebtService
	corsOrigins   []string
}

// New creates the API with all services bound to the given store.
func New(store storage.Store, jwtManager *auth.JWTManager, corsOrigins []string) *API {
	debts := service.NewDebtService(store)
	a := &API{
		router:        mux.NewRouter(),
		store:         store,
		authn:         auth.NewPasswordAuthenticator(store),
		jwt:           jwtManager,
		events:        service.NewEventService(store),
		lists:         service.NewListService(store),
		contributions: service.NewContributionService(store, debts),
		debts:         debts,
		corsOrigins:   corsOrigins,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(middleware.Metrics)

	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public endpoints. Registered before the protected subrouter so the
	// /api/auth prefix wins the match.
	public := a.router.PathPrefix("/api/auth").Subrouter()
	public.Use(middleware.Logging)
	public.HandleFunc("/register", a.handleRegister).Methods("POST")
	public.HandleFunc("/login", a.handleLogin).Methods("POST")

	// Protected endpoints. Authentication runs first so the access log
	// carries the user ID.
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authenticate, middleware.Logging)

	protected.HandleFunc("/me", a.handleMe).Methods("GET")

	protected.HandleFunc("/events", a.handleListEvents).Methods("GET")
	protected.HandleFunc("/events", a.handleCreateEvent).Methods("POST")
	protected.HandleFunc("/events/join", a.handleJoinEvent).Methods("POST")
	protected.HandleFunc("/events/{id}", a.handleGetEvent).Methods("GET")

	protected.HandleFunc("/lists", a.handleListLists).Methods("GET")
	protected.HandleFunc("/lists/{id}", a.handleGetList).Methods("GET")
	protected.HandleFunc("/lists/{id}/items", a.handleCreateItem).Methods("POST")

	protected.HandleFunc("/items/{id}", a.handleUpdateItem).Methods("PUT")
	protected.HandleFunc("/items/{id}", a.handleDeleteItem).Methods("DELETE")
	protected.HandleFunc("/items/{id}/contribution", a.handleUpsertContribution).Methods("PUT")
	protected.HandleFunc("/items/{id}/contribution", a.handleWithdrawContribution).Methods("DELETE")

	protected.HandleFunc("/contributions", a.handleListContributions).Methods("GET")
	protected.HandleFunc("/contributions/debts", a.handleLegacyDebts).Methods("GET")

	protected.HandleFunc("/debts", a.handleListDebts).Methods("GET")
	protected.HandleFunc("/debts/{id}/settle", a.handleSettleDebt).Methods("POST")
}

// Handler returns the fully wrapped HTTP handler.
func (a *API) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: a.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(a.router)
}

func (a *API) authenticate(next http.Handler) http.Handler {
	return middleware.Authenticate(a.jwt, func(w http.ResponseWriter, err error) {
		respondFail(w, http.StatusUnauthorized, "authentication required")
	})(next)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
