package httpapi

import (
	"net/http"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/table", handler.GetTable)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetLeaderboard)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{userID}/insights", handler.GetUserInsights)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
	mux.HandleFunc("PUT /v1/users/{userID}/predictions", handler.SubmitUserPredictions)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/sync/table", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunTableSync)))
	mux.Handle("POST /v1/internal/sync/matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMatchSync)))
}
