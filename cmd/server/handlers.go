package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"country-insights/internal/observability"
	"country-insights/internal/refresh"
	"country-insights/internal/source"
	"country-insights/internal/storage"
)

// api serves the country endpoints over the store and orchestrator.
type api struct {
	store        storage.CountryStore
	orchestrator *refresh.Orchestrator
	reportPath   string
	logger       *log.Logger
}

// apiError is the JSON error envelope.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusResponse is the JSON response for /status.
type statusResponse struct {
	TotalCountries  int64   `json:"total_countries"`
	LastRefreshedAt *string `json:"last_refreshed_at"`
}

func (a *api) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /countries/refresh", a.handleRefresh)
	mux.HandleFunc("GET /countries", a.handleList)
	mux.HandleFunc("GET /countries/image", a.handleImage)
	mux.HandleFunc("GET /countries/{name}", a.handleGet)
	mux.HandleFunc("DELETE /countries/{name}", a.handleDelete)
	mux.HandleFunc("GET /status", a.handleStatus)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())

	return mux
}

// handleRefresh prechecks both sources and dispatches the refresh. Only a
// precheck failure is visible here; the detached phase reports through
// logs and metrics.
func (a *api) handleRefresh(w http.ResponseWriter, r *http.Request) {
	_, err := a.orchestrator.Trigger(r.Context())
	if err != nil {
		var unavailable *source.SourceUnavailableError
		if errors.As(err, &unavailable) {
			a.logger.Printf("refresh rejected: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, apiError{
				Error:   "External data source unavailable",
				Details: "Could not fetch data from " + unavailable.Source + " API",
			})
			return
		}
		a.logger.Printf("refresh dispatch failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Refresh started in background"})
}

func (a *api) handleList(w http.ResponseWriter, r *http.Request) {
	opts := storage.FilterOptions{
		Region:   r.URL.Query().Get("region"),
		Currency: r.URL.Query().Get("currency"),
		Sort:     r.URL.Query().Get("sort"),
	}

	countries, err := a.store.Filter(r.Context(), opts)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid sort parameter"})
			return
		}
		a.logger.Printf("Failed to fetch countries: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toJSONCountries(countries))
}

func (a *api) handleGet(w http.ResponseWriter, r *http.Request) {
	country, err := a.store.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, apiError{Error: "Country not found"})
			return
		}
		a.logger.Printf("Failed to fetch country: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toJSONCountry(country))
}

func (a *api) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.store.DeleteByName(r.Context(), r.PathValue("name"))
	if err != nil {
		a.logger.Printf("Failed to delete country: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, apiError{Error: "Country not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := a.store.Count(r.Context())
	if err != nil {
		a.logger.Printf("Failed to count countries: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}

	resp := statusResponse{TotalCountries: count}
	if ts, err := a.store.LastRefreshTime(r.Context()); err == nil && ts != nil {
		formatted := ts.UTC().Format(timestampLayout)
		resp.LastRefreshedAt = &formatted
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleImage serves the summary artifact. Absence means "not yet
// generated", not an error; the file may also be mid-overwrite by a
// concurrent refresh, which is an accepted risk of the plain write.
func (a *api) handleImage(w http.ResponseWriter, r *http.Request) {
	contents, err := os.ReadFile(a.reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, apiError{Error: "Summary image not found"})
			return
		}
		a.logger.Printf("Failed to read image: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Failed to serve image"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(contents)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
