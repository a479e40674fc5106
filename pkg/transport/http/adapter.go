package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/machine"
	"github.com/rhuss/kaffee/pkg/observability"
	"github.com/rhuss/kaffee/pkg/transport"
)

// Adapter serves the coffee machine API over HTTP.
// It routes requests to the machine engine and serializes responses.
type Adapter struct {
	machine transport.Machine
	mux     *http.ServeMux
	config  Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter dispatching to the given Machine.
func NewAdapter(m transport.Machine, cfg Config) *Adapter {
	a := &Adapter{
		machine: m,
		mux:     http.NewServeMux(),
		config:  cfg,
	}

	a.mux.HandleFunc("GET /{$}", a.handleStatus)
	a.mux.HandleFunc("GET /status", a.handleStatus)
	a.mux.HandleFunc("POST /coffee/{recipe}", a.handleBrew)
	a.mux.HandleFunc("POST /containers/{container}/fill", a.handleFill)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to
// integrate with an http.Server or test with httptest. Cross-cutting
// middleware is applied by the Server, not here.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleStatus handles GET / and GET /status.
func (a *Adapter) handleStatus(w http.ResponseWriter, r *http.Request) {
	state, err := a.machine.Status(r.Context())
	if err != nil {
		transport.WriteAPIError(w, apiErrorFrom(err))
		return
	}

	observability.SetContainerLevels(state.Water.Level, state.Coffee.Level)
	writeJSON(w, http.StatusOK, api.StatusResponse{Status: *state})
}

// handleBrew handles POST /coffee/{recipe}.
func (a *Adapter) handleBrew(w http.ResponseWriter, r *http.Request) {
	recipe := r.PathValue("recipe")

	state, used, err := a.machine.Brew(r.Context(), recipe)
	if err != nil {
		label := recipe
		var unknownErr *machine.UnknownRecipeError
		if errors.As(err, &unknownErr) {
			// Unvalidated names stay out of the metric labels.
			label = "unknown"
		}
		observability.BrewsTotal.WithLabelValues(label, "error").Inc()
		transport.WriteAPIError(w, apiErrorFrom(err))
		return
	}

	observability.BrewsTotal.WithLabelValues(recipe, "ok").Inc()
	observability.SetContainerLevels(state.Water.Level, state.Coffee.Level)

	writeJSON(w, http.StatusOK, api.BrewResponse{
		Message: state.LastMessage,
		Drink:   recipe,
		Used:    used,
		Status:  *state,
	})
}

// handleFill handles POST /containers/{container}/fill.
func (a *Adapter) handleFill(w http.ResponseWriter, r *http.Request) {
	kind, err := api.ParseContainerKind(r.PathValue("container"))
	if err != nil {
		observability.FillsTotal.WithLabelValues("unknown", "error").Inc()
		transport.WriteAPIError(w, api.NewInvalidRequestError("container", err.Error()))
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.FillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	state, err := a.machine.Fill(r.Context(), kind, req.Amount)
	if err != nil {
		observability.FillsTotal.WithLabelValues(string(kind), "error").Inc()
		transport.WriteAPIError(w, apiErrorFrom(err))
		return
	}

	observability.FillsTotal.WithLabelValues(string(kind), "ok").Inc()
	observability.SetContainerLevels(state.Water.Level, state.Coffee.Level)

	writeJSON(w, http.StatusOK, api.FillResponse{
		Message: state.LastMessage,
		Status:  *state,
	})
}

// apiErrorFrom converts engine errors into the wire error taxonomy.
func apiErrorFrom(err error) *api.APIError {
	var (
		apiErr      *api.APIError
		unknownErr  *machine.UnknownRecipeError
		insuffErr   *machine.InsufficientResourceError
		amountErr   *machine.InvalidAmountError
		overflowErr *machine.OverflowError
		storageErr  *machine.StorageError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &unknownErr):
		return api.NewUnknownRecipeError(unknownErr.Error())
	case errors.As(err, &insuffErr):
		return api.NewInsufficientResourceError(insuffErr.Error())
	case errors.As(err, &amountErr):
		return api.NewInvalidRequestError("amount", amountErr.Error())
	case errors.As(err, &overflowErr):
		return api.NewOverflowError(overflowErr.Error())
	case errors.As(err, &storageErr):
		return api.NewStorageError(storageErr.Error())
	default:
		return api.NewServerError(err.Error())
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
