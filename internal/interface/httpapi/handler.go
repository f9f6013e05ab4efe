package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"flightops-service/internal/usecase"
	"flightops-service/pkg/logger"
)

// Handler exposes the flight management operations consumed by the chat
// front-end over a small internal JSON API.
type Handler struct {
	flights  *usecase.FlightService
	resolver *usecase.AirportResolver
	logger   logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(flights *usecase.FlightService, resolver *usecase.AirportResolver, logger logger.Logger) *Handler {
	return &Handler{
		flights:  flights,
		resolver: resolver,
		logger:   logger,
	}
}

// Register mounts the API routes on the given mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/flights", h.createFlight)
	mux.HandleFunc("POST /api/v1/flights/{id}/cancel", h.cancelFlight)
	mux.HandleFunc("POST /api/v1/subscriptions", h.subscribe)
	mux.HandleFunc("GET /api/v1/airports/{code}", h.resolveAirport)
}

type createFlightRequest struct {
	AirlineID     string    `json:"airlineId"`
	FlightNumber  string    `json:"flightNumber"`
	RouteName     string    `json:"routeName"`
	DepartureCode string    `json:"departureCode"`
	ArrivalCode   string    `json:"arrivalCode"`
	Aircraft      string    `json:"aircraft"`
	DepartureTime time.Time `json:"departureTime"`
	FlightTime    int       `json:"flightTime"`
	ProfileName   string    `json:"profileName"`
	CreatedBy     string    `json:"createdBy"`
}

func (h *Handler) createFlight(w http.ResponseWriter, r *http.Request) {
	var req createFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flight, err := h.flights.CreateFlight(r.Context(), usecase.CreateFlightInput{
		AirlineID:     req.AirlineID,
		FlightNumber:  req.FlightNumber,
		RouteName:     req.RouteName,
		DepartureCode: req.DepartureCode,
		ArrivalCode:   req.ArrivalCode,
		Aircraft:      req.Aircraft,
		DepartureTime: req.DepartureTime,
		FlightTime:    req.FlightTime,
		ProfileName:   req.ProfileName,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		h.writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, flight)
}

func (h *Handler) cancelFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.flights.CancelFlight(r.Context(), r.PathValue("id")); err != nil {
		h.writeUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type subscribeRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	FlightID string `json:"flightId"`
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.flights.Subscribe(r.Context(), req.UserID, req.Username, req.FlightID)
	if err != nil {
		h.writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *Handler) resolveAirport(w http.ResponseWriter, r *http.Request) {
	airport, err := h.resolver.ResolveByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidAirportCode) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Airport lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "airport lookup unavailable")
		return
	}
	if airport == nil {
		writeError(w, http.StatusNotFound, "airport not found")
		return
	}
	writeJSON(w, http.StatusOK, airport)
}

func (h *Handler) writeUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrFlightNotFound), errors.Is(err, usecase.ErrAirlineNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrAlreadySubscribed), errors.Is(err, usecase.ErrFlightTerminal):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
