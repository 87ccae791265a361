package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	apperrors "parkscan/internal/errors"
	"parkscan/internal/repository"
	"parkscan/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repository.ReservationFilters{
		ParkingLot: r.URL.Query().Get("parkingLot"),
		Date:       r.URL.Query().Get("date"),
		Search:     r.URL.Query().Get("search"),
	}
	reservations, err := h.Service.ListReservations(filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ComputeStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ReservationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperrors.InvalidArgument("limit must be an integer"))
			return
		}
		limit = parsed
	}
	reservations, err := h.Service.RecentReservations(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) GetByQRToken(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	reservation, err := h.Service.GetByQRToken(token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req LogEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidArgument("Invalid request body"))
		return
	}
	reservation, err := h.Service.RecordEvent(id, req.Type, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	logs, err := h.Service.GetLogs(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req UpdateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidArgument("Invalid request body"))
		return
	}

	patch := repository.ReservationPatch{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		VehicleMake:   req.VehicleMake,
		VehicleModel:  req.VehicleModel,
		VehicleColor:  req.VehicleColor,
		ParkingLot:    req.ParkingLot,
	}
	if req.ReservationDate != nil {
		date, err := time.Parse("2006-01-02", *req.ReservationDate)
		if err != nil {
			writeError(w, apperrors.InvalidArgument("reservation_date must be YYYY-MM-DD"))
			return
		}
		patch.ReservationDate = &date
	}

	reservation, err := h.Service.UpdateFields(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
