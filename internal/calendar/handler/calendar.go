package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gojo/internal/calendar/service"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type CalendarHandler struct {
	service   service.CalendarService
	jwtSecret string
	log       *logger.Logger
}

func NewCalendarHandler(service service.CalendarService, jwtSecret string, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		service:   service,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *CalendarHandler) RegisterRoutes(router *httprouter.Router) {
	auth := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireAuth(h.jwtSecret, h.log, next)
	}

	router.GET("/api/v1/listings/:id/calendar", auth(h.GetMonth))
	router.POST("/api/v1/listings/:id/calendar/refresh", auth(h.Refresh))
	router.POST("/api/v1/listings/:id/calendar/selection", auth(h.Toggle))
	router.DELETE("/api/v1/listings/:id/calendar/selection", auth(h.ClearSelection))
	router.POST("/api/v1/listings/:id/calendar/block", auth(h.Block))
	router.POST("/api/v1/listings/:id/calendar/unblock", auth(h.Unblock))
	router.PUT("/api/v1/listings/:id/calendar/price", auth(h.SetPrice))
	router.DELETE("/api/v1/listings/:id/calendar/price", auth(h.ClearPrice))
	router.DELETE("/api/v1/listings/:id/calendar/session", auth(h.CloseSession))
}

func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	query := r.URL.Query()
	year := 0
	month := 0
	if yearStr := query.Get("year"); yearStr != "" {
		var err error
		year, err = strconv.Atoi(yearStr)
		if err != nil {
			h.writeError(w, "GetMonth", apperrors.InvalidInput(fmt.Sprintf("invalid year parameter: %s", yearStr)))
			return
		}
	}
	if monthStr := query.Get("month"); monthStr != "" {
		var err error
		month, err = strconv.Atoi(monthStr)
		if err != nil {
			h.writeError(w, "GetMonth", apperrors.InvalidInput(fmt.Sprintf("invalid month parameter: %s", monthStr)))
			return
		}
	}
	if (year == 0) != (month == 0) {
		h.writeError(w, "GetMonth", apperrors.InvalidInput("year and month must be provided together"))
		return
	}

	view, err := h.service.MonthView(r.Context(), listingID, hostID, year, time.Month(month))
	if err != nil {
		h.writeError(w, "GetMonth", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetMonth", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Refresh(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	view, err := h.service.Refresh(r.Context(), listingID, hostID)
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Refresh", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Toggle", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.ToggleDate(r.Context(), listingID, hostID, body.Date)
	if err != nil {
		h.writeError(w, "Toggle", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Toggle", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) ClearSelection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	view, err := h.service.ClearSelection(r.Context(), listingID, hostID)
	if err != nil {
		h.writeError(w, "ClearSelection", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "ClearSelection", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Block(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	view, err := h.service.BlockSelected(r.Context(), listingID, hostID)
	if err != nil {
		h.writeError(w, "Block", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Block", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) Unblock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	view, err := h.service.UnblockSelected(r.Context(), listingID, hostID)
	if err != nil {
		h.writeError(w, "Unblock", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Unblock", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) SetPrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetPrice", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	view, err := h.service.SetPriceForSelected(r.Context(), listingID, hostID, body.Price)
	if err != nil {
		h.writeError(w, "SetPrice", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "SetPrice", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) ClearPrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	view, err := h.service.ClearPriceForSelected(r.Context(), listingID, hostID)
	if err != nil {
		h.writeError(w, "ClearPrice", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "ClearPrice", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CalendarHandler) CloseSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listingID := ps.ByName("id")
	hostID := middleware.UserIDFromContext(r.Context())

	h.service.CloseSession(listingID, hostID)
	httputil.WriteNoContent(w)
}

func (h *CalendarHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
