package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"gojo/internal/bookings/service"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"
	"gojo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service       service.BookingService
	jwtSecret     string
	webhookSecret string
	log           *logger.Logger
}

func NewBookingHandler(svc service.BookingService, jwtSecret string, webhookSecret string, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:       svc,
		jwtSecret:     jwtSecret,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	auth := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireAuth(h.jwtSecret, h.log, next)
	}

	router.POST("/api/v1/bookings", auth(h.Create))
	router.GET("/api/v1/bookings/:id", auth(h.Get))
	router.POST("/api/v1/bookings/:id/confirm", auth(h.Confirm))
	router.POST("/api/v1/bookings/:id/cancel", auth(h.Cancel))
	router.POST("/api/v1/bookings/:id/complete", auth(h.Complete))
	router.GET("/api/v1/guests/me/bookings", auth(h.ListMine))
	router.GET("/api/v1/hosts/me/bookings", auth(h.ListForHost))

	verified := middleware.WebhookSignatureVerification(h.webhookSecret, h.log)
	router.Handler(http.MethodPost, "/api/v1/webhooks/payments", verified(http.HandlerFunc(h.PaymentWebhook)))
}

type createBookingRequest struct {
	ListingID string `json:"listing_id"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guestID := middleware.UserIDFromContext(r.Context())

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	checkIn, err := time.Parse(time.DateOnly, req.CheckIn)
	if err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("check_in must be a YYYY-MM-DD date"))
		return
	}
	checkOut, err := time.Parse(time.DateOnly, req.CheckOut)
	if err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("check_out must be a YYYY-MM-DD date"))
		return
	}

	booking := &model.Booking{
		ListingID: req.ListingID,
		GuestID:   guestID,
		GuestName: req.GuestName,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
	}

	created, err := h.service.Create(r.Context(), booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	booking, err := h.service.Confirm(r.Context(), ps.ByName("id"), hostID)
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	booking, err := h.service.Complete(r.Context(), ps.ByName("id"), hostID)
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guestID := middleware.UserIDFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.ListByGuest(r.Context(), guestID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Bookings, page.Total, page.Limit, page.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) ListForHost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListForHost", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.ListByHost(r.Context(), hostID, limit, offset)
	if err != nil {
		h.writeError(w, "ListForHost", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Bookings, page.Total, page.Limit, page.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForHost", "operation", "WritePaginated", "error", err)
	}
}

type paymentWebhookPayload struct {
	BookingID string `json:"booking_id"`
	Event     string `json:"event"`
}

// PaymentWebhook handles provider callbacks. Signature verification happens
// in middleware before this runs.
func (h *BookingHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var payload paymentWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "PaymentWebhook", apperrors.InvalidInput("Invalid webhook payload"))
		return
	}

	if payload.Event != "payment.succeeded" {
		// Acknowledge events we do not act on so the provider stops retrying.
		httputil.WriteNoContent(w)
		return
	}

	booking, err := h.service.ConfirmPayment(r.Context(), payload.BookingID)
	if err != nil {
		h.writeError(w, "PaymentWebhook", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "PaymentWebhook", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("request failed", "handler", operation, "error", err)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "operation", "WriteError", "error", writeErr)
	}
}
