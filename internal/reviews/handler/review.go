package handler

import (
	"encoding/json"
	"net/http"

	"gojo/internal/reviews/service"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type ReviewHandler struct {
	service   service.ReviewService
	jwtSecret string
	log       *logger.Logger
}

func NewReviewHandler(svc service.ReviewService, jwtSecret string, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:   svc,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	auth := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireAuth(h.jwtSecret, h.log, next)
	}

	router.GET("/api/v1/listings/:id/reviews", h.ListForListing)
	router.GET("/api/v1/listings/:id/rating", h.Rating)
	router.POST("/api/v1/bookings/:id/review-invite", auth(h.Invite))
	router.POST("/api/v1/reviews", auth(h.Submit))
}

func (h *ReviewHandler) Invite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	guestID := middleware.UserIDFromContext(r.Context())

	token, err := h.service.InviteForBooking(r.Context(), ps.ByName("id"), guestID)
	if err != nil {
		h.writeError(w, "Invite", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"token": token}); err != nil {
		h.log.Error("failed to write success response", "handler", "Invite", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guestID := middleware.UserIDFromContext(r.Context())

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Submit", apperrors.InvalidInput("Invalid request body"))
		return
	}

	review, err := h.service.Submit(r.Context(), guestID, &req)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, review); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) ListForListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListForListing", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.ListByListing(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, "ListForListing", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Reviews, page.Total, page.Limit, page.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForListing", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReviewHandler) Rating(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rating, err := h.service.RatingForListing(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Rating", err)
		return
	}

	if err := httputil.WriteSuccess(w, rating); err != nil {
		h.log.Error("failed to write success response", "handler", "Rating", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("request failed", "handler", operation, "error", err)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "operation", "WriteError", "error", writeErr)
	}
}
