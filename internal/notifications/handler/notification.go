package handler

import (
	"net/http"

	"gojo/internal/notifications/service"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service   service.NotificationService
	jwtSecret string
	log       *logger.Logger
}

func NewNotificationHandler(svc service.NotificationService, jwtSecret string, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service:   svc,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	auth := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireAuth(h.jwtSecret, h.log, next)
	}

	router.GET("/api/v1/notifications", auth(h.List))
	router.PATCH("/api/v1/notifications", auth(h.MarkAllRead))
	router.PATCH("/api/v1/notifications/:id", auth(h.MarkRead))
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.ListForUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, page); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.MarkRead(r.Context(), ps.ByName("id"), userID); err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	count, err := h.service.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.writeError(w, "MarkAllRead", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"marked": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "MarkAllRead", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("request failed", "handler", operation, "error", err)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "operation", "WriteError", "error", writeErr)
	}
}
