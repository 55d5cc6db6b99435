package handler

import (
	"encoding/json"
	"net/http"

	"gojo/internal/admin/service"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"
	"gojo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service   service.AdminService
	jwtSecret string
	log       *logger.Logger
}

func NewAdminHandler(svc service.AdminService, jwtSecret string, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service:   svc,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRole(h.jwtSecret, model.RoleAdmin, h.log, next)
	}

	router.GET("/api/v1/admin/dashboard", admin(h.Dashboard))
	router.GET("/api/v1/admin/listings", admin(h.PendingListings))
	router.POST("/api/v1/admin/listings/:id/approve", admin(h.ApproveListing))
	router.POST("/api/v1/admin/listings/:id/reject", admin(h.RejectListing))
	router.POST("/api/v1/admin/listings/:id/flag", admin(h.FlagListing))
	router.DELETE("/api/v1/admin/listings/:id/flag", admin(h.UnflagListing))
	router.POST("/api/v1/admin/users/:id/suspend", admin(h.SuspendUser))
	router.DELETE("/api/v1/admin/users/:id/suspend", admin(h.UnsuspendUser))
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, dashboard); err != nil {
		h.log.Error("failed to write success response", "handler", "Dashboard", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) PendingListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "PendingListings", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.PendingListings(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "PendingListings", err)
		return
	}

	if err := httputil.WriteSuccess(w, page); err != nil {
		h.log.Error("failed to write success response", "handler", "PendingListings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ApproveListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.ApproveListing(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "ApproveListing", err)
		return
	}

	httputil.WriteNoContent(w)
}

type moderationRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) RejectListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "RejectListing", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.RejectListing(r.Context(), ps.ByName("id"), req.Notes); err != nil {
		h.writeError(w, "RejectListing", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AdminHandler) FlagListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req moderationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "FlagListing", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.FlagListing(r.Context(), ps.ByName("id"), req.Reason); err != nil {
		h.writeError(w, "FlagListing", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AdminHandler) UnflagListing(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.UnflagListing(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "UnflagListing", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setSuspended(w, r, ps, true, "SuspendUser")
}

func (h *AdminHandler) UnsuspendUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.setSuspended(w, r, ps, false, "UnsuspendUser")
}

func (h *AdminHandler) setSuspended(w http.ResponseWriter, r *http.Request, ps httprouter.Params, suspended bool, op string) {
	if err := h.service.SetUserSuspended(r.Context(), ps.ByName("id"), suspended); err != nil {
		h.writeError(w, op, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AdminHandler) writeError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("request failed", "handler", operation, "error", err)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "operation", "WriteError", "error", writeErr)
	}
}
