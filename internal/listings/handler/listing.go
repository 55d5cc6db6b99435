package handler

import (
	"encoding/json"
	"net/http"

	"gojo/internal/listings/service"
	"gojo/internal/listings/wizard"
	apperrors "gojo/pkg/errors"
	httputil "gojo/pkg/http"
	"gojo/pkg/logger"
	"gojo/pkg/middleware"
	"gojo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ListingHandler struct {
	service   service.ListingService
	engine    *wizard.Engine
	jwtSecret string
	log       *logger.Logger
}

func NewListingHandler(svc service.ListingService, jwtSecret string, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service:   svc,
		engine:    wizard.NewEngine(wizard.NewCreateListingFlow()),
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	auth := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireAuth(h.jwtSecret, h.log, next)
	}

	router.GET("/api/v1/listings", h.Search)
	router.GET("/api/v1/listings/:id", h.Get)
	router.POST("/api/v1/listings", auth(h.Create))
	router.PUT("/api/v1/listings/:id", auth(h.Update))
	router.DELETE("/api/v1/listings/:id", auth(h.Delete))
	router.POST("/api/v1/listings/:id/submit", auth(h.Submit))
	router.GET("/api/v1/hosts/me/listings", auth(h.ListMine))
	router.POST("/api/v1/flows/:flow", auth(h.ExecuteFlow))
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	var listing model.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}
	listing.HostID = hostID

	created, err := h.service.Create(r.Context(), &listing)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.Search(r.Context(), r.URL.Query().Get("city"), limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Listings, page.Total, page.Limit, page.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", apperrors.InvalidInput(err.Error()))
		return
	}

	page, err := h.service.ListByHost(r.Context(), hostID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, page.Listings, page.Total, page.Limit, page.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	var update model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	listing, err := h.service.Update(r.Context(), ps.ByName("id"), hostID, &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	listing, err := h.service.SubmitForReview(r.Context(), ps.ByName("id"), hostID)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Submit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), ps.ByName("id"), hostID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ListingHandler) ExecuteFlow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hostID := middleware.UserIDFromContext(r.Context())
	flowName := ps.ByName("flow")

	input := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "ExecuteFlow", apperrors.InvalidInput("Invalid request body"))
		return
	}
	// The authenticated user always owns whatever the flow creates.
	input[wizard.ParamHostID] = hostID

	ctx := wizard.NewContext(r.Context(), input, h.service)
	if err := h.engine.Run(flowName, ctx); err != nil {
		if appErr := apperrors.AsAppError(err); appErr != nil {
			h.writeError(w, "ExecuteFlow", appErr)
			return
		}
		h.writeError(w, "ExecuteFlow", apperrors.InvalidInput(err.Error()))
		return
	}

	if err := httputil.WriteCreated(w, ctx.Output); err != nil {
		h.log.Error("failed to write created response", "handler", "ExecuteFlow", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) writeError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("request failed", "handler", operation, "error", err)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "operation", "WriteError", "error", writeErr)
	}
}
