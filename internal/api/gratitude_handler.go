package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/service"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// GratitudeHandler serves identity-scoped CRUD over gratitude entries.
// Every route sits behind the auth middleware, so the claim set is
// always present in the context.
type GratitudeHandler struct {
	gratitudes service.GratitudeService
	responder  *shared.ErrorResponder
	logger     *slog.Logger
}

// NewGratitudeHandler creates a GratitudeHandler. Panics on nil
// dependencies.
func NewGratitudeHandler(
	gratitudes service.GratitudeService,
	responder *shared.ErrorResponder,
	log *slog.Logger,
) *GratitudeHandler {
	if gratitudes == nil {
		panic("gratitudes cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &GratitudeHandler{
		gratitudes: gratitudes,
		responder:  responder,
		logger:     log.With(slog.String("component", "gratitude_handler")),
	}
}

// callerID extracts the authenticated user's ID from the context.
func (h *GratitudeHandler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := shared.UserFromContext(r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("claims missing from context"))
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// List handles GET /gratitudes.
func (h *GratitudeHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	filter, _ := shared.ListFilterFromContext(r.Context())

	entries, err := h.gratitudes.List(r.Context(), ownerID, store.GratitudeFilter{Tag: filter.Tag})
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusOk, entries))
}

// Get handles GET /gratitudes/{id}. A missing or foreign-owned entry is
// a 200 with an empty data array, not an error.
func (h *GratitudeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := shared.GratitudeIDFromContext(r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("gratitude id missing from context"))
		return
	}

	entry, err := h.gratitudes.GetByID(r.Context(), ownerID, id)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}
	if entry == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusEntryNotFound, nil))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusOk, []*domain.Gratitude{entry}))
}

// Create handles POST /gratitudes.
func (h *GratitudeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	req, ok := shared.BodyFromContext[*CreateGratitudeRequest](r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("request body missing from context"))
		return
	}

	entry, err := h.gratitudes.Create(r.Context(), ownerID, req.Title, req.Details, req.Tags)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("gratitude created",
		slog.String("gratitude_id", entry.ID.String()),
		slog.String("user_id", ownerID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusCreated, []*domain.Gratitude{entry}))
}

// Update handles PATCH /gratitudes/{id}.
func (h *GratitudeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := shared.GratitudeIDFromContext(r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("gratitude id missing from context"))
		return
	}
	req, ok := shared.BodyFromContext[*UpdateGratitudeRequest](r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("request body missing from context"))
		return
	}

	entry, err := h.gratitudes.Update(r.Context(), ownerID, id, req.Patch())
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusUpdated, []*domain.Gratitude{entry}))
}

// Delete handles DELETE /gratitudes/{id}. The removed entry is returned
// in the envelope.
func (h *GratitudeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	id, ok := shared.GratitudeIDFromContext(r.Context())
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("gratitude id missing from context"))
		return
	}

	entry, err := h.gratitudes.Delete(r.Context(), ownerID, id)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Info("gratitude deleted",
		slog.String("gratitude_id", id.String()),
		slog.String("user_id", ownerID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, NewGratitudeEnvelope(StatusDeleted, []*domain.Gratitude{entry}))
}
