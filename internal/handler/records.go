package handler

import (
	"context"
	"log/slog"
	"net/http"

	"clearview/internal/cache"
	"clearview/internal/domain"
	"clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
	"clearview/internal/domain/services"
	recordsSvc "clearview/internal/domain/services/records"
	"clearview/internal/httputil"
	"clearview/internal/service/lifecycle"
)

// SetActiveRequest is the body of PUT .../active
type SetActiveRequest struct {
	Active httputil.OptionalBool `json:"active"`
}

// RecordsHandler serves the soft-deletable record kinds
type RecordsHandler struct {
	records *lifecycle.Registry
	perms   services.PermissionChecker
	cache   *cache.CollectionCache
	logger  *slog.Logger
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(records *lifecycle.Registry, perms services.PermissionChecker, cache *cache.CollectionCache, logger *slog.Logger) *RecordsHandler {
	return &RecordsHandler{
		records: records,
		perms:   perms,
		cache:   cache,
		logger:  logger,
	}
}

// PublicTestimonials returns active, non-deleted testimonials, served from cache
// GET /api/testimonials
func (h *RecordsHandler) PublicTestimonials(w http.ResponseWriter, r *http.Request) {
	set, err := h.records.Get(string(records.KindTestimonials))
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	v, err := h.cache.GetOrLoad(r.Context(), string(set.Kind()), func(ctx context.Context) (any, error) {
		return set.List(ctx, recordsRepo.ListFilter{State: recordsRepo.FilterActive, PublicOnly: true})
	})
	list, _ := v.([]records.Record)
	respond(w, http.StatusOK, list, err)
}

// List returns records in the requested state (active by default)
// GET /api/admin/records/{kind}?state=active|deleted|all
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolve(w, r, services.ActionRead)
	if !ok {
		return
	}

	filter := recordsRepo.ListFilter{State: recordsRepo.StateFilter(r.URL.Query().Get("state"))}
	list, err := set.List(r.Context(), filter)
	respond(w, http.StatusOK, list, err)
}

// Get returns one record in any state
// GET /api/admin/records/{kind}/{id}
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolve(w, r, services.ActionRead)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	record, err := set.Get(r.Context(), id)
	respond(w, http.StatusOK, record, err)
}

// Create stores a new record
// POST /api/admin/records/{kind}
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolve(w, r, services.ActionCreate)
	if !ok {
		return
	}

	record := set.New()
	if err := httputil.ParseJSON(w, r, record); err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	created, err := set.Create(r.Context(), record)
	respond(w, http.StatusCreated, created, err)
}

// SoftDelete marks a record deleted
// DELETE /api/admin/records/{kind}/{id}
func (h *RecordsHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, services.ActionDelete, recordsSvc.RecordSet.SoftDelete)
}

// Restore clears a record's deletion
// POST /api/admin/records/{kind}/{id}/restore
func (h *RecordsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, services.ActionRestore, recordsSvc.RecordSet.Restore)
}

// PermanentDelete physically removes a record
// DELETE /api/admin/records/{kind}/{id}/permanent
func (h *RecordsHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolve(w, r, services.ActionPurge)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	err = set.PermanentDelete(r.Context(), id)
	respond(w, http.StatusOK, map[string]string{"id": id}, err)
}

// SetActive publishes or unpublishes a record
// PUT /api/admin/records/{kind}/{id}/active
func (h *RecordsHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	set, ok := h.resolve(w, r, services.ActionPublish)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	var req SetActiveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondFailure(w, err)
		return
	}
	if !req.Active.Present {
		httputil.RespondFailure(w, domain.NewValidation("active is required"))
		return
	}

	record, err := set.SetActive(r.Context(), id, req.Active.Value)
	respond(w, http.StatusOK, record, err)
}

func (h *RecordsHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	action services.Action,
	apply func(recordsSvc.RecordSet, context.Context, string) (records.Record, error),
) {
	set, ok := h.resolve(w, r, action)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	record, err := apply(set, r.Context(), id)
	respond(w, http.StatusOK, record, err)
}

// resolve looks up the record kind and checks the caller may perform action on it.
// On failure the response has been written.
func (h *RecordsHandler) resolve(w http.ResponseWriter, r *http.Request, action services.Action) (recordsSvc.RecordSet, bool) {
	set, err := h.records.Get(r.PathValue("kind"))
	if err != nil {
		httputil.RespondFailure(w, err)
		return nil, false
	}
	if err := authorize(r, h.perms, string(set.Kind()), action); err != nil {
		h.logger.Warn("records access denied",
			"admin", httputil.GetUserID(r),
			"kind", set.Kind(),
			"action", action,
		)
		httputil.RespondFailure(w, err)
		return nil, false
	}
	return set, true
}
