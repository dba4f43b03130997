package handler

import (
	"context"
	"log/slog"
	"net/http"

	"clearview/internal/cache"
	"clearview/internal/domain/models/content"
	"clearview/internal/domain/services"
	contentSvc "clearview/internal/domain/services/content"
	"clearview/internal/httputil"
	"clearview/internal/service/ordering"
)

// ContentHandler serves the ordered CMS collections
type ContentHandler struct {
	collections *ordering.Registry
	perms       services.PermissionChecker
	cache       *cache.CollectionCache
	logger      *slog.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(collections *ordering.Registry, perms services.PermissionChecker, cache *cache.CollectionCache, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		collections: collections,
		perms:       perms,
		cache:       cache,
		logger:      logger,
	}
}

// PublicList returns the live collection for public pages, served from cache
// GET /api/content/{collection}
func (h *ContentHandler) PublicList(w http.ResponseWriter, r *http.Request) {
	c, err := h.collections.Get(r.PathValue("collection"))
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	v, err := h.cache.GetOrLoad(r.Context(), string(c.Collection()), func(ctx context.Context) (any, error) {
		return c.List(ctx)
	})
	items, _ := v.([]content.Item)
	respond(w, http.StatusOK, items, err)
}

// List returns the collection ascending by order, or the soft-removed items
// with ?deleted=true
// GET /api/admin/content/{collection}
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionRead)
	if !ok {
		return
	}

	var items []content.Item
	var err error
	if r.URL.Query().Get("deleted") == "true" {
		items, err = c.ListDeleted(r.Context())
	} else {
		items, err = c.List(r.Context())
	}
	respond(w, http.StatusOK, items, err)
}

// Append adds an item at the end of the collection
// POST /api/admin/content/{collection}
func (h *ContentHandler) Append(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionCreate)
	if !ok {
		return
	}

	item := c.New()
	if err := httputil.ParseJSON(w, r, item); err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	created, err := c.Append(r.Context(), item)
	respond(w, http.StatusCreated, created, err)
}

// Update replaces an item's payload, keeping its position
// PATCH /api/admin/content/{collection}/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionUpdate)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	item := c.New()
	if err := httputil.ParseJSON(w, r, item); err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	updated, err := c.Update(r.Context(), id, item)
	respond(w, http.StatusOK, updated, err)
}

// Reorder assigns order = position in the submitted id list
// PUT /api/admin/content/{collection}/order
func (h *ContentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionReorder)
	if !ok {
		return
	}

	var req contentSvc.ReorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	items, err := c.Reorder(r.Context(), &req)
	if err == nil {
		w.Header().Set("ETag", `"`+content.ETag(items)+`"`)
	}
	respond(w, http.StatusOK, items, err)
}

// Remove deletes an item and closes the gap it leaves
// DELETE /api/admin/content/{collection}/{id}
func (h *ContentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionDelete)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	items, err := c.Remove(r.Context(), id)
	respond(w, http.StatusOK, items, err)
}

// Restore brings a soft-removed item back at the end of the collection
// POST /api/admin/content/{collection}/{id}/restore
func (h *ContentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r, services.ActionRestore)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		httputil.RespondFailure(w, err)
		return
	}

	items, err := c.Restore(r.Context(), id)
	respond(w, http.StatusOK, items, err)
}

// resolve looks up the collection and checks the caller may perform action on it.
// On failure the response has been written.
func (h *ContentHandler) resolve(w http.ResponseWriter, r *http.Request, action services.Action) (contentSvc.OrderedCollection, bool) {
	c, err := h.collections.Get(r.PathValue("collection"))
	if err != nil {
		httputil.RespondFailure(w, err)
		return nil, false
	}
	if err := authorize(r, h.perms, string(c.Collection()), action); err != nil {
		h.logger.Warn("content access denied",
			"admin", httputil.GetUserID(r),
			"collection", c.Collection(),
			"action", action,
		)
		httputil.RespondFailure(w, err)
		return nil, false
	}
	return c, true
}
