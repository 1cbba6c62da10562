package httpdelivery

import (
	"net/http"

	appmenu "github.com/bmuptt/be-app-management/internal/application/menu"
	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// MenuHandler serves the menu management endpoints.
type MenuHandler struct {
	service   *appmenu.Service
	validator *Validator
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service *appmenu.Service, validator *Validator) *MenuHandler {
	return &MenuHandler{service: service, validator: validator}
}

// ListChildren handles GET /api/app-management/menu/{parent}.
// A parent of 0 or a non-numeric value lists the root level.
func (h *MenuHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, total, err := h.service.ListChildren(r.Context(), appmenu.ListChildrenQuery{
		Parent:   menu.ParentFromID(parentVar(r, "parent")),
		Search:   q.Get("search"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "per_page"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.List(w, "Success", toMenuWithChildrenViews(items), total)
}

// Detail handles GET /api/app-management/menu/detail/{id}.
func (h *MenuHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.service.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toMenuWithChildrenView(item))
}

// ListHeaders handles GET /api/app-management/menu/header/{exclude}.
func (h *MenuHandler) ListHeaders(w http.ResponseWriter, r *http.Request) {
	var exclude int64
	if p := parentVar(r, "exclude"); p != nil {
		exclude = *p
	}

	q := r.URL.Query()
	items, total, err := h.service.ListHeaders(r.Context(), appmenu.ListHeadersQuery{
		ExcludeID: exclude,
		Search:    q.Get("search"),
		SortBy:    q.Get("order_field"),
		SortOrder: q.Get("order_dir"),
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "per_page"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.List(w, "Success", toMenuViews(items), total)
}

// Structure handles GET /api/menu/structure.
func (h *MenuHandler) Structure(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Structure(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toMenuNodeViews(tree))
}

// Create handles POST /api/app-management/menu.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMenuRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	m, err := h.service.Create(r.Context(), appmenu.CreateInput{
		KeyMenu:  req.KeyMenu,
		Name:     req.Name,
		URL:      req.URL,
		ParentID: req.ParentID,
		Actor:    actorID(r),
	})
	RecordMenuOperation("create", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Menu created successfully", toMenuView(m))
}

// Update handles PATCH /api/app-management/menu/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateMenuRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	m, err := h.service.Update(r.Context(), appmenu.UpdateInput{
		ID:      id,
		KeyMenu: req.KeyMenu,
		Name:    req.Name,
		URL:     req.URL,
		Actor:   actorID(r),
	})
	RecordMenuOperation("update", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu updated successfully", toMenuView(m))
}

// Sort handles POST /api/app-management/menu/sort/{parent}.
func (h *MenuHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortMenuRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	ids := make([]int64, 0, len(req.ListMenu))
	for _, item := range req.ListMenu {
		ids = append(ids, item.ID)
	}

	err := h.service.Sort(r.Context(), appmenu.SortInput{
		Parent: menu.ParentFromID(parentVar(r, "parent")),
		IDs:    ids,
		Actor:  actorID(r),
	})
	RecordMenuOperation("sort", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu sorted successfully", nil)
}

// ChangeParent handles POST /api/app-management/menu/change-parent/{id}.
func (h *MenuHandler) ChangeParent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req changeParentRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	parentID := req.ParentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}

	m, err := h.service.ChangeParent(r.Context(), appmenu.ChangeParentInput{
		ID:       id,
		ParentID: parentID,
		Actor:    actorID(r),
	})
	RecordMenuOperation("change_parent", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu parent changed successfully", toMenuView(m))
}

// SoftDelete handles DELETE /api/app-management/menu/{id}.
func (h *MenuHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.service.SoftDelete(r.Context(), id, actorID(r))
	RecordMenuOperation("soft_delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu deleted successfully", nil)
}

// HardDelete handles DELETE /api/app-management/menu/{id}/hard.
func (h *MenuHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.service.HardDelete(r.Context(), id, actorID(r))
	RecordMenuOperation("hard_delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu permanently deleted", nil)
}

// Activate handles POST /api/app-management/menu/active/{id}.
func (h *MenuHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.service.Activate(r.Context(), id, actorID(r))
	RecordMenuOperation("activate", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Menu activated successfully", nil)
}
