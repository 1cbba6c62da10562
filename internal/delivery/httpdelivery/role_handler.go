package httpdelivery

import (
	"net/http"

	roleapp "github.com/bmuptt/be-app-management/internal/application/role"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// RoleHandler serves the role CRUD endpoints.
type RoleHandler struct {
	createHandler *roleapp.CreateHandler
	getHandler    *roleapp.GetHandler
	updateHandler *roleapp.UpdateHandler
	deleteHandler *roleapp.DeleteHandler
	listHandler   *roleapp.ListHandler
	validator     *Validator
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleRepo role.Repository, superAdminEmail string, validator *Validator) *RoleHandler {
	return &RoleHandler{
		createHandler: roleapp.NewCreateHandler(roleRepo),
		getHandler:    roleapp.NewGetHandler(roleRepo),
		updateHandler: roleapp.NewUpdateHandler(roleRepo),
		deleteHandler: roleapp.NewDeleteHandler(roleRepo),
		listHandler:   roleapp.NewListHandler(roleRepo, superAdminEmail),
		validator:     validator,
	}
}

// List handles GET /api/app-management/role.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	var callerEmail string
	if p, ok := PrincipalFrom(r.Context()); ok {
		callerEmail = p.Email
	}

	q := r.URL.Query()
	result, err := h.listHandler.Handle(r.Context(), roleapp.ListQuery{
		Page:        queryInt(r, "page"),
		PageSize:    queryInt(r, "per_page"),
		Search:      q.Get("search"),
		SortBy:      q.Get("order_field"),
		SortOrder:   q.Get("order_dir"),
		CallerEmail: callerEmail,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.List(w, "Success", toRoleViews(result.Roles), result.TotalItems)
}

// Get handles GET /api/app-management/role/{id}.
func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entity, err := h.getHandler.Handle(r.Context(), roleapp.GetQuery{ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toRoleView(entity))
}

// Create handles POST /api/app-management/role.
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}
	entity, err := h.createHandler.Handle(r.Context(), roleapp.CreateCommand{Name: req.Name, Actor: actorID(r)})
	RecordRoleOperation("create", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Role created successfully", toRoleView(entity))
}

// Update handles PATCH /api/app-management/role/{id}.
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req roleRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}
	entity, err := h.updateHandler.Handle(r.Context(), roleapp.UpdateCommand{ID: id, Name: req.Name, Actor: actorID(r)})
	RecordRoleOperation("update", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Role updated successfully", toRoleView(entity))
}

// Delete handles DELETE /api/app-management/role/{id}.
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.deleteHandler.Handle(r.Context(), roleapp.DeleteCommand{ID: id, Actor: actorID(r)})
	RecordRoleOperation("delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Role deleted successfully", nil)
}
