package httpdelivery

import (
	"net/http"

	apprm "github.com/bmuptt/be-app-management/internal/application/rolemenu"
	"github.com/bmuptt/be-app-management/pkg/response"
)

// RoleMenuHandler serves the role permission tree and its configuration.
type RoleMenuHandler struct {
	service   *apprm.Service
	validator *Validator
}

// NewRoleMenuHandler creates a new role-menu handler.
func NewRoleMenuHandler(service *apprm.Service, validator *Validator) *RoleMenuHandler {
	return &RoleMenuHandler{service: service, validator: validator}
}

// Tree handles GET /api/app-management/role-menu/{role}.
func (h *RoleMenuHandler) Tree(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "role")
	if !ok {
		return
	}
	tree, err := h.service.PermissionTree(r.Context(), roleID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toPermissionNodeViews(tree))
}

// Configure handles POST /api/app-management/role-menu/{role}.
func (h *RoleMenuHandler) Configure(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "role")
	if !ok {
		return
	}
	var req configureRoleMenuRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	items := make([]apprm.ConfigureItem, 0, len(req.Menus))
	for _, m := range req.Menus {
		items = append(items, apprm.ConfigureItem{MenuID: m.MenuID, Matrix: m.matrix()})
	}

	err := h.service.Configure(r.Context(), apprm.ConfigureInput{
		RoleID: roleID,
		Items:  items,
		Actor:  actorID(r),
	})
	RecordRoleOperation("configure_menus", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Role menu configured successfully", nil)
}

// Set handles PUT /api/app-management/role-menu/{role}/{menu}, replacing one row.
func (h *RoleMenuHandler) Set(w http.ResponseWriter, r *http.Request) {
	roleID, ok := pathID(w, r, "role")
	if !ok {
		return
	}
	menuID, ok := pathID(w, r, "menu")
	if !ok {
		return
	}
	var req roleMenuFlags
	if !h.validator.Decode(w, r, &req) {
		return
	}

	err := h.service.SetOne(r.Context(), roleID, menuID, req.matrix(), actorID(r))
	RecordRoleOperation("set_menu", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Role menu saved successfully", nil)
}
