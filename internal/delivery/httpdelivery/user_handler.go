package httpdelivery

import (
	"net/http"

	userapp "github.com/bmuptt/be-app-management/internal/application/user"
	"github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/user"
	"github.com/bmuptt/be-app-management/pkg/response"
	"github.com/bmuptt/be-app-management/pkg/safeconv"
)

// UserHandler serves the user CRUD endpoints.
type UserHandler struct {
	createHandler *userapp.CreateHandler
	getHandler    *userapp.GetHandler
	updateHandler *userapp.UpdateHandler
	deleteHandler *userapp.DeleteHandler
	listHandler   *userapp.ListHandler
	validator     *Validator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo user.Repository, roleRepo role.Repository, hasher auth.PasswordHasher, validator *Validator) *UserHandler {
	return &UserHandler{
		createHandler: userapp.NewCreateHandler(userRepo, roleRepo, hasher),
		getHandler:    userapp.NewGetHandler(userRepo),
		updateHandler: userapp.NewUpdateHandler(userRepo, roleRepo, hasher),
		deleteHandler: userapp.NewDeleteHandler(userRepo),
		listHandler:   userapp.NewListHandler(userRepo),
		validator:     validator,
	}
}

// List handles GET /api/app-management/user.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := userapp.ListQuery{
		Page:      queryInt(r, "page"),
		PageSize:  queryInt(r, "per_page"),
		Search:    q.Get("search"),
		SortBy:    q.Get("order_field"),
		SortOrder: q.Get("order_dir"),
	}
	if v := q.Get("role_id"); v != "" {
		if id, ok := safeconv.ParseID(v); ok {
			query.RoleID = &id
		}
	}
	if v := q.Get("active"); v != "" {
		status := user.Status(v)
		query.Status = &status
	}

	result, err := h.listHandler.Handle(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.List(w, "Success", toUserViews(result.Users), result.TotalItems)
}

// Get handles GET /api/app-management/user/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entity, err := h.getHandler.Handle(r.Context(), userapp.GetQuery{ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Success", toUserView(entity))
}

// Create handles POST /api/app-management/user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}
	entity, err := h.createHandler.Handle(r.Context(), userapp.CreateCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		RoleID:   req.RoleID,
		Actor:    actorID(r),
	})
	RecordUserOperation("create", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "User created successfully", toUserView(entity))
}

// Update handles PATCH /api/app-management/user/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !h.validator.Decode(w, r, &req) {
		return
	}

	cmd := userapp.UpdateCommand{
		ID:       id,
		Email:    req.Email,
		Name:     req.Name,
		RoleID:   req.RoleID,
		Password: req.Password,
		Actor:    actorID(r),
	}
	if req.Active != nil {
		status := user.Status(*req.Active)
		cmd.Status = &status
	}

	entity, err := h.updateHandler.Handle(r.Context(), cmd)
	RecordUserOperation("update", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User updated successfully", toUserView(entity))
}

// Delete handles DELETE /api/app-management/user/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	err := h.deleteHandler.Handle(r.Context(), userapp.DeleteCommand{ID: id, Actor: actorID(r)})
	RecordUserOperation("delete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User deleted successfully", nil)
}
