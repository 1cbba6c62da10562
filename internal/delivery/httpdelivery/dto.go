package httpdelivery

import (
	"time"

	domainAuth "github.com/bmuptt/be-app-management/internal/domain/auth"
	"github.com/bmuptt/be-app-management/internal/domain/menu"
	"github.com/bmuptt/be-app-management/internal/domain/role"
	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
	"github.com/bmuptt/be-app-management/internal/domain/shared"
	"github.com/bmuptt/be-app-management/internal/domain/user"
)

// =============================================================================
// Requests
// =============================================================================

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createMenuRequest struct {
	KeyMenu  string  `json:"key_menu" validate:"required,max=100"`
	Name     string  `json:"name" validate:"required,max=100"`
	URL      *string `json:"url" validate:"omitempty,max=255"`
	ParentID *int64  `json:"parent_id" validate:"omitempty,gt=0"`
}

type updateMenuRequest struct {
	KeyMenu string  `json:"key_menu" validate:"required,max=100"`
	Name    string  `json:"name" validate:"required,max=100"`
	URL     *string `json:"url" validate:"omitempty,max=255"`
}

type sortMenuItem struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type sortMenuRequest struct {
	ListMenu []sortMenuItem `json:"list_menu" validate:"required,min=1,dive"`
}

// changeParentRequest moves a menu; a missing or zero parent_id means the root level.
type changeParentRequest struct {
	ParentID *int64 `json:"parent_id" validate:"omitempty,gte=0"`
}

// roleMenuFlags is a full permission row; omitted flags decode as false.
type roleMenuFlags struct {
	Access    bool `json:"access"`
	Create    bool `json:"create"`
	Update    bool `json:"update"`
	Delete    bool `json:"delete"`
	Approval  bool `json:"approval"`
	Approval2 bool `json:"approval_2"`
	Approval3 bool `json:"approval_3"`
}

func (f roleMenuFlags) matrix() rolemenu.Matrix {
	return rolemenu.Matrix{
		Access: f.Access, Create: f.Create, Update: f.Update, Delete: f.Delete,
		Approval: f.Approval, Approval2: f.Approval2, Approval3: f.Approval3,
	}
}

type roleMenuItem struct {
	MenuID int64 `json:"menu_id" validate:"required,gt=0"`
	roleMenuFlags
}

type configureRoleMenuRequest struct {
	Menus []roleMenuItem `json:"menus" validate:"dive"`
}

type roleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
	RoleID   *int64 `json:"role_id" validate:"omitempty,gt=0"`
}

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	RoleID   *int64  `json:"role_id" validate:"omitempty,gt=0"`
	Active   *string `json:"active"`
	Password *string `json:"password"`
}

// =============================================================================
// Views
// =============================================================================

type auditView struct {
	CreatedBy *int64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy *int64    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAuditView(a shared.AuditInfo) auditView {
	return auditView{CreatedBy: a.CreatedBy, CreatedAt: a.CreatedAt, UpdatedBy: a.UpdatedBy, UpdatedAt: a.UpdatedAt}
}

type menuView struct {
	ID          int64   `json:"id"`
	KeyMenu     string  `json:"key_menu"`
	Name        string  `json:"name"`
	OrderNumber int     `json:"order_number"`
	URL         *string `json:"url"`
	ParentID    *int64  `json:"parent_id"`
	Active      string  `json:"active"`
	auditView
}

func toMenuView(m *menu.Menu) menuView {
	return menuView{
		ID:          m.ID(),
		KeyMenu:     m.KeyMenu(),
		Name:        m.Name(),
		OrderNumber: m.OrderNumber(),
		URL:         m.URL(),
		ParentID:    m.ParentID(),
		Active:      string(m.Active()),
		auditView:   toAuditView(m.Audit()),
	}
}

func toMenuViews(items []*menu.Menu) []menuView {
	out := make([]menuView, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuView(m))
	}
	return out
}

type menuWithChildrenView struct {
	menuView
	Children []menuView `json:"children"`
}

func toMenuWithChildrenView(wc *menu.WithChildren) menuWithChildrenView {
	return menuWithChildrenView{menuView: toMenuView(wc.Menu), Children: toMenuViews(wc.Children)}
}

func toMenuWithChildrenViews(items []*menu.WithChildren) []menuWithChildrenView {
	out := make([]menuWithChildrenView, 0, len(items))
	for _, wc := range items {
		out = append(out, toMenuWithChildrenView(wc))
	}
	return out
}

type menuNodeView struct {
	menuView
	Children []menuNodeView `json:"children"`
}

func toMenuNodeViews(nodes []*menu.Node[*menu.Menu]) []menuNodeView {
	out := make([]menuNodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, menuNodeView{menuView: toMenuView(n.Item), Children: toMenuNodeViews(n.Children)})
	}
	return out
}

// permissionNodeView is a menu with the role's flags. Menus without a stored
// row still carry a permissions object with every flag false.
type permissionNodeView struct {
	menuView
	Permissions rolemenu.Matrix      `json:"permissions"`
	Children    []permissionNodeView `json:"children"`
}

func toPermissionNodeViews(nodes []*menu.Node[*rolemenu.Entry]) []permissionNodeView {
	out := make([]permissionNodeView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, permissionNodeView{
			menuView:    toMenuView(n.Item.Menu),
			Permissions: n.Item.Permissions,
			Children:    toPermissionNodeViews(n.Children),
		})
	}
	return out
}

type roleView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	auditView
}

func toRoleView(r *role.Role) roleView {
	return roleView{ID: r.ID(), Name: r.Name(), auditView: toAuditView(r.Audit())}
}

func toRoleViews(items []*role.Role) []roleView {
	out := make([]roleView, 0, len(items))
	for _, r := range items {
		out = append(out, toRoleView(r))
	}
	return out
}

// userView never carries the password hash.
type userView struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoleID *int64 `json:"role_id"`
	Active string `json:"active"`
	auditView
}

func toUserView(u *user.User) userView {
	return userView{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		RoleID:    u.RoleID(),
		Active:    string(u.Active()),
		auditView: toAuditView(u.Audit()),
	}
}

func toUserViews(items []*user.User) []userView {
	out := make([]userView, 0, len(items))
	for _, u := range items {
		out = append(out, toUserView(u))
	}
	return out
}

type tokenView struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func toTokenView(p *domainAuth.TokenPair) tokenView {
	return tokenView{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		TokenType:        "Bearer",
		AccessExpiresAt:  p.AccessExp,
		RefreshExpiresAt: p.RefreshExp,
	}
}

type loginView struct {
	tokenView
	User userView `json:"user"`
}

type profileView struct {
	User userView             `json:"user"`
	Role *roleView            `json:"role"`
	Menu []permissionNodeView `json:"menu"`
}
