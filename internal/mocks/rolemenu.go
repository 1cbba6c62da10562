package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bmuptt/be-app-management/internal/domain/rolemenu"
)

// RoleMenuRepository is a mock implementation of rolemenu.Repository.
type RoleMenuRepository struct {
	mock.Mock
}

func (m *RoleMenuRepository) ListByRole(ctx context.Context, roleID int64) ([]*rolemenu.Permission, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rolemenu.Permission), args.Error(1)
}

func (m *RoleMenuRepository) ListAccessibleByRole(ctx context.Context, roleID int64) ([]*rolemenu.Entry, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rolemenu.Entry), args.Error(1)
}

func (m *RoleMenuRepository) Get(ctx context.Context, roleID, menuID int64) (*rolemenu.Permission, error) {
	args := m.Called(ctx, roleID, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rolemenu.Permission), args.Error(1)
}

func (m *RoleMenuRepository) UpsertOne(ctx context.Context, p *rolemenu.Permission) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *RoleMenuRepository) UpsertMany(ctx context.Context, roleID int64, rows []*rolemenu.Permission) error {
	args := m.Called(ctx, roleID, rows)
	return args.Error(0)
}
