package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bmuptt/be-app-management/internal/domain/role"
)

// RoleRepository is a mock implementation of role.Repository.
type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) Create(ctx context.Context, r *role.Role) (*role.Role, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*role.Role), args.Error(1)
}

func (m *RoleRepository) GetByID(ctx context.Context, id int64) (*role.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*role.Role), args.Error(1)
}

func (m *RoleRepository) Update(ctx context.Context, r *role.Role) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RoleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RoleRepository) List(ctx context.Context, params role.ListParams) ([]*role.Role, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*role.Role), args.Get(1).(int64), args.Error(2)
}

func (m *RoleRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}
