// Package mocks provides testify mocks of the domain repositories and auth collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bmuptt/be-app-management/internal/domain/menu"
)

// MenuRepository is a mock implementation of menu.Repository.
type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) Create(ctx context.Context, item *menu.Menu) (*menu.Menu, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Menu), args.Error(1)
}

func (m *MenuRepository) GetByID(ctx context.Context, id int64) (*menu.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Menu), args.Error(1)
}

func (m *MenuRepository) GetByKey(ctx context.Context, key string) (*menu.Menu, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Menu), args.Error(1)
}

func (m *MenuRepository) GetWithChildren(ctx context.Context, id int64) (*menu.WithChildren, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.WithChildren), args.Error(1)
}

func (m *MenuRepository) Update(ctx context.Context, item *menu.Menu) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MenuRepository) ExistsByKey(ctx context.Context, key string, excludeID int64) (bool, error) {
	args := m.Called(ctx, key, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MenuRepository) ListChildren(ctx context.Context, params menu.ChildrenParams) ([]*menu.WithChildren, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*menu.WithChildren), args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepository) ListHeaders(ctx context.Context, params menu.HeaderParams) ([]*menu.Menu, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*menu.Menu), args.Get(1).(int64), args.Error(2)
}

func (m *MenuRepository) ListActive(ctx context.Context) ([]*menu.Menu, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*menu.Menu), args.Error(1)
}

func (m *MenuRepository) ChangeParent(ctx context.Context, id int64, parentID *int64, updatedBy *int64) (*menu.Menu, error) {
	args := m.Called(ctx, id, parentID, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Menu), args.Error(1)
}

func (m *MenuRepository) UpdateActive(ctx context.Context, id int64, status menu.Status, updatedBy *int64) error {
	args := m.Called(ctx, id, status, updatedBy)
	return args.Error(0)
}

func (m *MenuRepository) Sort(ctx context.Context, parent menu.ParentFilter, ids []int64, updatedBy *int64) error {
	args := m.Called(ctx, parent, ids, updatedBy)
	return args.Error(0)
}

func (m *MenuRepository) SoftDelete(ctx context.Context, id int64, updatedBy *int64) error {
	args := m.Called(ctx, id, updatedBy)
	return args.Error(0)
}

func (m *MenuRepository) DeleteHard(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
