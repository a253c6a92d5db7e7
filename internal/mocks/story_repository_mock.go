package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nineties-server/internal/model"
	"nineties-server/internal/repository"
)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

// Insert provides a mock function with given fields: ctx, title, protagonists, content
func (_m *MockStoryRepository) Insert(ctx context.Context, title string, protagonists []string, content string) (*model.Story, error) {
	ret := _m.Called(ctx, title, protagonists, content)

	var r0 *model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Story)
	}

	return r0, ret.Error(1)
}

// ListAll provides a mock function with given fields: ctx
func (_m *MockStoryRepository) ListAll(ctx context.Context) ([]model.Story, error) {
	ret := _m.Called(ctx)

	var r0 []model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Story)
	}

	return r0, ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *MockStoryRepository) GetByID(ctx context.Context, id int) (*model.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Story)
	}

	return r0, ret.Error(1)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository. It also registers a testing interface on the mock.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)
