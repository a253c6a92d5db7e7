package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nineties-server/internal/service"
)

// MockStoryGenerator is a mock type for the StoryGenerator type
type MockStoryGenerator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, title, protagonists
func (_m *MockStoryGenerator) Generate(ctx context.Context, title string, protagonists []string) (string, error) {
	ret := _m.Called(ctx, title, protagonists)

	var r0 string
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	return r0, ret.Error(1)
}

// NewMockStoryGenerator creates a new instance of MockStoryGenerator. It also registers a testing interface on the mock.
func NewMockStoryGenerator(t interface {
	mock.TestingT
	Helper()
}) *MockStoryGenerator {
	m := &MockStoryGenerator{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.StoryGenerator = (*MockStoryGenerator)(nil)
