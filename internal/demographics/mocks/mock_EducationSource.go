package mocks

import (
	"context"

	model "github.com/sells-group/demographics-cli/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockEducationSource is a mock type for the EducationSource interface.
type MockEducationSource struct {
	mock.Mock
}

// K12Data provides a mock function with given fields: ctx, key
func (_m *MockEducationSource) K12Data(ctx context.Context, key model.CityKey) model.Sourced[model.K12Stats] {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for K12Data")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.CityKey) model.Sourced[model.K12Stats]); ok {
		return rf(ctx, key)
	}
	return ret.Get(0).(model.Sourced[model.K12Stats])
}

// CollegeData provides a mock function with given fields: ctx, key
func (_m *MockEducationSource) CollegeData(ctx context.Context, key model.CityKey) model.Sourced[model.CollegeStats] {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for CollegeData")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.CityKey) model.Sourced[model.CollegeStats]); ok {
		return rf(ctx, key)
	}
	return ret.Get(0).(model.Sourced[model.CollegeStats])
}

// NewMockEducationSource creates a new instance of MockEducationSource and
// registers cleanup to assert expectations.
func NewMockEducationSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEducationSource {
	m := &MockEducationSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
