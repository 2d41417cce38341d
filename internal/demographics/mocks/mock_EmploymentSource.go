package mocks

import (
	"context"

	model "github.com/sells-group/demographics-cli/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockEmploymentSource is a mock type for the EmploymentSource interface.
type MockEmploymentSource struct {
	mock.Mock
}

// EmploymentData provides a mock function with given fields: ctx, key
func (_m *MockEmploymentSource) EmploymentData(ctx context.Context, key model.CityKey) model.Sourced[model.EmploymentRecord] {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for EmploymentData")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.CityKey) model.Sourced[model.EmploymentRecord]); ok {
		return rf(ctx, key)
	}
	return ret.Get(0).(model.Sourced[model.EmploymentRecord])
}

// NewMockEmploymentSource creates a new instance of MockEmploymentSource and
// registers cleanup to assert expectations.
func NewMockEmploymentSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEmploymentSource {
	m := &MockEmploymentSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
