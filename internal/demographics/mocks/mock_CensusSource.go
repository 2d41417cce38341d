// Package mocks provides test doubles for the demographics sources.
package mocks

import (
	"context"

	model "github.com/sells-group/demographics-cli/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockCensusSource is a mock type for the CensusSource interface.
type MockCensusSource struct {
	mock.Mock
}

// CityDemographics provides a mock function with given fields: ctx, key
func (_m *MockCensusSource) CityDemographics(ctx context.Context, key model.CityKey) (*model.CensusRecord, error) {
	ret := _m.Called(ctx, key)

	if len(ret) == 0 {
		panic("no return value specified for CityDemographics")
	}

	var r0 *model.CensusRecord
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.CityKey) (*model.CensusRecord, error)); ok {
		return rf(ctx, key)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CensusRecord)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// HistoricalData provides a mock function with given fields: ctx, key, years
func (_m *MockCensusSource) HistoricalData(ctx context.Context, key model.CityKey, years []string) ([]model.HistoricalPoint, error) {
	ret := _m.Called(ctx, key, years)

	if len(ret) == 0 {
		panic("no return value specified for HistoricalData")
	}

	var r0 []model.HistoricalPoint
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.CityKey, []string) ([]model.HistoricalPoint, error)); ok {
		return rf(ctx, key, years)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.HistoricalPoint)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockCensusSource creates a new instance of MockCensusSource and registers
// cleanup to assert expectations.
func NewMockCensusSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCensusSource {
	m := &MockCensusSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
