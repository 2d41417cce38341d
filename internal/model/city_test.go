package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityKey_Normalized(t *testing.T) {
	t.Parallel()

	k := CityKey{CityName: "  San   Antonio ", StateCode: " tx", CountyCode: " 029 "}.Normalized()
	assert.Equal(t, CityKey{CityName: "San Antonio", StateCode: "TX", CountyCode: "029"}, k)
}

func TestCityKey_CacheKey(t *testing.T) {
	t.Parallel()

	a := CityKey{CityName: "Austin", StateCode: "TX"}
	b := CityKey{CityName: " austin ", StateCode: "tx"}
	c := CityKey{CityName: "Austin", StateCode: "TX", CountyCode: "453"}

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
	assert.Len(t, a.CacheKey(), 64)
}

func TestCityKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Austin, TX", CityKey{CityName: "Austin", StateCode: "tx"}.String())
	assert.Equal(t, "Austin, TX (453)", CityKey{CityName: "Austin", StateCode: "TX", CountyCode: "453"}.String())
}
