package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// CityKey identifies a city for a demographics lookup. CountyCode is optional
// and holds either a 3-digit county FIPS code or a 5-digit CBSA metro code.
type CityKey struct {
	CityName   string `json:"city_name"`
	StateCode  string `json:"state_code"`
	CountyCode string `json:"county_code,omitempty"`
}

// Normalized returns a copy with trimmed fields and an upper-case state code.
func (k CityKey) Normalized() CityKey {
	return CityKey{
		CityName:   strings.Join(strings.Fields(k.CityName), " "),
		StateCode:  strings.ToUpper(strings.TrimSpace(k.StateCode)),
		CountyCode: strings.TrimSpace(k.CountyCode),
	}
}

// CacheKey returns the SHA-256 hex of the normalized key.
func (k CityKey) CacheKey() string {
	n := k.Normalized()
	raw := fmt.Sprintf("%s|%s|%s", strings.ToLower(n.CityName), strings.ToLower(n.StateCode), n.CountyCode)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h)
}

// String formats the key as "City, ST".
func (k CityKey) String() string {
	n := k.Normalized()
	if n.CountyCode != "" {
		return fmt.Sprintf("%s, %s (%s)", n.CityName, n.StateCode, n.CountyCode)
	}
	return fmt.Sprintf("%s, %s", n.CityName, n.StateCode)
}
