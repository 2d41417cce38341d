package demographics

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrInvalidCity is returned when a lookup has no city name.
var ErrInvalidCity = eris.New("demographics: city name is required")

// UnknownRegionError is returned for a state code outside the FIPS table. It
// is a request validation error: no fallback region exists.
type UnknownRegionError struct {
	StateCode string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("demographics: unknown state code %q", e.StateCode)
}

// CityNotFoundError is returned when no Census place matches the city name.
type CityNotFoundError struct {
	City  string
	State string
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("demographics: no census place matches %q in %s", e.City, e.State)
}

// UpstreamUnavailableError wraps a transport or server failure from one of
// the statistical sources.
type UpstreamUnavailableError struct {
	Source string
	Err    error
}

func (e *UpstreamUnavailableError) Error() string {
	return fmt.Sprintf("demographics: %s unavailable: %v", e.Source, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err rejects the request itself rather
// than reporting an upstream problem.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var region *UnknownRegionError
	return errors.As(err, &region) || errors.Is(err, ErrInvalidCity)
}
