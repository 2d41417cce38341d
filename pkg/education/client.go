// Package education is a client for post-secondary and K-12 enrollment data:
// the College Scorecard API and the Urban Institute Education Data Portal's
// copy of the NCES Common Core of Data school directory.
package education

import (
	"context"
	"io"
	"strings"
)

const (
	defaultScorecardURL = "https://api.data.gov/ed/collegescorecard/v1"
	defaultCCDURL       = "https://educationdata.urban.org/api/v1"
)

// Downloader fetches a URL. fetcher.HTTPFetcher satisfies it.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Client looks up enrollment for the institutions in a city.
type Client interface {
	// Colleges returns degree-granting institutions in a city from College
	// Scorecard.
	Colleges(ctx context.Context, city, state string) ([]College, error)
	// Schools returns public K-12 schools in a city from the CCD directory for
	// a school year.
	Schools(ctx context.Context, year, city, state string) ([]School, error)
}

// College is a post-secondary institution.
type College struct {
	Name       string
	Enrollment int
	Ownership  Ownership
}

// School is a K-12 school. Enrollment is negative when CCD reports it as
// missing or not applicable.
type School struct {
	ID         string
	Name       string
	Enrollment int
}

// Ownership is the College Scorecard control code.
type Ownership int

// College Scorecard control codes.
const (
	OwnershipPublic     Ownership = 1
	OwnershipNonprofit  Ownership = 2
	OwnershipForProfit  Ownership = 3
	ownershipUnreported Ownership = 0
)

func (o Ownership) String() string {
	switch o {
	case OwnershipPublic:
		return "public"
	case OwnershipNonprofit:
		return "private nonprofit"
	case OwnershipForProfit:
		return "private for-profit"
	default:
		return ""
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithScorecardURL overrides the College Scorecard base URL.
func WithScorecardURL(u string) Option {
	return func(c *httpClient) {
		c.scorecardURL = strings.TrimRight(u, "/")
	}
}

// WithCCDURL overrides the Education Data Portal base URL.
func WithCCDURL(u string) Option {
	return func(c *httpClient) {
		c.ccdURL = strings.TrimRight(u, "/")
	}
}

// WithMaxPages caps how many result pages are followed per query.
func WithMaxPages(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

type httpClient struct {
	dl           Downloader
	apiKey       string
	scorecardURL string
	ccdURL       string
	maxPages     int
}

// NewClient creates an education data client. apiKey is an api.data.gov key.
func NewClient(dl Downloader, apiKey string, opts ...Option) Client {
	c := &httpClient{
		dl:           dl,
		apiKey:       apiKey,
		scorecardURL: defaultScorecardURL,
		ccdURL:       defaultCCDURL,
		maxPages:     20,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}
