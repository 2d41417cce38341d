// Package census is a client for the Census Bureau data API: the American
// Community Survey 5-year estimates and County Business Patterns.
package census

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.census.gov/data"

// Downloader fetches a URL. fetcher.HTTPFetcher satisfies it.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Client queries the Census data API.
type Client interface {
	// Places returns the ACS 5-year variables vars for every place in a state.
	Places(ctx context.Context, year, stateFIPS string, vars []string) (*Table, error)
	// BusinessPatterns returns employees and establishments per NAICS sector
	// for a geography, restricted to sectors.
	BusinessPatterns(ctx context.Context, year string, geo Geography, sectors []string) (*Table, error)
}

// Geography is a Census "for" clause with its optional "in" parent.
type Geography struct {
	For string
	In  string
}

// StateGeography selects a whole state.
func StateGeography(stateFIPS string) Geography {
	return Geography{For: "state:" + stateFIPS}
}

// CountyGeography selects one county in a state.
func CountyGeography(stateFIPS, countyFIPS string) Geography {
	return Geography{For: "county:" + countyFIPS, In: "state:" + stateFIPS}
}

// MetroGeography selects a metropolitan or micropolitan statistical area by
// CBSA code.
func MetroGeography(cbsa string) Geography {
	return Geography{For: "metropolitan statistical area/micropolitan statistical area:" + cbsa}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

type httpClient struct {
	dl      Downloader
	apiKey  string
	baseURL string
}

// NewClient creates a Census API client. apiKey may be empty; the API allows a
// small number of anonymous queries per day.
func NewClient(dl Downloader, apiKey string, opts ...Option) Client {
	c := &httpClient{
		dl:      dl,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Places(ctx context.Context, year, stateFIPS string, vars []string) (*Table, error) {
	if len(vars) == 0 {
		return nil, eris.New("census: no variables requested")
	}
	q := url.Values{}
	q.Set("get", strings.Join(vars, ","))
	q.Set("for", "place:*")
	q.Set("in", "state:"+stateFIPS)

	t, err := c.get(ctx, fmt.Sprintf("%s/%s/acs/acs5", c.baseURL, year), q)
	if err != nil {
		return nil, eris.Wrapf(err, "census: acs places %s state %s", year, stateFIPS)
	}
	return t, nil
}

func (c *httpClient) BusinessPatterns(ctx context.Context, year string, geo Geography, sectors []string) (*Table, error) {
	naicsVar := NAICSVariable(year)

	q := url.Values{}
	q.Set("get", strings.Join([]string{naicsVar, naicsVar + "_LABEL", "EMP", "ESTAB"}, ","))
	q.Set("for", geo.For)
	if geo.In != "" {
		q.Set("in", geo.In)
	}
	q.Set("EMPSZES", "001")
	for _, s := range sectors {
		q.Add(naicsVar, s)
	}

	t, err := c.get(ctx, fmt.Sprintf("%s/%s/cbp", c.baseURL, year), q)
	if err != nil {
		return nil, eris.Wrapf(err, "census: cbp %s %s", year, geo.For)
	}
	return t, nil
}

func (c *httpClient) get(ctx context.Context, endpoint string, q url.Values) (*Table, error) {
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	body, err := c.dl.Download(ctx, endpoint+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}
	return ParseTable(data)
}

// NAICSVariable returns the NAICS vintage variable used by County Business
// Patterns for a data year.
func NAICSVariable(year string) string {
	if year >= "2023" {
		return "NAICS2022"
	}
	return "NAICS2017"
}
