// Package bls is a client for the Bureau of Labor Statistics public data API
// (v2 timeseries), used for Local Area Unemployment Statistics.
package bls

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.bls.gov/publicAPI/v2"

const statusSucceeded = "REQUEST_SUCCEEDED"

// Downloader fetches a URL. fetcher.HTTPFetcher satisfies it.
type Downloader interface {
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Client queries BLS timeseries.
type Client interface {
	Series(ctx context.Context, seriesID string, startYear, endYear int) (*Series, error)
}

// Series is one BLS timeseries. Observations are newest first.
type Series struct {
	SeriesID string        `json:"seriesID"`
	Data     []Observation `json:"data"`
}

// Observation is one period of a series.
type Observation struct {
	Year       string `json:"year"`
	Period     string `json:"period"`
	PeriodName string `json:"periodName"`
	Latest     string `json:"latest"`
	Value      string `json:"value"`
}

// Float parses the observation value. Footnoted values such as "-" fail.
func (o Observation) Float() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(o.Value), 64)
	if err != nil {
		return 0, eris.Wrapf(err, "bls: parse value %q", o.Value)
	}
	return v, nil
}

// Latest returns the most recent monthly observation. Annual averages (M13)
// are skipped.
func (s *Series) Latest() (Observation, bool) {
	for _, o := range s.Data {
		if o.Latest == "true" {
			return o, true
		}
	}
	for _, o := range s.Data {
		if o.Period != "M13" {
			return o, true
		}
	}
	return Observation{}, false
}

type seriesResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []Series `json:"series"`
	} `json:"Results"`
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

// NewClient creates a BLS API client authenticated with a registration key.
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

func (c *httpClient) Series(ctx context.Context, seriesID string, startYear, endYear int) (*Series, error) {
	q := url.Values{}
	if c.apiKey != "" {
		q.Set("registrationkey", c.apiKey)
	}
	if startYear > 0 && endYear >= startYear {
		q.Set("startyear", strconv.Itoa(startYear))
		q.Set("endyear", strconv.Itoa(endYear))
	}
	u := fmt.Sprintf("%s/timeseries/data/%s", c.baseURL, url.PathEscape(seriesID))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := c.dl.Download(ctx, u)
	if err != nil {
		return nil, eris.Wrapf(err, "bls: fetch series %s", seriesID)
	}
	defer body.Close() //nolint:errcheck

	var resp seriesResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, eris.Wrapf(err, "bls: decode series %s", seriesID)
	}
	if resp.Status != statusSucceeded {
		return nil, eris.Errorf("bls: series %s: %s %s", seriesID, resp.Status, strings.Join(resp.Message, "; "))
	}
	for i := range resp.Results.Series {
		if resp.Results.Series[i].SeriesID == seriesID {
			return &resp.Results.Series[i], nil
		}
	}
	return nil, eris.Errorf("bls: series %s missing from response", seriesID)
}
