package education

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

type ccdResponse struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []struct {
		NCESSCH    string `json:"ncessch"`
		SchoolName string `json:"school_name"`
		Enrollment *int   `json:"enrollment"`
	} `json:"results"`
}

func (c *httpClient) Schools(ctx context.Context, year, city, state string) ([]School, error) {
	q := url.Values{}
	q.Set("city_location", strings.ToUpper(city))
	q.Set("state_location", strings.ToUpper(state))
	next := fmt.Sprintf("%s/schools/ccd/directory/%s/?%s", c.ccdURL, year, q.Encode())

	var out []School
	for page := 0; next != "" && page < c.maxPages; page++ {
		resp, err := c.ccdPage(ctx, next)
		if err != nil {
			return nil, eris.Wrapf(err, "education: ccd directory %s, %s page %d", city, state, page)
		}
		for _, r := range resp.Results {
			s := School{ID: r.NCESSCH, Name: r.SchoolName, Enrollment: -1}
			if r.Enrollment != nil {
				s.Enrollment = *r.Enrollment
			}
			out = append(out, s)
		}
		next = ""
		if resp.Next != nil {
			next = *resp.Next
		}
	}
	return out, nil
}

func (c *httpClient) ccdPage(ctx context.Context, u string) (*ccdResponse, error) {
	body, err := c.dl.Download(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	var resp ccdResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	return &resp, nil
}
