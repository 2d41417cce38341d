package education

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

const scorecardPerPage = 100

const scorecardFields = "school.name,latest.student.size,school.ownership"

type scorecardResponse struct {
	Metadata struct {
		Total   int `json:"total"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	} `json:"metadata"`
	Results []struct {
		Name      string `json:"school.name"`
		Size      *int   `json:"latest.student.size"`
		Ownership *int   `json:"school.ownership"`
	} `json:"results"`
}

func (c *httpClient) Colleges(ctx context.Context, city, state string) ([]College, error) {
	var out []College
	for page := 0; page < c.maxPages; page++ {
		q := url.Values{}
		q.Set("api_key", c.apiKey)
		q.Set("school.city", city)
		q.Set("school.state", state)
		q.Set("school.operating", "1")
		q.Set("fields", scorecardFields)
		q.Set("per_page", strconv.Itoa(scorecardPerPage))
		q.Set("page", strconv.Itoa(page))

		resp, err := c.scorecardPage(ctx, c.scorecardURL+"/schools?"+q.Encode())
		if err != nil {
			return nil, eris.Wrapf(err, "education: scorecard %s, %s page %d", city, state, page)
		}
		for _, r := range resp.Results {
			col := College{Name: r.Name, Ownership: ownershipUnreported}
			if r.Size != nil {
				col.Enrollment = *r.Size
			}
			if r.Ownership != nil {
				col.Ownership = Ownership(*r.Ownership)
			}
			out = append(out, col)
		}
		if len(resp.Results) == 0 || len(out) >= resp.Metadata.Total {
			break
		}
	}
	return out, nil
}

func (c *httpClient) scorecardPage(ctx context.Context, u string) (*scorecardResponse, error) {
	body, err := c.dl.Download(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	var resp scorecardResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	return &resp, nil
}
