package census

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// plainDownloader is a Downloader over http.DefaultClient without retries.
type plainDownloader struct {
	urls []string
}

func (d *plainDownloader) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	d.urls = append(d.urls, url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return resp.Body, nil
}
