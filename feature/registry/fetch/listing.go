package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoRelease signals that the dataset listing held no matching CSV export.
// The caller must abort the run: reconciling without a release would read as
// an empty snapshot and delete the whole store.
var ErrNoRelease = errors.New("fetch: no matching release in dataset listing")

// Resource is one downloadable file of the data.gouv.fr dataset.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type listing struct {
	Data []Resource `json:"data"`
}

// Client retrieves RNCP export releases from the data.gouv.fr dataset API.
type Client struct {
	httpClient  *http.Client
	datasetURL  string
	titleFilter string
}

func NewClient(datasetURL, titleFilter string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		datasetURL:  datasetURL,
		titleFilter: titleFilter,
	}
}

// LatestResource returns the newest CSV export of the dataset. The listing
// is ordered newest first; a release whose title carries today's date wins,
// otherwise the first title match does.
func (c *Client) LatestResource(ctx context.Context) (Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.datasetURL, nil)
	if err != nil {
		return Resource{}, fmt.Errorf("building listing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Resource{}, fmt.Errorf("fetching dataset listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resource{}, fmt.Errorf("fetching dataset listing: unexpected status %d", resp.StatusCode)
	}

	var page listing
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return Resource{}, fmt.Errorf("decoding dataset listing: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	var fallback *Resource
	for i := range page.Data {
		res := page.Data[i]
		if !strings.Contains(res.Title, c.titleFilter) {
			continue
		}
		if strings.Contains(res.Title, today) {
			return res, nil
		}
		if fallback == nil {
			fallback = &res
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return Resource{}, ErrNoRelease
}
