package lastfm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Soft/lastfm-archiver/internal/config"
)

const (
	// MaxTracks is the largest page size user.getrecenttracks accepts.
	MaxTracks = 200

	userAgent = "lastfm-archiver/1.0"
)

// Client talks to the last.fm web service. It only covers the single
// endpoint the archiver needs: user.getrecenttracks.
type Client struct {
	baseURL string
	apiKey  string
	user    string
	http    *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.LastFM.BaseURL,
		apiKey:  cfg.LastFM.APIKey,
		user:    cfg.LastFM.User,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// RecentTracks fetches one page of the user's listening history. A from
// value > 0 restricts the result to plays strictly after that unix
// timestamp, which is how incremental runs avoid refetching the whole
// archive. The currently playing track, when present, is not part of the
// returned page.
func (c *Client) RecentTracks(ctx context.Context, page int, from int64) (*Page, error) {
	u, err := url.Parse(c.baseURL + "/2.0/")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("method", "user.getrecenttracks")
	q.Set("limit", strconv.Itoa(MaxTracks))
	q.Set("user", c.user)
	q.Set("api_key", c.apiKey)
	q.Set("page", strconv.Itoa(page))
	if from > 0 {
		q.Set("from", strconv.FormatInt(from, 10))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("last.fm status %d", resp.StatusCode)
	}

	return parsePage(resp.Body)
}
