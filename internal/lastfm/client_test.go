package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Soft/lastfm-archiver/internal/config"
)

const okPage = `<?xml version="1.0" encoding="UTF-8"?>
<lfm status="ok">
  <recenttracks user="demo" page="1" totalPages="2">
    <track nowplaying="true">
      <artist mbid="">Live Artist</artist>
      <name>Now Spinning</name>
      <album mbid=""></album>
      <mbid></mbid>
    </track>
    <track>
      <artist mbid="b10bbbfc-cf9e-42e0-be17-e2c3e1d2600d">The Beatles</artist>
      <name>Yesterday</name>
      <album mbid="a4b2c100-0000-4000-8000-000000000001">Help!</album>
      <mbid>1b2c3d4e-0000-4000-8000-000000000002</mbid>
      <date uts="1700000100">13 Nov 2023, 22:15</date>
    </track>
    <track>
      <artist mbid="">Unknown Collective</artist>
      <name>Untitled</name>
      <album mbid=""></album>
      <mbid></mbid>
      <date uts="1700000000">13 Nov 2023, 22:13</date>
    </track>
  </recenttracks>
</lfm>`

const failedPage = `<?xml version="1.0" encoding="UTF-8"?>
<lfm status="failed">
  <error code="10">Invalid API key - You must be granted a valid key by last.fm</error>
</lfm>`

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.LastFM.BaseURL = baseURL
	cfg.LastFM.APIKey = "test-key"
	cfg.LastFM.User = "demo"
	return New(cfg)
}

func TestRecentTracksParsesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "user.getrecenttracks" {
			t.Errorf("Unexpected method param: %q", q.Get("method"))
		}
		if q.Get("user") != "demo" || q.Get("api_key") != "test-key" {
			t.Errorf("Credentials not forwarded: %v", q)
		}
		if q.Get("page") != "1" {
			t.Errorf("page = %q, want 1", q.Get("page"))
		}
		if q.Get("limit") != "200" {
			t.Errorf("limit = %q, want 200", q.Get("limit"))
		}
		if q.Get("from") != "" {
			t.Errorf("Unexpected from param on full fetch: %q", q.Get("from"))
		}
		w.Write([]byte(okPage))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).RecentTracks(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("RecentTracks failed: %v", err)
	}

	if page.Page != 1 || page.TotalPages != 2 {
		t.Errorf("Pagination = %d/%d, want 1/2", page.Page, page.TotalPages)
	}

	// The nowplaying track must be skipped.
	if len(page.Tracks) != 2 {
		t.Fatalf("Expected 2 finished tracks, got %d", len(page.Tracks))
	}

	first := page.Tracks[0]
	if first.Name != "Yesterday" || first.Time != 1700000100 {
		t.Errorf("First track mismatch: %+v", first)
	}
	if first.MBID == nil || *first.MBID != "1b2c3d4e-0000-4000-8000-000000000002" {
		t.Errorf("Track MBID mismatch: %v", first.MBID)
	}
	if first.ArtistName == nil || *first.ArtistName != "The Beatles" {
		t.Errorf("Artist name mismatch: %v", first.ArtistName)
	}
	if first.AlbumMBID == nil || *first.AlbumMBID != "a4b2c100-0000-4000-8000-000000000001" {
		t.Errorf("Album MBID mismatch: %v", first.AlbumMBID)
	}

	// Empty mbid attributes become absent, not "".
	second := page.Tracks[1]
	if second.MBID != nil || second.ArtistMBID != nil || second.AlbumMBID != nil {
		t.Errorf("Empty MBIDs should be nil: %+v", second)
	}
	if second.ArtistName == nil || *second.ArtistName != "Unknown Collective" {
		t.Errorf("Artist name mismatch: %v", second.ArtistName)
	}
	if second.AlbumName != nil {
		t.Errorf("Empty album should be nil, got %v", second.AlbumName)
	}
}

func TestRecentTracksPassesFrom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from"); got != "1700000000" {
			t.Errorf("from = %q, want 1700000000", got)
		}
		w.Write([]byte(`<lfm status="ok"><recenttracks page="1" totalPages="1"></recenttracks></lfm>`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).RecentTracks(context.Background(), 1, 1700000000)
	if err != nil {
		t.Fatalf("RecentTracks failed: %v", err)
	}
	if len(page.Tracks) != 0 {
		t.Errorf("Expected empty page, got %d tracks", len(page.Tracks))
	}
}

func TestRecentTracksFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(failedPage))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).RecentTracks(context.Background(), 1, 0)
	if err == nil {
		t.Fatal("Expected error for failed status, got nil")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Errorf("Error should carry the service message, got: %v", err)
	}
}

func TestRecentTracksBadHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).RecentTracks(context.Background(), 1, 0); err == nil {
		t.Fatal("Expected error for HTTP 503, got nil")
	}
}

func TestParsePageRejectsTrackWithoutDate(t *testing.T) {
	body := `<lfm status="ok"><recenttracks page="1" totalPages="1">
		<track><artist mbid="">X</artist><name>No Date</name><album mbid=""></album><mbid></mbid></track>
	</recenttracks></lfm>`

	if _, err := parsePage(strings.NewReader(body)); err == nil {
		t.Fatal("Expected error for finished track without timestamp, got nil")
	}
}

func TestParsePageUnknownStatus(t *testing.T) {
	if _, err := parsePage(strings.NewReader(`<lfm status="weird"></lfm>`)); err == nil {
		t.Fatal("Expected error for unknown status, got nil")
	}
}
