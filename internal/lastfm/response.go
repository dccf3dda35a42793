package lastfm

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Track is one finished play as reported by last.fm. MBIDs are pointers
// because the service routinely returns them empty; an empty identifier
// is recorded as absent, never as "". Artist and album are all-or-nothing:
// when the name is missing the matching MBID is dropped too.
type Track struct {
	Name string
	MBID *string
	Time int64 // unix seconds

	ArtistName *string
	ArtistMBID *string

	AlbumName *string
	AlbumMBID *string
}

// Page is one page of a recent-tracks listing.
type Page struct {
	Page       int
	TotalPages int
	Tracks     []Track
}

// Wire structs for the XML envelope. The service wraps everything in
// <lfm status="ok|failed">; errors arrive as <error code="n">message</error>.
type lfmEnvelope struct {
	XMLName xml.Name      `xml:"lfm"`
	Status  string        `xml:"status,attr"`
	Error   lfmError      `xml:"error"`
	Recent  *recentTracks `xml:"recenttracks"`
}

type lfmError struct {
	Code    int    `xml:"code,attr"`
	Message string `xml:",chardata"`
}

type recentTracks struct {
	Page       int        `xml:"page,attr"`
	TotalPages int        `xml:"totalPages,attr"`
	Tracks     []xmlTrack `xml:"track"`
}

type xmlTrack struct {
	NowPlaying string `xml:"nowplaying,attr"`
	Artist     xmlRef `xml:"artist"`
	Album      xmlRef `xml:"album"`
	MBID       string `xml:"mbid"`
	Name       string `xml:"name"`
	Date       struct {
		UTS string `xml:"uts,attr"`
	} `xml:"date"`
}

// xmlRef is the <artist mbid="...">Name</artist> shape shared by artist
// and album elements.
type xmlRef struct {
	MBID string `xml:"mbid,attr"`
	Name string `xml:",chardata"`
}

func parsePage(r io.Reader) (*Page, error) {
	var envelope lfmEnvelope
	if err := xml.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding last.fm response: %w", err)
	}

	switch envelope.Status {
	case "ok":
	case "failed":
		if envelope.Error.Message == "" {
			return nil, fmt.Errorf("last.fm request failed (code %d)", envelope.Error.Code)
		}
		return nil, fmt.Errorf("last.fm: %s", envelope.Error.Message)
	default:
		return nil, fmt.Errorf("last.fm: unknown status %q", envelope.Status)
	}

	if envelope.Recent == nil {
		return nil, fmt.Errorf("last.fm: missing recenttracks element")
	}

	page := &Page{
		Page:       envelope.Recent.Page,
		TotalPages: envelope.Recent.TotalPages,
	}

	for _, raw := range envelope.Recent.Tracks {
		// The in-progress track carries no date and is not a play yet.
		if raw.NowPlaying == "true" {
			continue
		}
		track, err := buildTrack(raw)
		if err != nil {
			return nil, err
		}
		page.Tracks = append(page.Tracks, track)
	}

	return page, nil
}

func buildTrack(raw xmlTrack) (Track, error) {
	if raw.Name == "" {
		return Track{}, fmt.Errorf("last.fm: track without a name")
	}
	if raw.Date.UTS == "" {
		return Track{}, fmt.Errorf("last.fm: track %q without a timestamp", raw.Name)
	}
	uts, err := strconv.ParseInt(raw.Date.UTS, 10, 64)
	if err != nil {
		return Track{}, fmt.Errorf("last.fm: bad timestamp for %q: %w", raw.Name, err)
	}

	track := Track{
		Name: raw.Name,
		MBID: optional(raw.MBID),
		Time: uts,
	}
	if raw.Artist.Name != "" {
		track.ArtistName = optional(raw.Artist.Name)
		track.ArtistMBID = optional(raw.Artist.MBID)
	}
	if raw.Album.Name != "" {
		track.AlbumName = optional(raw.Album.Name)
		track.AlbumMBID = optional(raw.Album.MBID)
	}
	return track, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
