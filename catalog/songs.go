package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Song is one entry in the year-guessing catalog. Position is the song's
// rank within its origin chart; 0 means unranked.
type Song struct {
	Artist      string `json:"artist"`
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Position    int    `json:"position"`
	Origin      string `json:"origin"`
	YoutubeLink string `json:"youtube_link"`
	SpotifyLink string `json:"spotify_link"`
	QRFile      string `json:"qr_file,omitempty"`
}

// Key returns the normalized dedup key for used-song tracking.
func (s Song) Key() string {
	return Normalize(s.Artist + "|" + s.Title)
}

// QRFilename builds the QR image filename for a song, matching the naming
// convention used when the images were generated: underscores are stripped
// from artist and title so the separator stays unambiguous.
func QRFilename(artist, title string) string {
	clean := func(s string) string { return strings.ReplaceAll(s, "_", "") }
	return fmt.Sprintf("%s_%s.png", clean(artist), clean(title))
}

// LoadSongs reads the song catalog CSV and returns songs grouped by origin
// plus the maximum chart position seen per origin. Rows without an artist,
// title, or parseable year are skipped. A song's QRFile is only set when the
// image already exists under qrDir.
func LoadSongs(csvPath, qrDir string) (map[string][]Song, map[string]int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, fmt.Errorf("song catalog %s: %w", csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("song catalog %s: reading header: %w", csvPath, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"origin", "artist", "title", "year"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("song catalog %s: missing column %q", csvPath, required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	byOrigin := make(map[string][]Song)
	maxPos := make(map[string]int)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("song catalog %s: %w", csvPath, err)
		}

		artist := field(row, "artist")
		title := field(row, "title")
		origin := field(row, "origin")
		if artist == "" || title == "" {
			continue
		}
		year, err := strconv.Atoi(field(row, "year"))
		if err != nil {
			continue
		}
		// Unranked or malformed positions count as 0.
		position, _ := strconv.Atoi(field(row, "position"))

		song := Song{
			Artist:      artist,
			Title:       title,
			Year:        year,
			Position:    position,
			Origin:      origin,
			YoutubeLink: field(row, "youtube_link"),
			SpotifyLink: field(row, "spotify_link"),
		}
		qrFile := QRFilename(artist, title)
		if _, err := os.Stat(filepath.Join(qrDir, qrFile)); err == nil {
			song.QRFile = qrFile
		}

		byOrigin[origin] = append(byOrigin[origin], song)
		if position > maxPos[origin] {
			maxPos[origin] = position
		}
	}
	if len(byOrigin) == 0 {
		return nil, nil, fmt.Errorf("song catalog %s: no usable rows", csvPath)
	}
	return byOrigin, maxPos, nil
}
