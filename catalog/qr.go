package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// EnsureQRCodes renders a QR image for every song that has a streaming link
// but no image on disk yet, and fills in the song's QRFile. Songs without
// any link are left alone. Returns the number of images written.
func EnsureQRCodes(songs map[string][]Song, qrDir string) (int, error) {
	if err := os.MkdirAll(qrDir, 0o755); err != nil {
		return 0, fmt.Errorf("qr dir %s: %w", qrDir, err)
	}

	written := 0
	for origin, list := range songs {
		for i := range list {
			song := &songs[origin][i]
			if song.QRFile != "" {
				continue
			}
			link := song.SpotifyLink
			if link == "" {
				link = song.YoutubeLink
			}
			if link == "" {
				continue
			}
			name := QRFilename(song.Artist, song.Title)
			path := filepath.Join(qrDir, name)
			if _, err := os.Stat(path); err != nil {
				if err := qrcode.WriteFile(link, qrcode.Medium, 256, path); err != nil {
					return written, fmt.Errorf("qr for %s - %s: %w", song.Artist, song.Title, err)
				}
				written++
			}
			song.QRFile = name
		}
	}
	return written, nil
}
