package playlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/radioterm/radioterm/internal/station"
)

// ExportM3U writes stations in extended M3U format: the #EXTM3U header,
// then for each station an #EXTINF line, the URL, and a blank separator.
func ExportM3U(stations []station.Station, w io.Writer) error {
	if _, err := fmt.Fprint(w, "#EXTM3U\n\n"); err != nil {
		return err
	}
	for _, st := range stations {
		if _, err := fmt.Fprintf(w, "#EXTINF:-1,%s\n%s\n\n", st.Name, st.URL); err != nil {
			return err
		}
	}
	return nil
}

// ImportM3U reads an M3U document: #EXTINF lines carry the name and the
// next http-prefixed line is taken as the URL. Entries without a preceding
// #EXTINF line get an empty name.
func ImportM3U(r io.Reader) ([]station.Station, error) {
	var stations []station.Station
	var name string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			if _, after, found := strings.Cut(line, ","); found {
				name = strings.TrimSpace(after)
			}
		case strings.HasPrefix(line, "http"):
			stations = append(stations, station.Station{Name: name, URL: line})
			name = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return stations, fmt.Errorf("failed to read m3u: %w", err)
	}

	return stations, nil
}

// ConvertFile converts between the txt playlist format and M3U, dispatching
// on the source file extension.
func ConvertFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	var stations []station.Station
	switch ext := strings.ToLower(filepath.Ext(src)); ext {
	case ".txt":
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if st, ok := parseLine(scanner.Text()); ok {
				stations = append(stations, st)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
	case ".m3u", ".m3u8":
		if stations, err = ImportM3U(in); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported source format: %s", ext)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	switch ext := strings.ToLower(filepath.Ext(dst)); ext {
	case ".txt":
		for _, st := range stations {
			if _, err := fmt.Fprintf(out, "%s\n", formatLine(st)); err != nil {
				return err
			}
		}
	case ".m3u", ".m3u8":
		if err := ExportM3U(stations, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported target format: %s", ext)
	}

	return nil
}
