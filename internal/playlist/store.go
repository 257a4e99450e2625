// Package playlist persists named station lists as line-oriented text files.
//
// Each well-formed line has the shape:
//
//	name: <display name> link: <url>
//
// Lines not matching that shape are ignored on read. The parser splits on the
// first occurrence of "link:", so a station name containing the literal text
// "link:" corrupts parsing. That is a known limitation of the file format,
// kept for compatibility with existing playlist files.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/station"
	"github.com/rs/zerolog/log"
)

const linkMarker = "link:"

// Store reads and writes playlist files inside a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. An empty dir means the
// current working directory.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// Load parses the playlist file named by key. A missing file yields an
// empty list, not an error. Malformed lines are skipped silently.
func (s *Store) Load(key string) ([]station.Station, error) {
	path := filepath.Join(s.dir, key)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open playlist %s: %w", key, err)
	}
	defer file.Close()

	var stations []station.Station
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		st, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		stations = append(stations, st)
	}
	if err := scanner.Err(); err != nil {
		return stations, fmt.Errorf("failed to read playlist %s: %w", key, err)
	}

	return stations, nil
}

// Save overwrites the playlist file named by key with one line per station,
// in sequence order.
func (s *Store) Save(key string, stations []station.Station) error {
	path := filepath.Join(s.dir, key)

	var b strings.Builder
	for _, st := range stations {
		b.WriteString(formatLine(st))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save playlist %s: %w", key, err)
	}

	log.Debug().Str("playlist", key).Int("stations", len(stations)).Msg("Playlist saved")
	return nil
}

// Discover enumerates the playlist files (*.txt) in the store directory.
// It re-scans on every call since files may be added externally.
func (s *Store) Discover() []string {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.txt"))
	if err != nil {
		log.Warn().Err(err).Msg("Playlist discovery failed")
		return nil
	}

	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, filepath.Base(m))
	}
	sort.Strings(keys)
	return keys
}

// LoadFavorites reads the favorites file, which uses the playlist line format.
func (s *Store) LoadFavorites() ([]station.Station, error) {
	return s.Load(config.FavoritesFile)
}

// SaveFavorites overwrites the favorites file.
func (s *Store) SaveFavorites(stations []station.Station) error {
	return s.Save(config.FavoritesFile, stations)
}

// parseLine extracts a station from a single playlist line.
// Split is on the first "link:" occurrence only.
func parseLine(line string) (station.Station, bool) {
	parts := strings.SplitN(line, linkMarker, 2)
	if len(parts) != 2 {
		return station.Station{}, false
	}

	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "name:"))
	url := strings.TrimSpace(parts[1])
	if url == "" {
		return station.Station{}, false
	}

	return station.Station{Name: name, URL: url}, true
}

func formatLine(st station.Station) string {
	return fmt.Sprintf("name: %s link: %s", st.Name, st.URL)
}
