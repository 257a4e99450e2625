// Package station defines the data structures for radio stations.
package station

import "strings"

// DisplayNameLimit is the maximum number of runes shown for a station name.
const DisplayNameLimit = 40

// Station is a named stream URL entry in a playlist.
//
// Equality is by exact (Name, URL) pair. Two stations sharing a name but
// pointing at different URLs are distinct, so lookups by name alone are
// best-effort and ambiguous when playlists contain duplicate names.
type Station struct {
	Name string
	URL  string
}

// Equal reports whether two stations are the same (Name, URL) pair.
func (s Station) Equal(other Station) bool {
	return s.Name == other.Name && s.URL == other.URL
}

// DisplayName returns the station name truncated for rendering.
// The stored name is never modified.
func (s Station) DisplayName() string {
	runes := []rune(s.Name)
	if len(runes) <= DisplayNameLimit {
		return s.Name
	}
	return string(runes[:DisplayNameLimit])
}

// Filter returns the stations whose name contains term, case-insensitively.
// An empty term returns the input unchanged.
func Filter(stations []Station, term string) []Station {
	if term == "" {
		return stations
	}

	lowered := strings.ToLower(term)
	filtered := make([]Station, 0, len(stations))
	for _, st := range stations {
		if strings.Contains(strings.ToLower(st.Name), lowered) {
			filtered = append(filtered, st)
		}
	}
	return filtered
}

// IndexOf returns the position of the first station equal to target,
// or -1 when absent.
func IndexOf(stations []Station, target Station) int {
	for i, st := range stations {
		if st.Equal(target) {
			return i
		}
	}
	return -1
}
