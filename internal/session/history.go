package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/station"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// HistoryEntry records one playback start.
type HistoryEntry struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	Timestamp time.Time `yaml:"timestamp"`
}

// History returns the log in chronological order, oldest first,
// never more than config.MaxHistorySize entries.
func (s *Session) History() []HistoryEntry { return s.history }

// HistoryStations returns the history as stations, most recent first,
// for rendering in the history view.
func (s *Session) HistoryStations() []station.Station {
	stations := make([]station.Station, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		stations = append(stations, station.Station{Name: s.history[i].Name, URL: s.history[i].URL})
	}
	return stations
}

// AddToHistory appends an entry, evicting the oldest once the cap is
// reached, and flushes the file.
func (s *Session) AddToHistory(st station.Station) {
	s.history = append(s.history, HistoryEntry{
		Name:      st.Name,
		URL:       st.URL,
		Timestamp: s.now(),
	})
	if len(s.history) > config.MaxHistorySize {
		s.history = s.history[len(s.history)-config.MaxHistorySize:]
	}

	if err := saveHistory(s.store.Dir(), s.history); err != nil {
		log.Warn().Err(err).Msg("Could not save history")
	}
}

func historyPath(dir string) string {
	return filepath.Join(dir, config.HistoryFileName)
}

func loadHistory(dir string) ([]HistoryEntry, error) {
	data, err := os.ReadFile(historyPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var entries []HistoryEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}

	if len(entries) > config.MaxHistorySize {
		entries = entries[len(entries)-config.MaxHistorySize:]
	}
	return entries, nil
}

func saveHistory(dir string, entries []HistoryEntry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(historyPath(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
