// Package session holds the mutable menu state: current playlist, page,
// search filter, view mode, favorites and play history. Every mutation that
// touches persisted data is flushed to disk synchronously; there is no
// write-behind buffering.
package session

import (
	"time"

	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/playlist"
	"github.com/radioterm/radioterm/internal/station"
	"github.com/rs/zerolog/log"
)

// ViewMode selects which logical station list the menu renders.
type ViewMode int

const (
	ViewAll ViewMode = iota
	ViewFavorites
	ViewHistory
)

func (v ViewMode) String() string {
	switch v {
	case ViewAll:
		return "all"
	case ViewFavorites:
		return "favorites"
	case ViewHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Session is single-goroutine state driven by the command loop.
type Session struct {
	store *playlist.Store
	cfg   *config.Config

	playlistKey string
	stations    []station.Station
	page        int
	searchTerm  string
	view        ViewMode
	favorites   []station.Station
	history     []HistoryEntry

	now func() time.Time
}

// New loads the session from disk: the configured playlist, the favorites
// file, and the history file. Missing files yield empty state.
func New(store *playlist.Store, cfg *config.Config) *Session {
	s := &Session{
		store:       store,
		cfg:         cfg,
		playlistKey: cfg.CurrentPlaylist,
		page:        1,
		now:         time.Now,
	}

	var err error
	if s.stations, err = store.Load(s.playlistKey); err != nil {
		log.Warn().Err(err).Str("playlist", s.playlistKey).Msg("Could not load playlist")
	}
	if s.favorites, err = store.LoadFavorites(); err != nil {
		log.Warn().Err(err).Msg("Could not load favorites")
	}
	if s.history, err = loadHistory(store.Dir()); err != nil {
		log.Warn().Err(err).Msg("Could not load history")
	}

	return s
}

// PlaylistKey returns the current playlist file name.
func (s *Session) PlaylistKey() string { return s.playlistKey }

// Stations returns the stations of the current playlist in display order.
func (s *Session) Stations() []station.Station { return s.stations }

func (s *Session) Page() int          { return s.page }
func (s *Session) SearchTerm() string { return s.searchTerm }
func (s *Session) View() ViewMode     { return s.view }

// Visible returns the station list for the active view, filtered by the
// search term. Paging is applied by the caller via PageBounds.
func (s *Session) Visible() []station.Station {
	return station.Filter(s.viewStations(), s.searchTerm)
}

func (s *Session) viewStations() []station.Station {
	switch s.view {
	case ViewFavorites:
		return s.favorites
	case ViewHistory:
		return s.HistoryStations()
	default:
		return s.stations
	}
}

// TotalPages is always at least 1, so an empty list renders page 1/1.
func (s *Session) TotalPages() int {
	n := len(s.Visible())
	pages := (n + config.StationsPerPage - 1) / config.StationsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// PageBounds returns the half-open [start, end) slice range of the current
// page within Visible().
func (s *Session) PageBounds() (start, end int) {
	visible := len(s.Visible())
	if s.page > s.TotalPages() {
		s.page = s.TotalPages()
	}
	start = (s.page - 1) * config.StationsPerPage
	end = start + config.StationsPerPage
	if end > visible {
		end = visible
	}
	if start > visible {
		start = visible
	}
	return start, end
}

// NextPage advances one page, bounded to [1, TotalPages].
func (s *Session) NextPage() {
	if s.page < s.TotalPages() {
		s.page++
	}
}

// PrevPage steps back one page, bounded to [1, TotalPages].
func (s *Session) PrevPage() {
	if s.page > 1 {
		s.page--
	}
}

// SetSearch installs a search term and resets paging.
func (s *Session) SetSearch(term string) {
	s.searchTerm = term
	s.page = 1
}

// ClearSearch removes the search filter and resets paging.
func (s *Session) ClearSearch() {
	s.searchTerm = ""
	s.page = 1
}

// CycleView rotates all -> favorites -> history -> all, resetting page
// and search.
func (s *Session) CycleView() {
	s.view = (s.view + 1) % 3
	s.page = 1
	s.searchTerm = ""
}

// SwitchPlaylist makes key the current playlist, creating an empty playlist
// file when it does not exist yet. The choice is persisted immediately.
func (s *Session) SwitchPlaylist(key string) {
	stations, err := s.store.Load(key)
	if err != nil {
		log.Warn().Err(err).Str("playlist", key).Msg("Could not load playlist")
	}
	if stations == nil {
		if err := s.store.Save(key, nil); err != nil {
			log.Warn().Err(err).Str("playlist", key).Msg("Could not create playlist")
		}
	}

	s.playlistKey = key
	s.stations = stations
	s.page = 1
	s.searchTerm = ""
	s.view = ViewAll

	s.cfg.CurrentPlaylist = key
	s.saveConfig()
}

// ReloadPlaylists re-reads the current playlist from disk, picking up
// external edits.
func (s *Session) ReloadPlaylists() {
	stations, err := s.store.Load(s.playlistKey)
	if err != nil {
		log.Warn().Err(err).Str("playlist", s.playlistKey).Msg("Could not reload playlist")
		return
	}
	s.stations = stations
}

// DiscoverPlaylists lists the playlist files next to the current one.
func (s *Session) DiscoverPlaylists() []string {
	return s.store.Discover()
}

// AddStation appends a station to the current playlist and flushes it.
func (s *Session) AddStation(st station.Station) {
	s.stations = append(s.stations, st)
	if err := s.store.Save(s.playlistKey, s.stations); err != nil {
		log.Warn().Err(err).Msg("Could not save playlist")
	}
}

// RemoveStation deletes the first station equal to st from the current
// playlist. Returns false when no such station exists.
func (s *Session) RemoveStation(st station.Station) bool {
	idx := station.IndexOf(s.stations, st)
	if idx < 0 {
		return false
	}
	s.stations = append(s.stations[:idx], s.stations[idx+1:]...)
	if err := s.store.Save(s.playlistKey, s.stations); err != nil {
		log.Warn().Err(err).Msg("Could not save playlist")
	}
	return true
}

// IsFavorite reports membership by (name, url) equality.
func (s *Session) IsFavorite(st station.Station) bool {
	return station.IndexOf(s.favorites, st) >= 0
}

// ToggleFavorite flips membership of st in the favorites set and flushes.
// Toggling twice restores the original set.
func (s *Session) ToggleFavorite(st station.Station) {
	if idx := station.IndexOf(s.favorites, st); idx >= 0 {
		s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
	} else {
		s.favorites = append(s.favorites, st)
	}
	if err := s.store.SaveFavorites(s.favorites); err != nil {
		log.Warn().Err(err).Msg("Could not save favorites")
	}
}

// Favorites returns the favorites in insertion order.
func (s *Session) Favorites() []station.Station { return s.favorites }

// RecordPlayback appends a history entry and updates the last-played
// pointer, flushing both.
func (s *Session) RecordPlayback(key string, index int, st station.Station) {
	s.AddToHistory(st)
	s.cfg.LastPlayed = &config.LastPlayed{Playlist: key, StationIdx: index}
	s.saveConfig()
}

// SetVolumeState persists the playback volume and mute flag.
func (s *Session) SetVolumeState(volume int, muted bool) {
	s.cfg.Volume = config.ClampVolume(volume)
	s.cfg.Muted = muted
	s.saveConfig()
}

// LastPlayed returns the persisted resume pointer, or nil.
func (s *Session) LastPlayed() *config.LastPlayed {
	return s.cfg.LastPlayed
}

func (s *Session) saveConfig() {
	if err := s.cfg.Save(s.store.Dir()); err != nil {
		log.Warn().Err(err).Msg("Could not save config")
	}
}
