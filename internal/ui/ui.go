// Package ui runs the interactive menu loop. It is strictly single-threaded:
// each iteration drains pending monitor notifications, renders the current
// view, blocks on one line of input, and dispatches it. Playback state is
// only ever touched through the controller's operations.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/player"
	"github.com/radioterm/radioterm/internal/session"
	"github.com/radioterm/radioterm/internal/station"
	"github.com/rs/zerolog/log"
)

// Controller is the playback surface the menu loop drives. It matches
// *player.Controller.
type Controller interface {
	Play(key string, index int, stations []station.Station, force bool) error
	Stop()
	AdjustVolume(delta int) error
	ToggleMute() error
	IsPlaying() bool
	Current() (name string, index int, ok bool)
	Volume() int
	Muted() bool
	Events() <-chan player.Event
}

// UI is the command loop over a session and a playback controller.
type UI struct {
	sess    *session.Session
	ctrl    Controller
	in      *bufio.Scanner
	out     io.Writer
	cursor  int // index into the visible list that n/p step through
	running bool
}

func NewUI(sess *session.Session, ctrl Controller, in io.Reader, out io.Writer) *UI {
	return &UI{
		sess: sess,
		ctrl: ctrl,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run enters the menu loop. When resume is true and a last-played pointer
// exists, playback restarts immediately; otherwise the user is asked.
// Run returns on the exit command or on end of input, always stopping the
// player first.
func (u *UI) Run(resume bool) error {
	defer u.ctrl.Stop()

	u.maybeResume(resume)

	u.running = true
	for u.running {
		u.iterate()
	}

	fmt.Fprintln(u.out, goodbyeStyle.Render("Exiting the radio station manager. Goodbye!"))
	return nil
}

// iterate runs a single loop turn. A panic in dispatch is reported and the
// loop continues; only the exit command ends the session.
func (u *UI) iterate() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Command loop iteration panicked")
			fmt.Fprintln(u.out, errorStyle.Render(fmt.Sprintf("An error occurred: %v", r)))
		}
	}()

	u.drainEvents()
	u.render()

	line, ok := u.readLine(promptStyle.Render("Enter your choice: "))
	if !ok {
		u.running = false
		return
	}

	u.dispatch(strings.ToLower(strings.TrimSpace(line)))
}

// drainEvents consumes pending monitor notifications without blocking.
// Multiple stop events collapse to the same outcome.
func (u *UI) drainEvents() {
	for {
		select {
		case ev := <-u.ctrl.Events():
			if ev == player.EventStopped {
				// The monitor already cleared the playing flag; clearing the
				// dead process handle stays on this goroutine.
				u.ctrl.Stop()
				fmt.Fprintln(u.out, warnStyle.Render("Playback stopped (stream ended or player exited)."))
			}
		default:
			return
		}
	}
}

func (u *UI) dispatch(cmd string) {
	switch cmd {
	case "e", "q":
		u.running = false
	case "n":
		u.step(1)
	case "p":
		u.step(-1)
	case ">":
		u.sess.NextPage()
	case "<":
		u.sess.PrevPage()
	case "/":
		term, ok := u.readLine("Enter search term: ")
		if ok {
			u.sess.SetSearch(strings.TrimSpace(term))
		}
	case "c":
		u.sess.ClearSearch()
	case "v":
		u.sess.CycleView()
	case "s":
		u.switchPlaylist()
	case "a":
		u.addStation()
	case "d":
		u.deleteStation()
	case "f":
		u.toggleFavorite()
	case "+":
		u.changeVolume(config.VolumeStep)
	case "-":
		u.changeVolume(-config.VolumeStep)
	case "m":
		u.toggleMute()
	case "t", "":
		// Bare Enter and "t" both toggle playback (space collapses to
		// the empty token after trimming).
		u.togglePlayback()
	case "h":
		u.renderHelp()
		u.readLine("Press Enter to return to the menu...")
	default:
		if n, err := strconv.Atoi(cmd); err == nil {
			u.jumpTo(n - 1)
			return
		}
		fmt.Fprintln(u.out, errorStyle.Render("Invalid option. Press h for help."))
	}
}

// step moves the cursor through the visible list with wraparound and plays
// the station it lands on.
func (u *UI) step(delta int) {
	visible := u.sess.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(u.out, warnStyle.Render("No stations to play."))
		return
	}

	u.cursor = ((u.cursor+delta)%len(visible) + len(visible)) % len(visible)
	u.playVisible(u.cursor)
}

func (u *UI) jumpTo(index int) {
	visible := u.sess.Visible()
	if index < 0 || index >= len(visible) {
		fmt.Fprintln(u.out, errorStyle.Render("Invalid station number."))
		return
	}
	u.cursor = index
	u.playVisible(index)
}

// playVisible starts stations[index] of the current visible list and records
// the play. The resume pointer only moves for unfiltered plays from the main
// view; positions in search results or other views are not stable across
// restarts.
func (u *UI) playVisible(index int) {
	visible := u.sess.Visible()
	if index < 0 || index >= len(visible) {
		fmt.Fprintln(u.out, errorStyle.Render("Invalid station number."))
		return
	}

	st := visible[index]
	fmt.Fprintln(u.out, warnStyle.Render(fmt.Sprintf("Loading station: %s...", st.DisplayName())))

	if err := u.ctrl.Play(u.sess.PlaylistKey(), index, visible, false); err != nil {
		fmt.Fprintln(u.out, errorStyle.Render(fmt.Sprintf("Error playing station: %v", err)))
		return
	}

	if u.sess.View() == session.ViewAll && u.sess.SearchTerm() == "" {
		u.sess.RecordPlayback(u.sess.PlaylistKey(), index, st)
	} else {
		u.sess.AddToHistory(st)
	}

	fmt.Fprintln(u.out, playingStyle.Render(fmt.Sprintf("Now playing: %s", st.DisplayName())))
}

func (u *UI) togglePlayback() {
	if u.ctrl.IsPlaying() {
		u.ctrl.Stop()
		fmt.Fprintln(u.out, warnStyle.Render("Playback stopped."))
		return
	}
	u.playVisible(u.cursor)
}

func (u *UI) changeVolume(delta int) {
	if err := u.ctrl.AdjustVolume(delta); err != nil {
		fmt.Fprintln(u.out, errorStyle.Render(fmt.Sprintf("Error adjusting volume: %v", err)))
	}
	u.sess.SetVolumeState(u.ctrl.Volume(), u.ctrl.Muted())
}

func (u *UI) toggleMute() {
	if err := u.ctrl.ToggleMute(); err != nil {
		fmt.Fprintln(u.out, errorStyle.Render(fmt.Sprintf("Error toggling mute: %v", err)))
	}
	u.sess.SetVolumeState(u.ctrl.Volume(), u.ctrl.Muted())
}

func (u *UI) switchPlaylist() {
	keys := u.sess.DiscoverPlaylists()

	fmt.Fprintln(u.out, headerStyle.Render("Available Playlists:"))
	for i, key := range keys {
		marker := ""
		if key == u.sess.PlaylistKey() {
			marker = " (current)"
		}
		fmt.Fprintf(u.out, "%3d. %s%s\n", i+1, key, playingStyle.Render(marker))
	}
	fmt.Fprintln(u.out, "  [n] Create new playlist   [c] Cancel")

	choice, ok := u.readLine("Enter your choice: ")
	if !ok {
		return
	}
	choice = strings.ToLower(strings.TrimSpace(choice))

	switch {
	case choice == "c" || choice == "":
		return
	case choice == "n":
		name, ok := u.readLine("Enter new playlist filename (*.txt): ")
		if !ok {
			return
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if !strings.HasSuffix(name, ".txt") {
			name += ".txt"
		}
		u.sess.SwitchPlaylist(name)
		u.cursor = 0
	default:
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(keys) {
			fmt.Fprintln(u.out, errorStyle.Render("Invalid playlist number."))
			return
		}
		u.sess.SwitchPlaylist(keys[idx-1])
		u.cursor = 0
	}
}

func (u *UI) addStation() {
	name, ok := u.readLine("Enter station name: ")
	if !ok {
		return
	}
	url, ok := u.readLine("Enter station URL: ")
	if !ok {
		return
	}

	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		fmt.Fprintln(u.out, errorStyle.Render("Both a name and a URL are required."))
		return
	}

	u.sess.AddStation(station.Station{Name: name, URL: url})
	fmt.Fprintln(u.out, playingStyle.Render(fmt.Sprintf("Added: %s", name)))
}

func (u *UI) deleteStation() {
	st, ok := u.pickVisible("Enter station number to delete: ")
	if !ok {
		return
	}

	if !u.sess.RemoveStation(st) {
		fmt.Fprintln(u.out, errorStyle.Render("Station is not in the current playlist."))
		return
	}
	fmt.Fprintln(u.out, warnStyle.Render(fmt.Sprintf("Deleted: %s", st.DisplayName())))
}

func (u *UI) toggleFavorite() {
	st, ok := u.pickVisible("Enter station number to toggle favorite: ")
	if !ok {
		return
	}

	u.sess.ToggleFavorite(st)
	if u.sess.IsFavorite(st) {
		fmt.Fprintln(u.out, playingStyle.Render(fmt.Sprintf("Added to favorites: %s", st.DisplayName())))
	} else {
		fmt.Fprintln(u.out, warnStyle.Render(fmt.Sprintf("Removed from favorites: %s", st.DisplayName())))
	}
}

// pickVisible prompts for a 1-based number into the visible list.
func (u *UI) pickVisible(prompt string) (station.Station, bool) {
	line, ok := u.readLine(prompt)
	if !ok {
		return station.Station{}, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintln(u.out, errorStyle.Render("Invalid input."))
		return station.Station{}, false
	}

	visible := u.sess.Visible()
	if n < 1 || n > len(visible) {
		fmt.Fprintln(u.out, errorStyle.Render("Invalid station number."))
		return station.Station{}, false
	}

	return visible[n-1], true
}

func (u *UI) maybeResume(auto bool) {
	lp := u.sess.LastPlayed()
	if lp == nil {
		return
	}

	if !auto {
		answer, ok := u.readLine("Resume last played station? (y/n): ")
		if !ok || strings.ToLower(strings.TrimSpace(answer)) != "y" {
			return
		}
	}

	if lp.Playlist != u.sess.PlaylistKey() {
		u.sess.SwitchPlaylist(lp.Playlist)
	}

	stations := u.sess.Stations()
	if lp.StationIdx < 0 || lp.StationIdx >= len(stations) {
		fmt.Fprintln(u.out, warnStyle.Render("Last played station no longer exists."))
		return
	}

	u.cursor = lp.StationIdx
	u.playVisible(lp.StationIdx)
}

func (u *UI) readLine(prompt string) (string, bool) {
	fmt.Fprint(u.out, prompt)
	if !u.in.Scan() {
		return "", false
	}
	return u.in.Text(), true
}
