package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/radioterm/radioterm/internal/config"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	goodbyeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const dividerWidth = 50

func divider() string {
	return dividerStyle.Render(strings.Repeat("=", dividerWidth))
}

func (u *UI) render() {
	visible := u.sess.Visible()
	start, end := u.sess.PageBounds()

	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, headerStyle.Render(fmt.Sprintf("Radio Station Manager [Page %d/%d]",
		u.sess.Page(), u.sess.TotalPages())))
	fmt.Fprintln(u.out, divider())
	fmt.Fprintf(u.out, "Playlist: %s    View: %s    %s\n",
		u.sess.PlaylistKey(), u.sess.View(), u.volumeLabel())

	if name, _, ok := u.ctrl.Current(); ok {
		fmt.Fprintln(u.out, playingStyle.Render(fmt.Sprintf("Now Playing: %s", name)))
		fmt.Fprintln(u.out, divider())
	}

	if term := u.sess.SearchTerm(); term != "" {
		fmt.Fprintln(u.out, warnStyle.Render(fmt.Sprintf("Search: %q (%d results)", term, len(visible))))
	}

	fmt.Fprintln(u.out, headerStyle.Render("Stations:"))
	if len(visible) == 0 {
		fmt.Fprintln(u.out, mutedStyle.Render("  (no stations)"))
	}

	currentName, currentIdx, playing := u.ctrl.Current()
	for i := start; i < end; i++ {
		st := visible[i]
		line := fmt.Sprintf("%s %s", numberStyle.Render(fmt.Sprintf("%3d.", i+1)), st.DisplayName())
		if playing && i == currentIdx && st.Name == currentName {
			line = fmt.Sprintf("%s %s", line, playingStyle.Render("◄-- PLAYING"))
		}
		if u.sess.IsFavorite(st) {
			line = fmt.Sprintf("%s %s", line, warnStyle.Render("★"))
		}
		fmt.Fprintln(u.out, line)
	}

	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, mutedStyle.Render("[n/p] station  [</>] page  [#] jump  [/] search  [t] play/stop  [h] help  [e] exit"))
}

func (u *UI) volumeLabel() string {
	if u.ctrl.Muted() {
		return mutedStyle.Render(fmt.Sprintf("Volume: %d%% (muted)", u.ctrl.Volume()))
	}
	return fmt.Sprintf("Volume: %d%%", u.ctrl.Volume())
}

func (u *UI) renderHelp() {
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, headerStyle.Render(config.AppName+" help"))
	fmt.Fprintln(u.out, divider())

	sections := []struct {
		title string
		lines []string
	}{
		{"Navigation:", []string{
			"  </>  - Previous/next page",
			"  n/p  - Play next/previous station",
			"  1-99 - Jump to station number",
			"  /    - Search stations",
			"  c    - Clear search",
			"  v    - Switch view (all / favorites / history)",
		}},
		{"Playback:", []string{
			"  t    - Play/stop toggle",
			"  +/-  - Volume up/down (restarts the stream)",
			"  m    - Mute toggle (restarts the stream)",
		}},
		{"Playlist management:", []string{
			"  s    - Switch between playlists",
			"  a    - Add new station",
			"  d    - Delete station",
			"  f    - Toggle favorite",
		}},
		{"Other:", []string{
			"  h    - Show this help",
			"  e/q  - Exit",
		}},
	}

	for _, sec := range sections {
		fmt.Fprintln(u.out, warnStyle.Render(sec.title))
		for _, line := range sec.lines {
			fmt.Fprintln(u.out, line)
		}
	}
}
