// Package player owns the external media player process and the playback
// state. All spawning and killing happens on the caller's goroutine; the
// monitor goroutine only observes process liveness and reports deaths.
package player

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/radioterm/radioterm/internal/config"
	"github.com/radioterm/radioterm/internal/station"
	"github.com/rs/zerolog/log"
)

const (
	// PlayerBinary is the external process that performs the actual
	// audio decoding and playback.
	PlayerBinary = "ffplay"

	// MonitorInterval bounds how long the playing flag may lag behind an
	// externally died process.
	MonitorInterval = time.Second

	eventBufferSize = 8
)

type State int

const (
	StateIdle State = iota
	StateStarting
	StatePlaying
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StatePlaying:
		return "PLAYING"
	case StateStopping:
		return "STOPPING"
	default:
		return "UNKNOWN"
	}
}

// Event is a notification from the monitor goroutine to the main loop.
type Event int

const (
	// EventStopped signals that the player process died without a Stop call.
	EventStopped Event = iota
)

// URLResolver resolves a station URL to a playable stream URL.
type URLResolver interface {
	Resolve(url string) string
}

// process is a handle to a spawned player. done is closed by the reaper
// goroutine once the process exits, which makes liveness checks non-blocking.
type process struct {
	kill func() error
	done chan struct{}
}

func (p *process) alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// spawnFunc starts the external player with the given arguments.
// Injectable so tests can count spawns without a real binary.
type spawnFunc func(args []string) (*process, error)

func spawnPlayer(args []string) (*process, error) {
	cmd := exec.Command(PlayerBinary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", PlayerBinary, err)
	}

	p := &process{
		kill: func() error { return cmd.Process.Kill() },
		done: make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// CheckBinary reports whether the external player is installed.
// A missing binary is the one fatal startup condition.
func CheckBinary() error {
	if _, err := exec.LookPath(PlayerBinary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", PlayerBinary, err)
	}
	return nil
}

// Controller manages the single external player process and the playback
// state. At most one live process exists at any instant: starting a new
// station synchronously terminates the previous one first.
type Controller struct {
	mu           sync.Mutex
	state        State
	isPlaying    bool
	currentIndex int
	currentName  string
	playlistKey  string
	stations     []station.Station // snapshot of the list last played from
	proc         *process
	volume       int
	muted        bool

	events      chan Event
	spawn       spawnFunc
	resolver    URLResolver
	stopMonitor chan struct{}
}

// NewController creates an idle controller with the given starting volume.
func NewController(resolver URLResolver, volume int, muted bool) *Controller {
	return &Controller{
		state:    StateIdle,
		volume:   config.ClampVolume(volume),
		muted:    muted,
		resolver: resolver,
		spawn:    spawnPlayer,
		events:   make(chan Event, eventBufferSize),
	}
}

// Events is the notification channel the main loop drains non-blockingly
// once per iteration. Multiple stop events are idempotent.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Play starts playback of stations[index]. When the same station is already
// playing and force is false, this is a no-op and no process is spawned.
// Otherwise any current playback is stopped first, the stream URL resolved,
// and the player spawned. Playback state is only mutated after the spawn
// succeeds, so a failed spawn leaves the controller stopped with its prior
// index and name untouched.
func (c *Controller) Play(key string, index int, stations []station.Station, force bool) error {
	c.mu.Lock()

	if index < 0 || index >= len(stations) {
		c.mu.Unlock()
		return fmt.Errorf("station index %d out of range [0, %d)", index, len(stations))
	}

	if c.isPlaying && !force && c.playlistKey == key && c.currentIndex == index &&
		c.currentName == stations[index].Name && c.proc != nil && c.proc.alive() {
		c.mu.Unlock()
		return nil
	}

	c.stopLocked()
	c.state = StateStarting
	st := stations[index]
	volume := c.effectiveVolumeLocked()
	c.mu.Unlock()

	// Synchronous HTTP probe; failure falls back to the original URL.
	streamURL := c.resolver.Resolve(st.URL)

	proc, err := c.spawn(playerArgs(volume, streamURL))
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return fmt.Errorf("failed to play %q: %w", st.Name, err)
	}

	snapshot := make([]station.Station, len(stations))
	copy(snapshot, stations)

	c.mu.Lock()
	c.proc = proc
	c.isPlaying = true
	c.state = StatePlaying
	c.currentIndex = index
	c.currentName = st.Name
	c.playlistKey = key
	c.stations = snapshot
	c.mu.Unlock()

	log.Debug().Str("station", st.Name).Str("url", streamURL).Msg("Playback started")
	return nil
}

// Stop terminates any current playback. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.proc == nil && !c.isPlaying {
		return
	}

	c.state = StateStopping
	if c.proc != nil {
		if err := c.proc.kill(); err != nil {
			// Process may have already exited; killing a dead process is fine.
			log.Debug().Err(err).Msg("Kill on stop failed")
		}
		c.proc = nil
	}
	c.isPlaying = false
	c.currentName = ""
	c.state = StateIdle

	log.Debug().Msg("Playback stopped")
}

// AdjustVolume shifts the volume by delta, clamped to [0, 100]. The external
// player has no live volume control, so an active stream is restarted with
// the new volume filter. The reconnect glitch is audible and expected.
func (c *Controller) AdjustVolume(delta int) error {
	c.mu.Lock()
	c.volume = config.ClampVolume(c.volume + delta)
	log.Debug().Int("volume", c.volume).Msg("Volume adjusted")
	c.mu.Unlock()

	return c.restartIfPlaying()
}

// ToggleMute flips the mute flag. Same restart rule as AdjustVolume.
func (c *Controller) ToggleMute() error {
	c.mu.Lock()
	c.muted = !c.muted
	log.Debug().Bool("muted", c.muted).Msg("Mute toggled")
	c.mu.Unlock()

	return c.restartIfPlaying()
}

func (c *Controller) restartIfPlaying() error {
	c.mu.Lock()
	playing := c.isPlaying
	key := c.playlistKey
	index := c.currentIndex
	stations := c.stations
	c.mu.Unlock()

	if !playing {
		return nil
	}
	return c.Play(key, index, stations, true)
}

// CheckAlive reports whether the owned process, if any, is still running.
// Never blocks.
func (c *Controller) CheckAlive() bool {
	c.mu.Lock()
	proc := c.proc
	c.mu.Unlock()

	return proc != nil && proc.alive()
}

// IsPlaying reports whether the controller believes a stream is playing.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isPlaying
}

// Current returns the playing station's name and index within the list it
// was started from. ok is false when nothing is playing.
func (c *Controller) Current() (name string, index int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isPlaying {
		return "", 0, false
	}
	return c.currentName, c.currentIndex, true
}

// PlaylistKey returns the playlist the current station was played from.
func (c *Controller) PlaylistKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlistKey
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Volume() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// effectiveVolumeLocked is the volume actually applied to playback,
// accounting for mute.
func (c *Controller) effectiveVolumeLocked() int {
	if c.muted {
		return 0
	}
	return c.volume
}

// StartMonitor launches the background liveness monitor. Every interval it
// checks whether a believed-playing process has died; if so it clears the
// playing flag and name and enqueues an EventStopped for the main loop.
// It never spawns or kills processes. The process handle itself is left for
// the main loop to clear via Stop, so the handle has a single writer.
func (c *Controller) StartMonitor(interval time.Duration) {
	c.StopMonitor()

	c.mu.Lock()
	c.stopMonitor = make(chan struct{})
	stopCh := c.stopMonitor
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.monitorTick()
			case <-stopCh:
				return
			}
		}
	}()

	log.Debug().Dur("interval", interval).Msg("Playback monitor started")
}

// StopMonitor halts the background monitor. Safe to call when not running.
func (c *Controller) StopMonitor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopMonitor != nil {
		close(c.stopMonitor)
		c.stopMonitor = nil
	}
}

func (c *Controller) monitorTick() {
	// A panic in one tick must not kill the monitor loop.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Monitor tick panicked")
		}
	}()

	c.mu.Lock()
	died := c.isPlaying && (c.proc == nil || !c.proc.alive())
	if died {
		c.isPlaying = false
		c.currentName = ""
		c.state = StateIdle
	}
	c.mu.Unlock()

	if !died {
		return
	}

	log.Debug().Msg("Player process died unexpectedly")
	select {
	case c.events <- EventStopped:
	default:
		// Undrained events collapse to the same "not playing" outcome.
	}
}

// playerArgs builds the fixed ffplay argument list: no video, quiet output,
// a volume filter from the effective volume, an infinite input buffer, and
// auto-exit when the stream ends.
func playerArgs(effectiveVolume int, streamURL string) []string {
	return []string{
		"-nodisp",
		"-hide_banner",
		"-loglevel", "panic",
		"-vn",
		"-af", fmt.Sprintf("volume=%.2f", float64(effectiveVolume)/100),
		"-infbuf",
		"-autoexit",
		streamURL,
	}
}
