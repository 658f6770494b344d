// Package media is the playback state machine. It tracks state,
// position, volume, speed, repeat mode, and a playlist; it never
// decodes audio. Position advances only through Tick, driven by an
// external clock.
package media

import (
	"fmt"
	"time"

	"astrofs/internal/errors"
	"astrofs/internal/log"
	"astrofs/pkg/types"
)

// Volume and speed bounds.
const (
	MinVolume = 0.0
	MaxVolume = 1.0
	MinSpeed  = 0.25
	MaxSpeed  = 2.0
)

// DurationProbe reports a track's duration. Returning 0 means unknown;
// an unknown duration disables end-of-track handling and upper seek
// clamping for that track.
type DurationProbe func(path string) time.Duration

// Player is the media playback state machine.
type Player struct {
	state    types.PlaybackState
	position time.Duration
	duration time.Duration
	volume   float64
	speed    float64
	repeat   types.RepeatMode
	playlist []string
	current  int
	probe    DurationProbe
}

// NewPlayer creates a stopped player with default preferences.
func NewPlayer(probe DurationProbe) *Player {
	if probe == nil {
		probe = func(string) time.Duration { return 0 }
	}
	prefs := types.DefaultPlayerPrefs()
	return &Player{
		state:  types.Stopped,
		volume: prefs.Volume,
		speed:  prefs.Speed,
		repeat: prefs.Repeat,
		probe:  probe,
	}
}

// Play appends path to the playlist (unless already present), selects
// it, and starts playing from the beginning. Valid in any state.
func (p *Player) Play(path string) error {
	if path == "" {
		return errors.New(errors.InvalidArgument, "media path must not be empty")
	}
	idx := -1
	for i, existing := range p.playlist {
		if existing == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.playlist = append(p.playlist, path)
		idx = len(p.playlist) - 1
	}
	p.current = idx
	p.position = 0
	p.duration = p.probe(path)
	p.state = types.Playing
	log.Debug("playing %s (track %d/%d)", path, idx+1, len(p.playlist))
	return nil
}

// Pause transitions Playing to Paused; any other state is a no-op.
func (p *Player) Pause() {
	if p.state == types.Playing {
		p.state = types.Paused
	}
}

// Stop halts playback and resets the position.
func (p *Player) Stop() {
	p.state = types.Stopped
	p.position = 0
}

// Toggle maps Playing to Paused, and Paused or Stopped to Playing.
// Resuming from Stopped requires a non-empty playlist.
func (p *Player) Toggle() error {
	switch p.state {
	case types.Playing:
		p.state = types.Paused
		return nil
	case types.Paused:
		p.state = types.Playing
		return nil
	default:
		if len(p.playlist) == 0 {
			return errors.New(errors.InvalidArgument, "nothing to play")
		}
		p.state = types.Playing
		return nil
	}
}

// Seek moves the position to pos, clamped into [0, duration]. With an
// unknown duration only the lower bound applies. Valid while Playing or
// Paused.
func (p *Player) Seek(pos time.Duration) error {
	if p.state == types.Stopped {
		return errors.New(errors.InvalidArgument, "cannot seek while stopped")
	}
	if pos < 0 {
		pos = 0
	}
	if p.duration > 0 && pos > p.duration {
		pos = p.duration
	}
	p.position = pos
	return nil
}

// SeekBy moves the position relative to the current one, same clamping
// as Seek.
func (p *Player) SeekBy(delta time.Duration) error {
	return p.Seek(p.position + delta)
}

// AdjustVolume shifts the volume by delta, clamped into [0, 1]. Valid
// in any state.
func (p *Player) AdjustVolume(delta float64) {
	p.volume = clamp(p.volume+delta, MinVolume, MaxVolume)
}

// SetVolume sets the volume, clamped into [0, 1].
func (p *Player) SetVolume(v float64) {
	p.volume = clamp(v, MinVolume, MaxVolume)
}

// AdjustSpeed shifts the speed multiplier by delta, clamped into
// [0.25, 2.0]. Valid in any state.
func (p *Player) AdjustSpeed(delta float64) {
	p.speed = clamp(p.speed+delta, MinSpeed, MaxSpeed)
}

// SetSpeed sets the speed multiplier, clamped into [0.25, 2.0].
func (p *Player) SetSpeed(s float64) {
	p.speed = clamp(s, MinSpeed, MaxSpeed)
}

// CycleRepeat rotates Off, One, All, Off.
func (p *Player) CycleRepeat() types.RepeatMode {
	switch p.repeat {
	case types.RepeatOff:
		p.repeat = types.RepeatOne
	case types.RepeatOne:
		p.repeat = types.RepeatAll
	default:
		p.repeat = types.RepeatOff
	}
	return p.repeat
}

// SetRepeat sets the repeat mode directly.
func (p *Player) SetRepeat(mode types.RepeatMode) {
	p.repeat = mode
}

// Tick advances the position by elapsed wall time scaled by the speed
// multiplier. It only has effect while Playing. Reaching end-of-track
// applies the repeat mode: One replays the track, All advances with
// wrap-around, Off stops after the last track.
func (p *Player) Tick(elapsed time.Duration) {
	if p.state != types.Playing || elapsed <= 0 {
		return
	}
	p.position += time.Duration(float64(elapsed) * p.speed)
	if p.duration <= 0 || p.position < p.duration {
		return
	}

	switch p.repeat {
	case types.RepeatOne:
		p.position = 0
	case types.RepeatAll:
		p.advance(1, true)
	default:
		if p.current == len(p.playlist)-1 {
			p.Stop()
		} else {
			p.advance(1, false)
		}
	}
}

// Next skips to the following playlist track, wrapping around. With an
// empty playlist it is a no-op.
func (p *Player) Next() {
	if len(p.playlist) == 0 {
		return
	}
	p.advance(1, true)
}

// Previous skips to the preceding playlist track, wrapping around.
func (p *Player) Previous() {
	if len(p.playlist) == 0 {
		return
	}
	p.advance(-1, true)
}

func (p *Player) advance(step int, wrap bool) {
	n := len(p.playlist)
	next := p.current + step
	if wrap {
		next = ((next % n) + n) % n
	}
	p.current = next
	p.position = 0
	p.duration = p.probe(p.playlist[p.current])
}

// State reports the playback state.
func (p *Player) State() types.PlaybackState { return p.state }

// Position reports the playback position.
func (p *Player) Position() time.Duration { return p.position }

// Duration reports the current track's duration, 0 when unknown.
func (p *Player) Duration() time.Duration { return p.duration }

// Volume reports the volume in [0, 1].
func (p *Player) Volume() float64 { return p.volume }

// Speed reports the speed multiplier.
func (p *Player) Speed() float64 { return p.speed }

// Repeat reports the repeat mode.
func (p *Player) Repeat() types.RepeatMode { return p.repeat }

// Playlist returns a copy of the playlist.
func (p *Player) Playlist() []string {
	out := make([]string, len(p.playlist))
	copy(out, p.playlist)
	return out
}

// CurrentIndex reports the playlist cursor; it is meaningful only when
// the playlist is non-empty.
func (p *Player) CurrentIndex() int { return p.current }

// CurrentTrack returns the selected track path, or false when the
// playlist is empty.
func (p *Player) CurrentTrack() (string, bool) {
	if len(p.playlist) == 0 {
		return "", false
	}
	return p.playlist[p.current], true
}

// Prefs returns the persistable player preferences.
func (p *Player) Prefs() types.PlayerPrefs {
	return types.PlayerPrefs{Volume: p.volume, Speed: p.speed, Repeat: p.repeat}
}

// ApplyPrefs restores persisted preferences, clamping each field.
func (p *Player) ApplyPrefs(prefs types.PlayerPrefs) {
	p.SetVolume(prefs.Volume)
	p.SetSpeed(prefs.Speed)
	p.repeat = prefs.Repeat
}

// Progress reports position over duration in [0, 1], 0 when the
// duration is unknown.
func (p *Player) Progress() float64 {
	if p.duration <= 0 {
		return 0
	}
	return float64(p.position) / float64(p.duration)
}

// StatusLine renders a one-line playback summary.
func (p *Player) StatusLine() string {
	var glyph string
	switch p.state {
	case types.Playing:
		glyph = "▶"
	case types.Paused:
		glyph = "⏸"
	default:
		glyph = "⏹"
	}
	line := fmt.Sprintf("%s %s / %s | Volume: %.0f%%",
		glyph, formatClock(p.position), formatClock(p.duration), p.volume*100)
	if diff := p.speed - 1.0; diff > 0.01 || diff < -0.01 {
		line += fmt.Sprintf(" %gx", p.speed)
	}
	switch p.repeat {
	case types.RepeatOne:
		line += " 🔂"
	case types.RepeatAll:
		line += " 🔁"
	}
	return line
}

func formatClock(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
