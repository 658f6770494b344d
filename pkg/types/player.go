package types

import "fmt"

// PlaybackState is the media player's state machine state.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// RepeatMode controls end-of-track behaviour.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
	RepeatAll
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// ParseRepeatMode converts the persisted string form back to a mode.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "off", "":
		return RepeatOff, nil
	case "one":
		return RepeatOne, nil
	case "all":
		return RepeatAll, nil
	}
	return RepeatOff, fmt.Errorf("unknown repeat mode %q", s)
}

// MarshalYAML persists the mode as its string form.
func (m RepeatMode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML accepts the string form.
func (m *RepeatMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	mode, err := ParseRepeatMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// PlayerPrefs is the persisted subset of the media player's state.
// Transient fields (position, playlist, state) are deliberately absent.
type PlayerPrefs struct {
	Volume float64    `yaml:"volume"`
	Speed  float64    `yaml:"speed"`
	Repeat RepeatMode `yaml:"repeat"`
}

// DefaultPlayerPrefs returns the player defaults: full volume, normal
// speed, no repeat.
func DefaultPlayerPrefs() PlayerPrefs {
	return PlayerPrefs{Volume: 1.0, Speed: 1.0, Repeat: RepeatOff}
}
