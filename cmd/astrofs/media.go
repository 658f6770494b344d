package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewMediaCmd groups the media player subcommands. Playback state is
// persisted as preferences (volume, speed, repeat); position is
// transient and starts at zero each invocation.
func NewMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Control the media player state machine",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "play <path>",
		Short: "Load a track and start playing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.PlayMedia(args[0]); err != nil {
				return err
			}
			fmt.Println(s.MediaStatus())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			s.PauseMedia()
			fmt.Println(s.MediaStatus())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Toggle between playing and paused",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ToggleMediaPlayback(); err != nil {
				return err
			}
			fmt.Println(s.MediaStatus())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seek <duration|+|->",
		Short: "Seek to a position (e.g. 1m30s), or step with + / -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			step := time.Duration(cfg.Media.SeekStep * float64(time.Second))
			switch args[0] {
			case "+":
				err = s.MediaSeekBy(step)
			case "-":
				err = s.MediaSeekBy(-step)
			default:
				pos, perr := time.ParseDuration(args[0])
				if perr != nil {
					return fmt.Errorf("invalid duration %q: %w", args[0], perr)
				}
				err = s.MediaSeek(pos)
			}
			if err != nil {
				return err
			}
			fmt.Println(s.MediaStatus())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "volume <delta|up|down>",
		Short: "Adjust volume by a delta in [-1, 1], or step with up / down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseStep(args[0], cfg.Media.VolumeStep)
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			s.MediaAdjustVolume(delta)
			fmt.Println(s.MediaStatus())
			return persistAndClose(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "speed <delta|up|down>",
		Short: "Adjust playback speed by a delta, or step with up / down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseStep(args[0], cfg.Media.SpeedStep)
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			s.MediaAdjustSpeed(delta)
			fmt.Println(s.MediaStatus())
			return persistAndClose(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the playback status line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			snap := s.Player()
			fmt.Println(s.MediaStatus())
			if snap.CurrentTrack != "" {
				fmt.Printf("Track %d/%d: %s\n", snap.CurrentIndex+1, len(snap.Playlist), snap.CurrentTrack)
			}
			return nil
		},
	})

	return cmd
}

func parseStep(s string, step float64) (float64, error) {
	switch s {
	case "up":
		return step, nil
	case "down":
		return -step, nil
	}
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
