package main

import (
	"fmt"

	"astrofs/internal/config"
	"astrofs/internal/errors"
	"astrofs/internal/log"
	"astrofs/internal/session"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	startDir string
	debug    bool
	cfg      *config.Config
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "astrofs",
		Short:   "A file navigator with search, bookmarks, themes, plugins, and a media player",
		Long:    "AstroFS navigates directories, searches them, bookmarks them,\nand keeps your themes, plugins, and playback preferences across sessions.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				log.Warn("using default settings: %v", err)
				cfg = config.New()
			}
			if startDir != "" {
				cfg.General.DefaultDirectory = startDir
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/astrofs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&startDir, "dir", "d", "", "directory to operate in (default is the configured start directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewLsCmd())
	rootCmd.AddCommand(NewNavCmd())
	rootCmd.AddCommand(NewMkfileCmd())
	rootCmd.AddCommand(NewMkdirCmd())
	rootCmd.AddCommand(NewRmCmd())
	rootCmd.AddCommand(NewRenameCmd())
	rootCmd.AddCommand(NewDupCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewBookmarkCmd())
	rootCmd.AddCommand(NewThemeCmd())
	rootCmd.AddCommand(NewPluginCmd())
	rootCmd.AddCommand(NewMediaCmd())
	rootCmd.AddCommand(NewSettingsCmd())

	return rootCmd
}

// openSession builds a session for one command invocation and restores
// persisted preferences. A missing settings document just means
// defaults.
func openSession() (*session.Session, error) {
	s, err := session.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.LoadUserPreferences(); err != nil && !errors.IsNotFound(err) {
		log.Warn("preferences not applied: %v", err)
	}
	if err := s.LoadPlugins(); err != nil && !errors.IsNoPluginsFound(err) {
		log.Warn("plugins not loaded: %v", err)
	}
	if cfg.General.WatchDirectory {
		if err := s.WatchCurrentDir(true); err != nil {
			log.Warn("directory watching unavailable: %v", err)
		}
	}
	return s, nil
}

// persistAndClose saves settings after a mutating command, then closes.
func persistAndClose(s *session.Session) error {
	if err := s.SaveSettings(); err != nil {
		s.Close()
		return fmt.Errorf("saving settings: %w", err)
	}
	return s.Close()
}
