package main

import (
	"fmt"

	"astrofs/internal/errors"

	"github.com/spf13/cobra"
)

// NewPluginCmd groups the plugin subcommands.
func NewPluginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "List, enable, or disable plugins",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List discovered plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			snap := s.Plugins()
			if len(snap.Plugins) == 0 {
				fmt.Println("No plugins found.")
				return nil
			}
			for _, p := range snap.Plugins {
				state := "disabled"
				if p.Enabled {
					state = "enabled"
				}
				fmt.Printf("%-16s %-8s %-8s %s\n", p.ID, p.Version, state, p.Description)
			}
			for _, c := range snap.Commands {
				fmt.Printf("  command: %-16s %s\n", c.Name, c.Description)
			}
			return nil
		},
	})

	toggle := func(use, short string, act func(*cobra.Command, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return act(cmd, args[0])
			},
		}
	}

	cmd.AddCommand(toggle("enable <id>", "Enable a plugin", func(cmd *cobra.Command, id string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.EnablePlugin(id); err != nil {
			s.Close()
			if errors.IsNotFound(err) {
				return fmt.Errorf("no plugin with id %q (is it in the plugin directory?)", id)
			}
			return err
		}
		fmt.Printf("Enabled %s\n", id)
		return persistAndClose(s)
	}))

	cmd.AddCommand(toggle("disable <id>", "Disable a plugin", func(cmd *cobra.Command, id string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if err := s.DisablePlugin(id); err != nil {
			s.Close()
			return err
		}
		fmt.Printf("Disabled %s\n", id)
		return persistAndClose(s)
	}))

	return cmd
}
