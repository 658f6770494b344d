package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewThemeCmd groups the theme subcommands.
func NewThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "List or switch themes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			snap := s.Theme()
			for _, name := range snap.Available {
				marker := "  "
				if name == snap.Active {
					marker = "* "
				}
				fmt.Println(marker + name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Switch the active theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if err := s.SwitchTheme(args[0]); err != nil {
				s.Close()
				return err
			}
			fmt.Printf("Theme set to %s\n", args[0])
			return persistAndClose(s)
		},
	})

	return cmd
}
