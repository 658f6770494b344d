package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSettingsCmd groups the settings subcommands.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Save, export, or import settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Persist the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveSettings(); err != nil {
				return err
			}
			fmt.Println("Settings saved.")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <path>",
		Short: "Write the current settings to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ExportSettings(args[0]); err != nil {
				return err
			}
			fmt.Printf("Settings exported to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <path>",
		Short: "Apply settings from a file and persist them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if err := s.ImportSettings(args[0]); err != nil {
				s.Close()
				return err
			}
			fmt.Printf("Settings imported from %s\n", args[0])
			return persistAndClose(s)
		},
	})

	return cmd
}
