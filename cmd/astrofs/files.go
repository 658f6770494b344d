package main

import (
	"fmt"
	"path/filepath"

	"astrofs/internal/session"
	"astrofs/pkg/types"

	"github.com/spf13/cobra"
)

func childPath(s *session.Session, name string) string {
	return filepath.Join(s.CurrentDir(), name)
}

func printEntries(entries []types.Entry) {
	if len(entries) == 0 {
		fmt.Println("(empty)")
		return
	}
	for _, e := range entries {
		marker := " "
		if e.Hidden {
			marker = "."
		}
		fmt.Printf("%s %-40s %10s\n", marker, e.Name, e.SizeFormatted())
	}
}

// NewLsCmd lists the current directory.
func NewLsCmd() *cobra.Command {
	var showHidden bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if showHidden && !s.Workspace().ShowHidden {
				if err := s.ToggleHidden(); err != nil {
					return err
				}
			}
			entries, err := s.ListFiles()
			if err != nil {
				return err
			}
			fmt.Println(s.CurrentDir())
			printEntries(entries)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showHidden, "all", "a", false, "include hidden entries")
	return cmd
}

// NewNavCmd verifies a path is navigable and lists it.
func NewNavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Navigate to a directory and list it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Navigate(args[0]); err != nil {
				return err
			}
			entries, err := s.ListFiles()
			if err != nil {
				return err
			}
			fmt.Println(s.CurrentDir())
			printEntries(entries)
			return nil
		},
	}
}

// NewMkfileCmd creates an empty file.
func NewMkfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkfile <name>",
		Short: "Create an empty file in the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.CreateFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Created %s\n", args[0])
			return nil
		},
	}
}

// NewMkdirCmd creates a directory.
func NewMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a directory in the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.CreateDirectory(args[0]); err != nil {
				return err
			}
			fmt.Printf("Created %s/\n", args[0])
			return nil
		},
	}
}

// NewRmCmd deletes a path.
func NewRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeletePath(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

// NewRenameCmd renames an entry in the current directory.
func NewRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename an entry in the current directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.SelectPath(childPath(s, args[0])) {
				return fmt.Errorf("no entry named %q in %s", args[0], s.CurrentDir())
			}
			if err := s.RenameSelected(args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewDupCmd duplicates an entry in the current directory.
func NewDupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dup <name>",
		Short: "Duplicate an entry in the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.SelectPath(childPath(s, args[0])) {
				return fmt.Errorf("no entry named %q in %s", args[0], s.CurrentDir())
			}
			if err := s.DuplicateSelected(); err != nil {
				return err
			}
			entry, _ := s.SelectedEntry()
			fmt.Printf("Duplicated %s to %s\n", args[0], entry.Name)
			return nil
		},
	}
}
