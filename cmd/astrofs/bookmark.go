package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBookmarkCmd groups the bookmark subcommands.
func NewBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage directory bookmarks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Bookmark the current directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if err := s.AddBookmark(args[0]); err != nil {
				s.Close()
				return err
			}
			fmt.Printf("Bookmarked %s as %q\n", s.CurrentDir(), args[0])
			return persistAndClose(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			if err := s.RemoveBookmark(args[0]); err != nil {
				s.Close()
				return err
			}
			fmt.Printf("Removed bookmark %q\n", args[0])
			return persistAndClose(s)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "go <name>",
		Short: "List the bookmarked directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.GotoBookmark(args[0]); err != nil {
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
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			marks := s.Bookmarks().Bookmarks
			if len(marks) == 0 {
				fmt.Println("No bookmarks.")
				return nil
			}
			for _, b := range marks {
				fmt.Printf("%s %-16s %s\n", b.Icon, b.Name, b.Path)
			}
			return nil
		},
	})

	return cmd
}
