package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCmd runs a glob query under the current directory.
func NewSearchCmd() *cobra.Command {
	var recent bool

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search the current directory subtree with a glob pattern",
		Args: func(cmd *cobra.Command, args []string) error {
			if recent {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			if recent {
				queries, err := s.RecentSearches(20)
				if err != nil {
					return err
				}
				if len(queries) == 0 {
					fmt.Println("No search history.")
					return nil
				}
				for _, q := range queries {
					fmt.Printf("%-24s %4d result(s)  %s\n", q.Pattern, q.ResultCount, q.Directory)
				}
				return nil
			}

			results, err := s.Search(args[0])
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Printf("No matches for %q under %s\n", args[0], s.CurrentDir())
				return nil
			}
			for i, r := range results {
				fmt.Printf("%3d  %-40s %10s  %s\n", i, r.Name, r.SizeFormatted(), r.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "show recent searches instead of searching")
	return cmd
}
