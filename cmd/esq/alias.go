package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage index aliases",
	}

	cmd.AddCommand(newAliasListCmd())
	cmd.AddCommand(newAliasAddCmd())
	cmd.AddCommand(newAliasDeleteCmd())

	return cmd
}

func newAliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all aliases and the indices they point to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, buildErr := buildExtractor("")
			if buildErr != nil {
				return buildErr
			}

			aliases, listErr := engine.ListAliases(cmd.Context())
			if listErr != nil {
				return listErr
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, entry := range aliases {
				fmt.Fprintf(w, "%s\t->\t%s\n", entry.Alias, entry.Index)
			}

			return w.Flush()
		},
	}
}

func newAliasAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <alias> <index>",
		Short: "Point an alias at an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, buildErr := buildExtractor("")
			if buildErr != nil {
				return buildErr
			}

			if addErr := engine.AddAlias(cmd.Context(), args[0], args[1]); addErr != nil {
				return addErr
			}

			fmt.Printf("Alias %s now points to %s\n", args[0], args[1])

			return nil
		},
	}
}

func newAliasDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <alias> <index>",
		Short: "Remove an alias from an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, buildErr := buildExtractor("")
			if buildErr != nil {
				return buildErr
			}

			if deleteErr := engine.RemoveAlias(cmd.Context(), args[0], args[1]); deleteErr != nil {
				return deleteErr
			}

			fmt.Printf("Alias %s removed from %s\n", args[0], args[1])

			return nil
		},
	}
}
