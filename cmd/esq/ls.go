package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/esqproject/esq/extract/elasticengine"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the indices of the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, buildErr := buildExtractor("")
			if buildErr != nil {
				return buildErr
			}

			indices, listErr := engine.ListIndices(cmd.Context())
			if listErr != nil {
				return listErr
			}

			return printIndexNames(os.Stdout, indices)
		},
	}
}

// printIndexNames writes one index name per line.
func printIndexNames(w io.Writer, indices []elasticengine.IndexInfo) error {
	for _, index := range indices {
		if index.Index == "" {
			continue
		}

		if _, writeErr := fmt.Fprintln(w, index.Index); writeErr != nil {
			return writeErr
		}
	}

	return nil
}
