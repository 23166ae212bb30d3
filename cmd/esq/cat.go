package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/esqproject/esq/extract"
)

func newCatCmd() *cobra.Command {
	var (
		around string
		from   string
		to     string
		lines  uint
		follow bool
		sel    string
		where  string
	)

	cmd := &cobra.Command{
		Use:   "cat <index>",
		Short: "Print documents of an index in timestamp order",
		Long: `Print documents of an index in timestamp order.

Without flags the newest documents are printed. Time flags select a slice of
history, --follow keeps the extraction running and prints new documents as
they arrive. Time specs accept most common formats, for example
"2024-01-02 15:04:05" or "2024-01-02T15:04:05Z".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := extract.Options{
				Around: around,
				From:   from,
				To:     to,
				Lines:  lines,
				Follow: follow,
			}
			if cmd.Flags().Changed("select") {
				opts.Select = &sel
			}
			if cmd.Flags().Changed("where") {
				opts.Where = &where
			}

			plan, planErr := extract.ResolvePlan(opts)
			if planErr != nil {
				return planErr
			}

			engine, buildErr := buildExtractor(args[0])
			if buildErr != nil {
				return buildErr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runErr := engine.Run(ctx, plan)
			if errors.Is(runErr, context.Canceled) {
				return nil
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&around, "around", "a", "", "print documents around this time")
	cmd.Flags().StringVarP(&from, "from", "F", "", "print documents at or after this time")
	cmd.Flags().StringVarP(&to, "to", "T", "", "print documents before this time")
	cmd.Flags().UintVarP(&lines, "lines", "n", extract.DefaultLineCount, "number of documents to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new documents as they arrive")
	cmd.Flags().StringVarP(&sel, "select", "s", "", "comma-separated fields to include in the output")
	cmd.Flags().StringVarP(&where, "where", "w", "", "comma-separated field:value filters, all must match")

	return cmd
}
