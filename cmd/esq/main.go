// Command esq extracts time-ordered documents from an Elasticsearch-compatible
// search service, either as bounded historical slices or as a live tail.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/esqproject/esq/config"
	"github.com/esqproject/esq/extract/elasticengine"
	"github.com/esqproject/esq/extract/oteladapters"
)

var (
	flagVerbose bool
	flagOTel    bool
)

func main() {
	root := newRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "esq",
		Short:         "Extract time-ordered documents from a search service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagOTel, "otel", false, "route logs through the OpenTelemetry slog bridge")

	root.AddCommand(newCatCmd())
	root.AddCommand(newLsCmd())
	root.AddCommand(newAliasCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())

	return root
}

// buildExtractor assembles an engine for the stored default endpoint. It fails
// when no configuration exists yet, pointing the user at login.
func buildExtractor(index string, options ...elasticengine.Option) (elasticengine.Extractor, error) {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		return elasticengine.Extractor{}, loadErr
	}
	if cfg == nil {
		return elasticengine.Extractor{}, fmt.Errorf("no endpoint configured, run 'esq login' first")
	}

	endpoint := elasticengine.Endpoint{
		URL:      cfg.Default.URL,
		Username: cfg.Default.Username,
		Password: cfg.Default.Password,
	}

	options = append(options, loggingOptions()...)

	return elasticengine.NewExtractor(endpoint, index, options...)
}

func loggingOptions() []elasticengine.Option {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagOTel {
		return []elasticengine.Option{
			elasticengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("esq")),
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	return []elasticengine.Option{
		elasticengine.WithLogger(slog.New(handler)),
	}
}
