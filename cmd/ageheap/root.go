package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"ageheap/internal/config"
	"ageheap/internal/infrastructure"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "ageheap",
		Short: "Age-heaping indices for census age tables",
		Long: `ageheap measures digit preference in declared ages. It reads a workbook
with the columns Age, Homme and Femme and computes the Whipple, Myers and Bachi
indices per sex and the UN age-sex accuracy index.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(flags.logger(cmd.ErrOrStderr()))
			// One trace ID per invocation ties the logs of a batch together.
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}

	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logs on stderr")

	root.AddCommand(newAnalyzeCmd(), newAnalyzeBatchCmd(), newVersionCmd())
	return root
}

// logger returns the CLI logger: JSON on w, warnings only unless --debug.
func (f *globalFlags) logger(w io.Writer) *slog.Logger {
	level := "warn"
	if f.debug {
		level = "debug"
	}
	return infrastructure.NewLogger(config.LoggingConfig{Level: level}, w)
}
