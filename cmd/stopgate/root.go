package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stopgate/stopgate/internal/config"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	var opts hookOptions

	cmd := &cobra.Command{
		Use:   "stopgate",
		Short: "Stop-hook decision engine for agent coding sessions",
		Long: `Stopgate decides whether a stopped coding session should resume.

The agent runtime invokes it from its Stop hook with a JSON event on stdin.
Stopgate inspects the transcript tail, classifies the stop, optionally asks a
set of AI models to adjudicate, and prints a block response when the session
should continue.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStopHook(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to config file")
	cmd.Flags().IntVar(&opts.waitOverride, "wait", -1, "Override the retry delay in seconds")

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
