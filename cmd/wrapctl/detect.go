package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/aspectwrap/internal/config"
	"github.com/dusk-indust/aspectwrap/provider"
)

func newDetectCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show mechanism availability and the mechanism a factory would select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd, flags)
		},
	}
}

func runDetect(cmd *cobra.Command, flags *cliFlags) error {
	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, flags.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	disabled, err := cfg.DisabledMechanisms()
	if err != nil {
		return err
	}
	allowNull := cfg.NoopFallback() && !flags.NoFallback

	sel := provider.NewSelector(
		provider.WithNullFallback(allowNull),
		provider.WithDisabled(disabled...),
		provider.WithSelectorLogger(logger),
	)
	av := sel.Availability()
	markers := provider.Markers()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MECHANISM\tAVAILABLE\tMARKER")
	for _, m := range provider.Mechanisms() {
		marker := markers[m]
		if marker == "" {
			marker = "-"
		}
		fmt.Fprintf(w, "%s\t%t\t%s\n", m, av.Has(m), marker)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	m, err := sel.Plan()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nselected: %s\n", m)
	return nil
}
