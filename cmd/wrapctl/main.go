package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dusk-indust/aspectwrap/internal/config"
)

// version is set by goreleaser at build time.
var version = "dev"

// cliFlags holds persistent flags shared by all commands.
type cliFlags struct {
	ConfigDir  string
	NoFallback bool
	Verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	root := &cobra.Command{
		Use:           "wrapctl",
		Short:         "Inspect wrapper mechanisms available to this build",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.ConfigDir, "config-dir", ".", "directory containing aspectwrap.yml")
	root.PersistentFlags().BoolVar(&flags.NoFallback, "no-fallback", false, "fail instead of falling back to the null mechanism")
	root.PersistentFlags().BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newDetectCmd(&flags), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// newLogger builds a stderr console logger at the configured level.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}
