// Package cli implements the formbuilder command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s4sachin/dynamic-form-builder/internal/config"
	"github.com/s4sachin/dynamic-form-builder/internal/logging"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootOptions holds global flag values and the state loaded before any
// subcommand runs.
type rootOptions struct {
	configFile string
	server     string

	cfg      *config.Config
	closeLog func() error
}

// NewRootCmd creates the top-level "formbuilder" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "formbuilder",
		Short: "Serve a form schema and collect validated submissions",
		Long: "formbuilder serves a single form schema over HTTP, validates submissions\n" +
			"against it and stores them in a pluggable submission store.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			closeLog, err := logging.Init(cfg.LogLevel, cfg.GelfAddr)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.closeLog = closeLog
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.server, "server", "", "base URL of a running API; commands use it instead of local storage")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSchemaCmd(opts))
	root.AddCommand(newSubmitCmd(opts))
	root.AddCommand(newSubmissionsCmd(opts))
	root.AddCommand(newFillCmd(opts))
	root.AddCommand(newOpenAPICmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}
