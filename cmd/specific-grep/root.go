package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stackvity/specific-grep/internal/cli"
	"github.com/stackvity/specific-grep/internal/cli/config"
	"github.com/stackvity/specific-grep/pkg/grep"
	"golang.org/x/term"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the root command. A fresh instance is needed per execution
// because the search options remember whether they were already given.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specific-grep [flags] <search string>",
		Short: "Searches every file under a directory for a literal string, in parallel.",
		Long: `specific-grep scans every regular file beneath a directory for lines containing
a literal, case-sensitive search string. The file list is split across a fixed number
of worker threads, and once all of them finish two reports are written:

  <result_file>.txt  every matching line as "<path>:<line>: <text>", grouped by file,
                     files with the most matches first
  <log_file>.log     one "<worker>:<file1>,<file2>,..." line per worker, listing the
                     files it processed, workers that found matches first

An empty search string matches every line. Use "--" before a search string that
starts with "-".`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sw := grep.StartStopwatch()
			// Usage errors are reported by cobra before RunE; from here on only the error matters.
			cmd.SilenceUsage = true

			cfg, logger, err := config.LoadAndValidate(cmd.Flags(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return cli.Run(cfg, logger, sw, cli.Streams{
				Out:         cmd.OutOrStdout(),
				Err:         cmd.ErrOrStderr(),
				OutStyled:   isTerminal(cmd.OutOrStdout()),
				ErrColorful: isTerminal(cmd.ErrOrStderr()),
			})
		},
	}
	cmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Execute runs the root command with the process arguments and returns the exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	// Cobra prints the error (and usage for usage errors) itself.
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
