// cmd/changeset/main.go
//
// Entry point for the changeset CLI. Running `changeset` (or `changeset add`)
// in a workspace records a new changeset for the packages that changed since
// the configured base branch.

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "changeset"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd(defaultStreams()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// streams holds the process IO so tests can substitute buffers.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	getenv func(string) string
}

func defaultStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, getenv: os.Getenv}
}

type globalFlags struct {
	cwd      string
	logLevel string
	logFile  string
}

func rootCmd(st streams) *cobra.Command {
	var (
		global globalFlags
		add    addFlags
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Record release intents for packages in a workspace",
		Long: `changeset records which packages in a workspace should be released and
how (patch, minor or major), together with a summary for the changelog.

Without a subcommand it behaves like "changeset add".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, st, global, add)
		},
	}
	cmd.SetIn(st.in)
	cmd.SetOut(st.out)
	cmd.SetErr(st.errOut)

	cmd.PersistentFlags().StringVar(&global.cwd, "cwd", ".", "Directory inside the workspace")
	cmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&global.logFile, "log-file", "", "Append debug logs to this file instead of stderr")
	bindAddFlags(cmd, &add)

	cmd.AddCommand(addCmd(st, &global))
	cmd.AddCommand(initCmd(st, &global))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	return cmd
}
