// Package main provides the actionplan binary entry point.
// It loads action plans and exercises the creators and reducers built from
// them: checking plan files, creating action records and replaying action logs.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/actionplan/config"
	"github.com/c360studio/actionplan/planner"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "actionplan"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by subcommands.
type app struct {
	logLevel string
	plans    []string
	logger   *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Action creator and reducer planner",
		Long: `actionplan works with action plans: YAML files mapping action names
to action types and payload fields for one slice of state.

It provides:
- Plan validation, optionally re-checked on every file change
- Action record creation from a plan
- Replay of recorded action logs through a plan's reducers`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.logLevel)
			slog.SetDefault(a.logger)
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVarP(&a.plans, "plan", "p", nil, "Plan file or glob pattern (default: actionplan.yaml in the current or a parent directory)")

	cmd.AddCommand(checkCmd(a))
	cmd.AddCommand(createCmd(a))
	cmd.AddCommand(replayCmd(a))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadPlanner loads the selected plans and builds their planner.
func (a *app) loadPlanner(patterns []string) (*config.Plan, *planner.Planner, error) {
	plan, err := config.NewLoader(a.logger).Load(patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, planner.FromPlan(plan), nil
}
