package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/actionplan/action"
	"github.com/c360studio/actionplan/config"
)

func checkCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Validate plan files and list their actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := append(append([]string(nil), a.plans...), args...)

			plan, err := config.NewLoader(a.logger).Load(patterns...)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), plan)

			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchPlans(ctx, cmd.OutOrStdout(), a, patterns)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-check whenever a plan file changes")
	return cmd
}

func watchPlans(ctx context.Context, out io.Writer, a *app, patterns []string) error {
	w, err := config.NewWatcher(config.WatcherConfig{
		Patterns: patterns,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	for ev := range w.Events() {
		if ev.Error != nil {
			fmt.Fprintf(out, "invalid: %v\n", ev.Error)
			continue
		}
		printPlan(out, ev.Plan)
	}
	return nil
}

func printPlan(out io.Writer, plan *config.Plan) {
	name := plan.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(out, "plan %s: %d actions\n", name, len(plan.Types))
	for _, n := range plan.Names() {
		fields := action.Fields(plan.Payloads[n]...)
		fmt.Fprintf(out, "  %-16s %-24s %s\n", n, plan.Types[n], strings.Join(fields, ", "))
	}
}
