package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/c360studio/actionplan/action"
	"github.com/c360studio/actionplan/metrics"
	"github.com/c360studio/actionplan/planner"
	"github.com/c360studio/actionplan/reducer"
)

// Tally is the replay state: how often each plan action was seen.
type Tally struct {
	Counts map[string]int `json:"counts"`
}

// Report is printed at the end of a replay.
type Report struct {
	RunID   string `json:"run_id"`
	Plan    string `json:"plan,omitempty"`
	Actions int    `json:"actions"`
	Ignored int    `json:"ignored"`
	State   Tally  `json:"state"`
}

func replayCmd(a *app) *cobra.Command {
	var (
		logPath     string
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Fold a JSON lines action log through the plan's reducer",
		Long: `Replay reads one JSON action record per line (from --log or stdin),
folds the records through a reducer combining one counting handler per plan
action and prints the final state. Records whose type is not in the plan pass
through unchanged and are reported as ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := a.loadPlanner(a.plans)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if logPath != "" {
				f, err := os.Open(logPath)
				if err != nil {
					return fmt.Errorf("open action log: %w", err)
				}
				defer f.Close()
				in = f
			}

			var reg *prometheus.Registry
			if withMetrics {
				reg = prometheus.NewRegistry()
			}

			report, err := replay(a.logger, p, in, reg)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}

			if reg != nil {
				return writeMetrics(cmd.OutOrStdout(), reg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "Action log file (JSON lines, default: stdin)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Print reducer metrics after the report")
	return cmd
}

// tallyReducer counts each plan action under its name.
func tallyReducer(p *planner.Planner) (reducer.Reducer[Tally], error) {
	handlers := make(map[string]reducer.Handler[Tally], len(p.Names()))
	for _, name := range p.Names() {
		handlers[name] = countAs(name)
	}
	return planner.For[Tally](p).Combine(handlers, reducer.Some(Tally{Counts: map[string]int{}}))
}

// countAs returns a handler incrementing the count of name in a fresh map.
func countAs(name string) reducer.Handler[Tally] {
	return func(s reducer.State[Tally], _ action.Action) reducer.State[Tally] {
		prev := s.OrElse(Tally{})
		counts := make(map[string]int, len(prev.Counts)+1)
		for k, v := range prev.Counts {
			counts[k] = v
		}
		counts[name]++
		return reducer.Some(Tally{Counts: counts})
	}
}

func replay(logger *slog.Logger, p *planner.Planner, in io.Reader, reg *prometheus.Registry) (*Report, error) {
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	r, err := tallyReducer(p)
	if err != nil {
		return nil, err
	}

	types := make([]action.Type, 0, len(p.Names()))
	for _, t := range p.Types() {
		types = append(types, t)
	}
	known := metrics.MatchTypes(types...)

	if reg != nil {
		c, err := metrics.NewCollector(reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		name := p.Name()
		if name == "" {
			name = "replay"
		}
		r = metrics.Instrument(c, name, r, known)
	}

	report := &Report{RunID: runID, Plan: p.Name()}
	state := reducer.Absent[Tally]()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var act action.Action
		if err := json.Unmarshal([]byte(text), &act); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		report.Actions++
		if !known(act.Type) {
			report.Ignored++
			logger.Debug("Ignoring unknown action type", "line", line, "type", act.Type)
		}
		state = r(state, act)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read action log: %w", err)
	}

	// An empty log never reaches the reducer.
	report.State = state.OrElse(Tally{Counts: map[string]int{}})

	logger.Info("Replay complete",
		"actions", report.Actions,
		"ignored", report.Ignored)

	return report, nil
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
