package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func createCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [args...]",
		Short: "Print the action record a plan's creator builds",
		Long: `Create builds an action with the creator for <name> and prints it as JSON.
Arguments are decoded as JSON values when possible and kept as strings otherwise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := a.loadPlanner(a.plans)
			if err != nil {
				return err
			}

			values := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				values = append(values, parseArg(arg))
			}

			act, err := p.Actions(nil).Create(args[0], values...)
			if err != nil {
				return err
			}

			data, err := json.Marshal(act)
			if err != nil {
				return fmt.Errorf("encode action: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// parseArg decodes a JSON literal, falling back to the raw string.
func parseArg(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}
