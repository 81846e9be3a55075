package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidscribe/internal/deps"
	"vidscribe/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories, and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			statuses := preflight.CheckSystemDeps(cfg)
			depRows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				depRows = append(depRows, []string{s.Name, s.Command, dependencyState(s), statusDetail(s)})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status", "Detail"}, depRows, nil))

			results := preflight.RunAll(cfg)
			checkRows := make([][]string, 0, len(results))
			healthy := deps.Satisfied(statuses)
			for _, r := range results {
				state := "ok"
				if !r.Passed {
					state = "FAIL"
					healthy = false
				}
				checkRows = append(checkRows, []string{r.Name, state, r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, checkRows, nil))

			if !healthy {
				return fmt.Errorf("doctor: required checks failed")
			}
			fmt.Fprintln(out, "All required checks passed.")
			return nil
		},
	}
}

func dependencyState(s deps.Status) string {
	switch {
	case s.Available:
		return "ok"
	case s.Optional:
		return "missing (optional)"
	default:
		return "MISSING"
	}
}

func statusDetail(s deps.Status) string {
	if s.Available && s.Path != "" {
		return s.Path
	}
	if s.Detail != "" {
		return s.Detail
	}
	return s.Description
}
