package main

import (
	"fmt"
	"time"

	"affwp-generate/internal/plan"

	"github.com/spf13/cobra"
)

func (a *app) newPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Работа с YAML-планами генерации",
	}

	planCmd.AddCommand(&cobra.Command{
		Use:   "run <file.yaml>",
		Short: "Выполнить шаги плана по порядку",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			start := time.Now()
			defer func() { a.finishRun("plan", start, err) }()

			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			result, runErr := plan.NewRunner(a.newSuite(s), a.logger).Run(cmd.Context(), p)
			if result != nil {
				for _, step := range result.Steps {
					fmt.Fprintf(a.stdout, "%s: %s\n", step.Name, plan.JoinIDs(step.IDs, " "))
				}
			}
			return runErr
		},
	})

	return planCmd
}
