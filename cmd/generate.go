package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitegen_server/internal/blueprint"
	"sitegen_server/internal/output"
)

func generateCmd(configDir *string) *cobra.Command {
	var (
		blueprintPath string
		outDir        string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project from a blueprint file (json or yaml)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := blueprint.Load(blueprintPath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			orch, err := a.orchestrator()
			if err != nil {
				return err
			}
			run, err := orch.Generate(cmd.Context(), bp)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			dir, err := output.NewWriter(outDir, a.log).Write(cmd.Context(), run.ID, run.Files)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "project %s: %d files, %d calls, written to %s\n", run.ID, len(run.Files), run.Calls, dir)
			for _, warn := range run.Warnings {
				if warn.Path != "" {
					fmt.Fprintf(w, "warning [%s] %s: %s\n", warn.Phase, warn.Path, warn.Reason)
				} else {
					fmt.Fprintf(w, "warning [%s] %s\n", warn.Phase, warn.Reason)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&blueprintPath, "blueprint", "", "blueprint file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&outDir, "out", "", "output root (defaults to OUTPUT_DIR)")
	_ = cmd.MarkFlagRequired("blueprint")
	return cmd
}
