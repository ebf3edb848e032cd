// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adivvvv/gpt-simple-generator/internal/design"
	"github.com/adivvvv/gpt-simple-generator/internal/schema"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a site design plan",
	Long: `Plan asks the model for a design plan (palette, typography, layout)
matching the design-plan schema. The seed is echoed into the plan so a
plan can be regenerated deterministically by downstream renderers.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	seed, _ := cmd.Flags().GetString("seed")
	flags, _ := cmd.Flags().GetStringSlice("style-flags")
	randomize, _ := cmd.Flags().GetBool("randomize")

	sch, err := loadSchema(schema.DesignPlan)
	if err != nil {
		return err
	}

	planner := design.NewPlanner(newExecutor(), sch, cfg.AI.UtilModel, nil, logger)
	plan, err := planner.Plan(cmd.Context(), design.PlanRequest{
		Lang:       lang,
		Seed:       seed,
		StyleFlags: splitList(flags),
		Randomize:  randomize,
	})
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeOutput(os.Stdout, format, plan)
}

func init() {
	planCmd.Flags().String("lang", "en", "site language")
	planCmd.Flags().String("seed", "", "plan seed (default: random)")
	planCmd.Flags().StringSlice("style-flags", nil, "style flags")
	planCmd.Flags().Bool("randomize", false, "pick two random style flags when none are given")
	planCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(planCmd)
}
