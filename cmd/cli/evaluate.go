package main

import (
	"fmt"
	"os"

	"github.com/limaJavier/timetabling-ga/internal/render"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an existing timetable against an input",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadInput("evaluate")
			if err != nil {
				return fmt.Errorf("cannot load input: %w", err)
			}
			if err := input.Validate(); err != nil {
				return err
			}
			file := viper.GetString("evaluate.timetable")
			if file == "" {
				return fmt.Errorf("a timetable file must be specified")
			}
			timetable, err := loadTimetable(file)
			if err != nil {
				return err
			}

			config, err := runConfig("evaluate")
			if err != nil {
				return err
			}
			evaluator, err := model.NewEvaluator(input, config.Weights, config.Preferences)
			if err != nil {
				return err
			}
			score := evaluator.Evaluate(timetable)

			if score.Feasible() {
				exitCode = exitFeasible
			} else {
				exitCode = exitInfeasible
			}
			if viper.GetBool("json") {
				return printJSON(score)
			}
			render.Breakdown(os.Stdout, score)
			return nil
		},
	}

	addInputFlags(cmd, "evaluate")
	cmd.Flags().StringP("timetable", "t", "", "JSON file holding a timetable or a generate result")
	cmd.Flags().StringP("config", "c", "", "YAML run configuration file holding the weights and preferences")
	_ = viper.BindPFlag("evaluate.timetable", cmd.Flags().Lookup("timetable"))
	_ = viper.BindPFlag("evaluate.config", cmd.Flags().Lookup("config"))
	return cmd
}
