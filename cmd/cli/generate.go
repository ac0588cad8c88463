package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/limaJavier/timetabling-ga/internal/csvio"
	"github.com/limaJavier/timetabling-ga/internal/render"
	"github.com/limaJavier/timetabling-ga/internal/store"
	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validFormats = []string{"table", "json", "csv"}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a timetable",
		Long: `Generate runs the genetic search over the input and prints the best timetable found.
The process exits with code 10 when the timetable satisfies every hard constraint and
with code 15 when it does not or the search was cut short.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := loadInput("generate")
			if err != nil {
				return fmt.Errorf("cannot load input: %w", err)
			}
			config, err := runConfig("generate")
			if err != nil {
				return err
			}
			format := viper.GetString("generate.format")
			if viper.GetBool("json") {
				format = "json"
			}
			if !slices.Contains(validFormats, format) {
				return fmt.Errorf("%v is not a valid format", format)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			every := viper.GetInt("generate.progress")
			timetabler := scheduler.New(
				scheduler.WithLogger(slog.Default()),
				scheduler.WithProgress(func(progress genetic.Progress) {
					if every > 0 && progress.Generation%every == 0 {
						fmt.Fprintf(os.Stderr, "generation %d/%d: hard %d, soft %.2f\n", progress.Generation, progress.MaxGenerations, progress.Best.Hard, progress.Best.Soft)
					}
				}),
			)
			result, err := timetabler.Generate(ctx, input, config)
			if err != nil {
				return err
			}

			if path := viper.GetString("generate.store"); path != "" {
				if err := saveRun(path, input, config, result); err != nil {
					return err
				}
			}

			if err := writeResult(format, viper.GetString("generate.out"), input, result); err != nil {
				return err
			}

			if result.Incomplete {
				exitCode = exitInfeasible
			} else {
				exitCode = exitFeasible
			}
			return nil
		},
	}

	addInputFlags(cmd, "generate")
	cmd.Flags().StringP("config", "c", "", "YAML run configuration file; flags override its values")
	cmd.Flags().Uint64("seed", 0, "random seed (random when not set)")
	cmd.Flags().Int("population", 0, "population size")
	cmd.Flags().Int("generations", 0, "maximum number of generations")
	cmd.Flags().Float64("crossover-rate", 0, "crossover probability")
	cmd.Flags().String("crossover", "", "crossover operator (uniform, single-point)")
	cmd.Flags().Float64("mutation-rate", 0, "per-gene mutation probability")
	cmd.Flags().Int("elitism", 0, "individuals copied unchanged into the next generation")
	cmd.Flags().Int("tournament", 0, "tournament size")
	cmd.Flags().Int("convergence-window", 0, "generations without improvement before stopping (0 disables)")
	cmd.Flags().Int("greedy-seeds", 0, "greedy chromosomes injected into the initial population")
	cmd.Flags().Int("workers", 0, "parallel fitness workers (0 means one per CPU)")
	cmd.Flags().Duration("time-budget", 0, "wall-clock limit of the search (e.g. 30s)")
	cmd.Flags().StringP("format", "f", "table", "output format (table, json, csv)")
	cmd.Flags().StringP("out", "o", "", "output file; standard output when empty")
	cmd.Flags().String("store", "", "SQLite database the run is recorded in")
	cmd.Flags().Int("progress", 0, "print the best score every N generations (0 disables)")
	for _, name := range []string{"config", "seed", "population", "generations", "crossover-rate", "crossover", "mutation-rate", "elitism", "tournament", "convergence-window", "greedy-seeds", "workers", "time-budget", "format", "out", "store", "progress"} {
		_ = viper.BindPFlag("generate."+name, cmd.Flags().Lookup(name))
	}
	return cmd
}

// runConfig layers the configuration file and the explicitly set flags or variables over the defaults
func runConfig(prefix string) (scheduler.Config, error) {
	config := scheduler.DefaultConfig()
	if file := viper.GetString(prefix + ".config"); file != "" {
		loaded, err := scheduler.LoadConfig(file)
		if err != nil {
			return scheduler.Config{}, err
		}
		config = loaded
	}

	key := func(name string) string { return prefix + "." + name }
	set := func(name string) bool { return viper.IsSet(key(name)) }
	if set("seed") {
		seed := viper.GetUint64(key("seed"))
		config.Seed = &seed
	}
	if set("population") {
		config.Population = viper.GetInt(key("population"))
	}
	if set("generations") {
		config.MaxGenerations = viper.GetInt(key("generations"))
	}
	if set("crossover-rate") {
		config.CrossoverRate = viper.GetFloat64(key("crossover-rate"))
	}
	if set("crossover") {
		config.Crossover = genetic.CrossoverKind(viper.GetString(key("crossover")))
	}
	if set("mutation-rate") {
		config.MutationRate = viper.GetFloat64(key("mutation-rate"))
	}
	if set("elitism") {
		config.Elitism = viper.GetInt(key("elitism"))
	}
	if set("tournament") {
		config.TournamentSize = viper.GetInt(key("tournament"))
	}
	if set("convergence-window") {
		config.ConvergenceWindow = viper.GetInt(key("convergence-window"))
	}
	if set("greedy-seeds") {
		config.GreedySeeds = viper.GetInt(key("greedy-seeds"))
	}
	if set("workers") {
		config.Workers = viper.GetInt(key("workers"))
	}
	if set("time-budget") {
		config.TimeBudget = viper.GetDuration(key("time-budget"))
	}

	if err := config.Validate(); err != nil {
		return scheduler.Config{}, err
	}
	return config, nil
}

func saveRun(path string, input model.Input, config scheduler.Config, result scheduler.Result) error {
	runs, err := store.Open(path)
	if err != nil {
		return err
	}
	defer runs.Close()

	return runs.Save(context.Background(), store.Run{
		Id:        result.Id,
		CreatedAt: time.Now().UTC(),
		Input:     input,
		Config:    config,
		Result:    result,
	})
}

func writeResult(format, outFile string, input model.Input, result scheduler.Result) error {
	out := os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch format {
	case "json":
		return writeJSON(out, result)
	case "csv":
		return csvio.WriteTimetable(out, result.Timetable, input)
	default:
		render.Timetable(out, result.Timetable, input)
		render.Breakdown(out, result.Score)
		fmt.Fprintf(out, "Run %v: seed %d, %d generations in %v (%v)\n", result.Id, result.Seed, result.Generations, result.Elapsed.Round(time.Millisecond), result.Reason)
		if result.Incomplete {
			fmt.Fprintln(out, "The timetable is incomplete: it violates hard constraints or the search was cut short")
		}
		return nil
	}
}
