package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/genome"
	"github.com/limaJavier/timetabling-ga/pkg/model"
)

type geneticTimetabler struct {
	logger   *slog.Logger
	progress func(genetic.Progress)
}

func (timetabler *geneticTimetabler) Generate(ctx context.Context, input model.Input, config Config) (Result, error) {
	//** Validate configuration and input
	if err := config.Validate(); err != nil {
		return Result{}, err
	}
	if err := Validate(input); err != nil {
		return Result{}, fmt.Errorf("cannot generate timetable: %w", err)
	}

	//** Initialize dependencies
	codec, err := genome.NewCodec(input)
	if err != nil {
		return Result{}, fmt.Errorf("cannot build chromosome codec: %w", err)
	}
	evaluator, err := model.NewEvaluator(input, config.Weights, config.Preferences)
	if err != nil {
		return Result{}, fmt.Errorf("cannot build evaluator: %w", err)
	}
	fitness := func(chromosome genome.Chromosome) model.Score {
		timetable, err := codec.Decode(chromosome)
		if err != nil {
			// Engine operators keep chromosomes within their domains
			panic(err)
		}
		return evaluator.Evaluate(timetable)
	}

	var seed uint64
	if config.Seed != nil {
		seed = *config.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	if config.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TimeBudget)
		defer cancel()
	}

	logger := timetabler.logger.With("seed", seed, "sessions", codec.Len())
	options := []genetic.Option{genetic.WithLogger(logger)}
	if timetabler.progress != nil {
		options = append(options, genetic.WithProgress(timetabler.progress))
	}

	//** Search
	start := time.Now()
	seeds := GreedySeeds(codec, rng, config.GreedySeeds)
	outcome := genetic.New(codec, fitness, config.Config, rng, options...).Run(ctx, seeds)
	elapsed := time.Since(start)

	timetable, err := codec.Decode(outcome.Best)
	if err != nil {
		return Result{}, fmt.Errorf("cannot decode best chromosome: %w", err)
	}

	incomplete := !outcome.Score.Feasible() || outcome.Reason == genetic.Deadline || outcome.Reason == genetic.Cancelled
	if !outcome.Score.Feasible() {
		logger.Warn("no feasible timetable found", "hard", outcome.Score.Hard, "breakdown", outcome.Score.Breakdown)
	}

	return Result{
		Id:          uuid.NewString(),
		Timetable:   timetable,
		Score:       outcome.Score,
		Generations: outcome.Generations,
		Elapsed:     elapsed,
		Incomplete:  incomplete,
		Reason:      outcome.Reason,
		Seed:        seed,
		History:     outcome.History,
	}, nil
}

func (timetabler *geneticTimetabler) Verify(timetable model.Timetable, input model.Input) bool {
	return model.Verify(timetable, input)
}
