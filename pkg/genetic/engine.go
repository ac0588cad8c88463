package genetic

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/genome"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Fitness scores a chromosome; it must be pure since it runs concurrently
type Fitness func(chromosome genome.Chromosome) model.Score

type Reason string

const (
	Converged      Reason = "converged"
	MaxGenerations Reason = "max-generations"
	Deadline       Reason = "deadline"
	Cancelled      Reason = "cancelled"
)

type Individual struct {
	Chromosome genome.Chromosome
	Score      model.Score
}

type Progress struct {
	Generation     int
	MaxGenerations int
	Best           model.Score
}

type Outcome struct {
	Best        genome.Chromosome
	Score       model.Score
	Generations int
	Reason      Reason
	History     []model.Score // Best score after each generation, the initial population included
}

type Engine struct {
	codec    *genome.Codec
	fitness  Fitness
	config   Config
	rng      *rand.Rand
	progress func(Progress)
	logger   *slog.Logger

	best atomic.Pointer[Individual]
}

type Option func(engine *Engine)

func WithProgress(progress func(Progress)) Option {
	return func(engine *Engine) {
		engine.progress = progress
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// New builds an engine; rng drives every stochastic operator, so a seeded rng gives a reproducible run
func New(codec *genome.Codec, fitness Fitness, config Config, rng *rand.Rand, opts ...Option) *Engine {
	engine := &Engine{
		codec:   codec,
		fitness: fitness,
		config:  config,
		rng:     rng,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.config.Population = max(engine.config.Population, 1)
	return engine
}

// Best returns the best individual found so far; safe to call while Run executes
func (engine *Engine) Best() (Individual, bool) {
	best := engine.best.Load()
	if best == nil {
		return Individual{}, false
	}
	return Individual{Chromosome: best.Chromosome.Clone(), Score: best.Score}, true
}

// Run evolves the population until it converges, reaches the generation limit or ctx is done.
// Valid seeds are placed in the initial population before the random individuals
func (engine *Engine) Run(ctx context.Context, seeds []genome.Chromosome) Outcome {
	engine.best.Store(nil)

	population := engine.initialize(seeds)
	engine.evaluate(population)
	engine.rank(population)
	engine.offer(population[0])

	history := []model.Score{population[0].Score}
	generation := 0
	var reason Reason
	for {
		if reason = engine.terminated(ctx, generation, history); reason != "" {
			break
		}

		//** Carry the elites unchanged
		next := make([]Individual, 0, engine.config.Population)
		for _, elite := range population[:min(engine.config.Elitism, len(population))] {
			next = append(next, Individual{Chromosome: elite.Chromosome.Clone(), Score: elite.Score})
		}
		elites := len(next)

		//** Breed the rest
		for len(next) < engine.config.Population {
			child1 := engine.tournament(population).Chromosome.Clone()
			child2 := engine.tournament(population).Chromosome.Clone()
			if engine.rng.Float64() < engine.config.CrossoverRate {
				engine.crossover(child1, child2)
			}
			engine.mutate(child1)
			engine.mutate(child2)

			next = append(next, Individual{Chromosome: child1})
			if len(next) < engine.config.Population {
				next = append(next, Individual{Chromosome: child2})
			}
		}

		engine.evaluate(next[elites:])
		engine.rank(next)
		population = next
		generation++

		engine.offer(population[0])
		history = append(history, population[0].Score)
		if engine.progress != nil {
			engine.progress(Progress{Generation: generation, MaxGenerations: engine.config.MaxGenerations, Best: population[0].Score})
		}
		engine.logger.Debug("generation evaluated", "generation", generation, "hard", population[0].Score.Hard, "soft", population[0].Score.Soft)
	}

	best, _ := engine.Best()
	engine.logger.Info("genetic search finished", "reason", reason, "generations", generation, "hard", best.Score.Hard, "soft", best.Score.Soft)
	return Outcome{
		Best:        best.Chromosome,
		Score:       best.Score,
		Generations: generation,
		Reason:      reason,
		History:     history,
	}
}

func (engine *Engine) initialize(seeds []genome.Chromosome) []Individual {
	population := make([]Individual, 0, engine.config.Population)
	for _, seed := range seeds {
		if len(population) == engine.config.Population {
			break
		}
		if !engine.codec.Valid(seed) {
			engine.logger.Warn("discarding malformed seed chromosome", "genes", len(seed))
			continue
		}
		population = append(population, Individual{Chromosome: seed.Clone()})
	}
	for len(population) < engine.config.Population {
		population = append(population, Individual{Chromosome: engine.codec.Random(engine.rng)})
	}
	return population
}

// Scores the individuals in parallel, returning once every worker is done
func (engine *Engine) evaluate(individuals []Individual) {
	workers := engine.config.workers()
	chunk := (len(individuals) + workers - 1) / workers
	if chunk == 0 {
		return
	}

	var group errgroup.Group
	for start := 0; start < len(individuals); start += chunk {
		end := min(start+chunk, len(individuals))
		group.Go(func() error {
			for i := start; i < end; i++ {
				individuals[i].Score = engine.fitness(individuals[i].Chromosome)
			}
			return nil
		})
	}
	// Fitness cannot fail, workers always return nil
	_ = group.Wait()
}

// Sorts best first; stable so equal scores keep their order and runs stay reproducible
func (engine *Engine) rank(population []Individual) {
	slices.SortStableFunc(population, func(a, b Individual) int {
		return a.Score.Compare(b.Score)
	})
}

// Replaces the best-ever individual when candidate is strictly better
func (engine *Engine) offer(candidate Individual) {
	for {
		current := engine.best.Load()
		if current != nil && !candidate.Score.Less(current.Score) {
			return
		}
		replacement := &Individual{Chromosome: candidate.Chromosome.Clone(), Score: candidate.Score}
		if engine.best.CompareAndSwap(current, replacement) {
			return
		}
	}
}

func (engine *Engine) terminated(ctx context.Context, generation int, history []model.Score) Reason {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Deadline
		}
		return Cancelled
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return Deadline
	}

	window := engine.config.ConvergenceWindow
	if last := history[len(history)-1]; window > 0 && last.Hard == 0 && len(history) > window {
		if history[len(history)-1-window].Soft-last.Soft <= engine.config.ConvergenceThreshold {
			return Converged
		}
	}

	if generation >= engine.config.MaxGenerations {
		return MaxGenerations
	}
	return ""
}

// Picks the best of TournamentSize random individuals from a ranked population
func (engine *Engine) tournament(population []Individual) Individual {
	winner := engine.rng.IntN(len(population))
	for range engine.config.TournamentSize - 1 {
		if challenger := engine.rng.IntN(len(population)); challenger < winner {
			winner = challenger
		}
	}
	return population[winner]
}

func (engine *Engine) crossover(chromosome1, chromosome2 genome.Chromosome) {
	switch engine.config.Crossover {
	case SinglePoint:
		if len(chromosome1) < 2 {
			return
		}
		point := 1 + engine.rng.IntN(len(chromosome1)-1)
		for i := point; i < len(chromosome1); i++ {
			chromosome1[i], chromosome2[i] = chromosome2[i], chromosome1[i]
		}
	default:
		for i := range chromosome1 {
			if engine.rng.IntN(2) == 1 {
				chromosome1[i], chromosome2[i] = chromosome2[i], chromosome1[i]
			}
		}
	}
}

// Replaces each gene, with probability MutationRate, by a fresh draw from its locus domains
func (engine *Engine) mutate(chromosome genome.Chromosome) {
	for locus := range chromosome {
		if engine.rng.Float64() >= engine.config.MutationRate {
			continue
		}
		chromosome[locus] = engine.codec.RandomGene(engine.rng, locus)
	}
}
