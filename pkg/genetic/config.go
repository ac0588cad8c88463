package genetic

import (
	"fmt"
	"runtime"

	"github.com/go-playground/validator/v10"
)

type CrossoverKind string

const (
	Uniform     CrossoverKind = "uniform"
	SinglePoint CrossoverKind = "single-point"
)

type Config struct {
	Population           int           `json:"population" yaml:"population" mapstructure:"population" validate:"gte=1"`
	CrossoverRate        float64       `json:"crossoverRate" yaml:"crossoverRate" mapstructure:"crossoverRate" validate:"gte=0,lte=1"`
	Crossover            CrossoverKind `json:"crossover" yaml:"crossover" mapstructure:"crossover" validate:"omitempty,oneof=uniform single-point"`
	MutationRate         float64       `json:"mutationRate" yaml:"mutationRate" mapstructure:"mutationRate" validate:"gte=0,lte=1"`
	Elitism              int           `json:"elitism" yaml:"elitism" mapstructure:"elitism" validate:"gte=0,ltefield=Population"`
	TournamentSize       int           `json:"tournamentSize" yaml:"tournamentSize" mapstructure:"tournamentSize" validate:"gte=1"`
	MaxGenerations       int           `json:"maxGenerations" yaml:"maxGenerations" mapstructure:"maxGenerations" validate:"gte=0"`
	ConvergenceWindow    int           `json:"convergenceWindow" yaml:"convergenceWindow" mapstructure:"convergenceWindow" validate:"gte=0"`          // Zero disables convergence
	ConvergenceThreshold float64       `json:"convergenceThreshold" yaml:"convergenceThreshold" mapstructure:"convergenceThreshold" validate:"gte=0"` // Converged once the soft gain over the window is at most this
	Workers              int           `json:"workers" yaml:"workers" mapstructure:"workers" validate:"gte=0"`                                        // Zero means one per CPU
}

func DefaultConfig() Config {
	return Config{
		Population:           100,
		CrossoverRate:        0.8,
		Crossover:            Uniform,
		MutationRate:         0.1,
		Elitism:              10,
		TournamentSize:       5,
		MaxGenerations:       500,
		ConvergenceWindow:    100,
		ConvergenceThreshold: 0,
		Workers:              0,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (config Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid genetic configuration: %w", err)
	}
	return nil
}

func (config Config) workers() int {
	if config.Workers > 0 {
		return config.Workers
	}
	return runtime.NumCPU()
}
