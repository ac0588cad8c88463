package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/model"
)

type Timetabler interface {
	// Generate searches for a timetable of the input. Input errors are returned before the search starts;
	// once it starts, a result is always returned, flagged Incomplete when it is not a feasible final answer
	Generate(ctx context.Context, input model.Input, config Config) (Result, error)

	// Verify checks whether the timetable is complete and satisfies every hard constraint for the input
	Verify(timetable model.Timetable, input model.Input) bool
}

type Result struct {
	Id          string          `json:"id"`
	Timetable   model.Timetable `json:"timetable"`
	Score       model.Score     `json:"score"`
	Generations int             `json:"generations"`
	Elapsed     time.Duration   `json:"elapsed"`
	Incomplete  bool            `json:"incomplete"`
	Reason      genetic.Reason  `json:"reason"`
	Seed        uint64          `json:"seed"`
	History     []model.Score   `json:"history,omitempty"`
}

type Option func(timetabler *geneticTimetabler)

func WithLogger(logger *slog.Logger) Option {
	return func(timetabler *geneticTimetabler) {
		timetabler.logger = logger
	}
}

func WithProgress(progress func(genetic.Progress)) Option {
	return func(timetabler *geneticTimetabler) {
		timetabler.progress = progress
	}
}

func New(opts ...Option) Timetabler {
	timetabler := &geneticTimetabler{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(timetabler)
	}
	return timetabler
}
