package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	scenarios := []struct {
		name   string
		modify func(input *model.Input)
		record string
		id     string
	}{
		{
			name:   "session longer than a day",
			modify: func(input *model.Input) { input.Courses[6].PracticalPeriods = 6 },
			record: "course",
			id:     "BED151",
		},
		{
			name: "no qualified faculty",
			modify: func(input *model.Input) {
				input.Faculty[1].Courses = []string{"BED153", "MOOC"}
			},
			record: "course",
			id:     "BED103",
		},
		{
			name:   "no suitable room",
			modify: func(input *model.Input) { input.Courses[0].Students = 500 },
			record: "course",
			id:     "BED101",
		},
		{
			name: "no contiguous block",
			modify: func(input *model.Input) {
				alternate := make([][]bool, 5)
				for period := range alternate {
					alternate[period] = []bool{period%2 == 0, period%2 == 0, period%2 == 0, period%2 == 0, period%2 == 0}
				}
				input.Faculty[0].Availability = alternate
				input.Faculty[2].Availability = alternate
			},
			record: "course",
			id:     "BED151",
		},
		{
			name: "demand over room-slots",
			modify: func(input *model.Input) {
				input.Grid = model.TimeGrid{Days: 1, Periods: 5}
				input.Rooms = input.Rooms[3:4]
				input.Rooms[0].Tags = []string{model.LectureTag, model.LabTag}
				for i := range input.Faculty {
					input.Faculty[i].Availability = nil
				}
			},
			record: "room",
		},
		{
			name: "cohort demand over grid",
			modify: func(input *model.Input) {
				input.Grid = model.TimeGrid{Days: 3, Periods: 5}
				input.Faculty[3].Availability = nil
			},
			record: "cohort",
			id:     "B.Ed/1",
		},
		{
			name:   "sole teacher over max load",
			modify: func(input *model.Input) { input.Faculty[0].MaxLoad = 3 },
			record: "faculty",
			id:     "F1",
		},
		{
			name:   "unknown qualification",
			modify: func(input *model.Input) { input.Faculty[0].Courses = append(input.Faculty[0].Courses, "BED999") },
			record: "faculty",
			id:     "F1",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			//** Arrange
			input := model.SampleInput()
			scenario.modify(&input)

			//** Act
			err := Validate(input)

			//** Assert
			var invalid *model.InvalidInputError
			require.ErrorIs(t, err, model.ErrInvalidInput)
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, scenario.record, invalid.Record)
			assert.Equal(t, scenario.id, invalid.Id)
		})
	}

	assert.NoError(t, Validate(model.SampleInput()))
}

func TestLoadConfig(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	file := filepath.Join(directory, "config.yaml")
	content := `
population: 60
crossover: single-point
maxGenerations: 250
seed: 42
timeBudget: 30s
weights:
  sameDay: 5
preferences:
  practical: any
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	//** Act
	config, err := LoadConfig(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 60, config.Population)
	assert.Equal(t, genetic.SinglePoint, config.Crossover)
	assert.Equal(t, 250, config.MaxGenerations)
	require.NotNil(t, config.Seed)
	assert.Equal(t, uint64(42), *config.Seed)
	assert.Equal(t, 30*time.Second, config.TimeBudget)
	assert.Equal(t, 5.0, config.Weights.SameDay)
	assert.Equal(t, model.Anytime, config.Preferences.Practical)

	// Untouched keys keep their defaults
	defaults := DefaultConfig()
	assert.Equal(t, defaults.CrossoverRate, config.CrossoverRate)
	assert.Equal(t, defaults.Weights.IdleGap, config.Weights.IdleGap)
	assert.Equal(t, defaults.Preferences.MaxConsecutive, config.Preferences.MaxConsecutive)
}

func TestLoadConfigInvalid(t *testing.T) {
	directory := t.TempDir()
	file := filepath.Join(directory, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("mutationRate: 2\n"), 0o644))

	_, err := LoadConfig(file)

	assert.Error(t, err)
}
