package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/limaJavier/timetabling-ga/pkg/scheduler"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigOverrides(t *testing.T) {
	//** Arrange
	t.Cleanup(viper.Reset)
	configFile := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("population: 40\nelitism: 4\nmutationRate: 0.3\n"), 0o644))
	viper.Set("generate.config", configFile)
	viper.Set("generate.population", 60)
	viper.Set("generate.seed", 9)
	viper.Set("generate.time-budget", "2s")

	//** Act
	config, err := runConfig("generate")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 60, config.Population)
	assert.Equal(t, 4, config.Elitism)
	assert.Equal(t, 0.3, config.MutationRate)
	require.NotNil(t, config.Seed)
	assert.Equal(t, uint64(9), *config.Seed)
	assert.Equal(t, 2*time.Second, config.TimeBudget)
	assert.Equal(t, scheduler.DefaultConfig().MaxGenerations, config.MaxGenerations)
}

func TestRunConfigRejectsInvalidValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("generate.population", 5)
	viper.Set("generate.elitism", 6)

	_, err := runConfig("generate")

	assert.Error(t, err)
}

func TestLoadInput(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("sample", func(t *testing.T) {
		viper.Set("generate.input", sampleInput)

		input, err := loadInput("generate")

		require.NoError(t, err)
		assert.Equal(t, model.SampleInput(), input)
	})

	t.Run("missing", func(t *testing.T) {
		viper.Set("generate.input", "")

		_, err := loadInput("generate")

		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		viper.Set("generate.input", "input.txt")

		_, err := loadInput("generate")

		assert.Error(t, err)
	})
}

func TestLoadTimetable(t *testing.T) {
	//** Arrange
	timetable := model.Timetable{
		{Session: 0, Course: "BED101", Kind: model.Theory, Duration: 1, Slot: model.TimeSlot{Day: 1, Period: 2}, Room: "LH1", Faculty: "F1"},
	}
	directory := t.TempDir()
	bare, err := json.Marshal(timetable)
	require.NoError(t, err)
	wrapped, err := json.Marshal(scheduler.Result{Id: "run", Timetable: timetable})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(directory, "bare.json"), bare, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(directory, "result.json"), wrapped, 0o644))

	//** Act
	fromBare, err := loadTimetable(filepath.Join(directory, "bare.json"))
	require.NoError(t, err)
	fromResult, err := loadTimetable(filepath.Join(directory, "result.json"))
	require.NoError(t, err)

	//** Assert
	assert.Equal(t, timetable, fromBare)
	assert.Equal(t, timetable, fromResult)
}
