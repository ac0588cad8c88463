package scheduler

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/genome"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioConfig(seed uint64) Config {
	config := DefaultConfig()
	config.Seed = &seed
	config.Population = 50
	config.Elitism = 5
	config.MaxGenerations = 200
	return config
}

func TestGenerateSampleScenario(t *testing.T) {
	//** Arrange
	timetabler := New()
	input := model.SampleInput()

	//** Act
	result, err := timetabler.Generate(context.Background(), input, scenarioConfig(42))

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score.Hard)
	assert.False(t, result.Incomplete)
	assert.Contains(t, []genetic.Reason{genetic.Converged, genetic.MaxGenerations}, result.Reason)
	assert.Equal(t, uint64(42), result.Seed)
	assert.NotEmpty(t, result.Id)
	assert.True(t, timetabler.Verify(result.Timetable, input))

	sessions, err := input.Sessions()
	require.NoError(t, err)
	require.Len(t, result.Timetable, len(sessions))
	for i, assignment := range result.Timetable {
		assert.Equal(t, sessions[i].Id, assignment.Session)
		assert.Equal(t, sessions[i].Course, assignment.Course)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	//** Arrange
	timetabler := New()
	input := model.SampleInput()
	config := scenarioConfig(7)
	config.MaxGenerations = 30

	//** Act
	first, err := timetabler.Generate(context.Background(), input, config)
	require.NoError(t, err)
	second, err := timetabler.Generate(context.Background(), input, config)
	require.NoError(t, err)

	//** Assert
	assert.Equal(t, first.Timetable, second.Timetable)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.History, second.History)
	assert.NotEqual(t, first.Id, second.Id)
}

func TestGenerateRecordsRandomSeed(t *testing.T) {
	//** Arrange
	timetabler := New()
	input := model.SampleInput()
	config := scenarioConfig(0)
	config.Seed = nil
	config.MaxGenerations = 10

	//** Act
	first, err := timetabler.Generate(context.Background(), input, config)
	require.NoError(t, err)
	config.Seed = &first.Seed
	replay, err := timetabler.Generate(context.Background(), input, config)
	require.NoError(t, err)

	//** Assert
	assert.Equal(t, first.Timetable, replay.Timetable)
}

func TestGenerateStopsEarly(t *testing.T) {
	input := model.SampleInput()

	t.Run("time budget", func(t *testing.T) {
		//** Arrange
		config := scenarioConfig(1)
		config.TimeBudget = time.Nanosecond

		//** Act
		result, err := New().Generate(context.Background(), input, config)

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Incomplete)
		assert.Equal(t, genetic.Deadline, result.Reason)
		assert.Len(t, result.Timetable, 15)
	})

	t.Run("cancelled", func(t *testing.T) {
		//** Arrange
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		//** Act
		result, err := New().Generate(ctx, input, scenarioConfig(1))

		//** Assert
		require.NoError(t, err)
		assert.True(t, result.Incomplete)
		assert.Equal(t, genetic.Cancelled, result.Reason)
		assert.Len(t, result.Timetable, 15)
	})
}

func TestGenerateReportsProgress(t *testing.T) {
	//** Arrange
	generations := make([]int, 0)
	timetabler := New(WithProgress(func(progress genetic.Progress) {
		generations = append(generations, progress.Generation)
	}))
	config := scenarioConfig(3)
	config.MaxGenerations = 5
	config.ConvergenceWindow = 0

	//** Act
	result, err := timetabler.Generate(context.Background(), model.SampleInput(), config)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, generations)
	assert.Len(t, result.History, 6)
}

func TestGenerateSoleTeacherOverDemand(t *testing.T) {
	//** Arrange
	input := model.SampleInput()
	input.Faculty[0].Availability = make([][]bool, 5)
	for period := range input.Faculty[0].Availability {
		input.Faculty[0].Availability[period] = []bool{period == 0, false, false, false, false}
	}

	//** Act
	_, err := New().Generate(context.Background(), input, scenarioConfig(42))

	//** Assert
	var invalidInput *model.InvalidInputError
	require.ErrorIs(t, err, model.ErrInvalidInput)
	require.True(t, errors.As(err, &invalidInput))
	assert.Equal(t, "faculty", invalidInput.Record)
	assert.Equal(t, "F1", invalidInput.Id)
}

func TestGenerateInvalidCourseData(t *testing.T) {
	input := model.SampleInput()
	input.Courses[2].Theory = -1

	_, err := New().Generate(context.Background(), input, scenarioConfig(42))

	assert.ErrorIs(t, err, model.ErrInvalidCourseData)
}

func TestGenerateInvalidConfig(t *testing.T) {
	config := scenarioConfig(42)
	config.Elitism = config.Population + 1

	_, err := New().Generate(context.Background(), model.SampleInput(), config)

	assert.Error(t, err)
}

func TestGreedySeedsSample(t *testing.T) {
	//** Arrange
	input := model.SampleInput()
	codec, err := genome.NewCodec(input)
	require.NoError(t, err)
	evaluator, err := model.NewEvaluator(input, model.DefaultWeights(), model.DefaultPreferences())
	require.NoError(t, err)

	//** Act
	seeds := GreedySeeds(codec, rand.New(rand.NewPCG(11, 11)), 3)

	//** Assert
	require.Len(t, seeds, 3)
	for _, seed := range seeds {
		require.True(t, codec.Valid(seed))
		timetable, err := codec.Decode(seed)
		require.NoError(t, err)
		assert.Equal(t, 0, evaluator.Evaluate(timetable).Hard)
	}
}

func TestGreedySeedsShareRooms(t *testing.T) {
	//** Arrange
	// Two cohorts, one period a day: both sessions of a day must get distinct rooms
	input := model.Input{
		Courses: []model.Course{
			{Id: "A", Theory: 2, Students: 50, Program: "P", Semester: 1},
			{Id: "B", Theory: 2, Students: 20, Program: "Q", Semester: 1},
		},
		Faculty: []model.Faculty{
			{Id: "F1", Courses: []string{"A"}},
			{Id: "F2", Courses: []string{"B"}},
		},
		Rooms: []model.Room{
			{Id: "SMALL", Capacity: 20},
			{Id: "BIG", Capacity: 50},
		},
		Grid: model.TimeGrid{Days: 2, Periods: 1},
	}
	codec, err := genome.NewCodec(input)
	require.NoError(t, err)

	//** Act
	seeds := GreedySeeds(codec, rand.New(rand.NewPCG(5, 5)), 5)

	//** Assert
	for _, seed := range seeds {
		timetable, err := codec.Decode(seed)
		require.NoError(t, err)
		assert.True(t, model.Verify(timetable, input), "greedy seed is not feasible: %v", timetable)
	}
}

func TestGreedySeedsRespectBlockAvailability(t *testing.T) {
	//** Arrange
	// F is only free on the second day for periods 1 and 2, the one start that fits a two-period block
	availability := [][]bool{
		{false, false},
		{false, true},
		{false, true},
		{false, false},
	}
	input := model.Input{
		Courses: []model.Course{
			{Id: "LAB", Practical: 1, Students: 20, Program: "P", Semester: 1},
		},
		Faculty: []model.Faculty{
			{Id: "F", Courses: []string{"LAB"}, Availability: availability},
		},
		Rooms: []model.Room{
			{Id: "L1", Capacity: 20, Tags: []string{model.LabTag}},
		},
		Grid: model.TimeGrid{Days: 2, Periods: 4},
	}
	codec, err := genome.NewCodec(input)
	require.NoError(t, err)

	//** Act
	seeds := GreedySeeds(codec, rand.New(rand.NewPCG(3, 3)), 5)

	//** Assert
	for _, seed := range seeds {
		timetable, err := codec.Decode(seed)
		require.NoError(t, err)
		require.Len(t, timetable, 1)
		assert.Equal(t, model.TimeSlot{Day: 1, Period: 1}, timetable[0].Slot)
		assert.True(t, model.Verify(timetable, input))
	}
}
