package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCourseSessions(t *testing.T) {
	//** Arrange
	course := Course{Id: "C1", Credits: 4, Theory: 2, Practical: 1, Tutorial: 1, Students: 40, Program: "B.Ed", Semester: 1}

	//** Act
	sessions, err := course.Sessions(10)

	//** Assert
	require.NoError(t, err)
	require.Len(t, sessions, 4)
	assert.Equal(t, []SessionKind{Theory, Theory, Practical, Tutorial}, []SessionKind{sessions[0].Kind, sessions[1].Kind, sessions[2].Kind, sessions[3].Kind})
	assert.Equal(t, []int{1, 1, DefaultPracticalPeriods, 1}, []int{sessions[0].Duration, sessions[1].Duration, sessions[2].Duration, sessions[3].Duration})
	for i, session := range sessions {
		assert.Equal(t, 10+i, session.Id)
		assert.Equal(t, "B.Ed/1", session.Cohort)
	}
	assert.Equal(t, LabTag, sessions[2].RoomType)
	assert.Equal(t, LectureTag, sessions[0].RoomType)
	assert.Equal(t, 1, sessions[1].Ordinal)
}

func TestCourseRoomTypeOverride(t *testing.T) {
	course := Course{Id: "C1", Theory: 1, Practical: 1, PracticalPeriods: 3, RoomType: "hall"}

	sessions, err := course.Sessions(0)

	require.NoError(t, err)
	assert.Equal(t, "hall", sessions[0].RoomType)
	assert.Equal(t, "hall", sessions[1].RoomType)
	assert.Equal(t, 3, sessions[1].Duration)
}

func TestCourseValidate(t *testing.T) {
	scenarios := map[string]Course{
		"negative theory":        {Id: "C", Theory: -1},
		"negative credits":       {Id: "C", Credits: -2, Theory: 1},
		"negative practical len": {Id: "C", Practical: 1, PracticalPeriods: -1},
		"credits without hours":  {Id: "C", Credits: 3},
		"negative students":      {Id: "C", Theory: 1, Students: -5},
		"empty id":               {Theory: 1},
	}

	for name, course := range scenarios {
		t.Run(name, func(t *testing.T) {
			err := course.Validate()

			var invalid *InvalidCourseDataError
			assert.ErrorIs(t, err, ErrInvalidCourseData)
			assert.True(t, errors.As(err, &invalid))
			assert.Equal(t, course.Id, invalid.Course)
		})
	}

	assert.NoError(t, Course{Id: "C"}.Validate())
}

func TestRoomAndFacultyPredicates(t *testing.T) {
	untagged := Room{Id: "R", Capacity: 20}
	lab := Room{Id: "L", Capacity: 20, Tags: []string{LabTag}}
	practical := Session{RoomType: LabTag, Students: 20}

	assert.True(t, untagged.HasTag(LectureTag))
	assert.False(t, untagged.Suits(practical))
	assert.True(t, lab.Suits(practical))
	assert.False(t, lab.Suits(Session{RoomType: LabTag, Students: 21}))

	faculty := Faculty{Id: "F", Courses: []string{"C"}, Availability: [][]bool{{true, false}}}
	assert.True(t, faculty.Qualified("C"))
	assert.False(t, faculty.Qualified("D"))
	assert.True(t, faculty.AvailableAt(0, 0))
	assert.False(t, faculty.AvailableAt(1, 0))
	assert.False(t, faculty.AvailableAt(0, 1))
	assert.True(t, Faculty{}.AvailableAt(4, 4))
}

func TestInputValidate(t *testing.T) {
	scenarios := []struct {
		name   string
		modify func(input *Input)
		record string
	}{
		{"empty grid", func(input *Input) { input.Grid.Days = 0 }, "grid"},
		{"day names mismatch", func(input *Input) { input.Grid.DayNames = []string{"Mon"} }, "grid"},
		{"duplicate course", func(input *Input) { input.Courses = append(input.Courses, input.Courses[0]) }, "course"},
		{"duplicate faculty", func(input *Input) { input.Faculty = append(input.Faculty, input.Faculty[0]) }, "faculty"},
		{"duplicate room", func(input *Input) { input.Rooms = append(input.Rooms, input.Rooms[0]) }, "room"},
		{"unknown qualification", func(input *Input) { input.Faculty[0].Courses = append(input.Faculty[0].Courses, "Z") }, "faculty"},
		{"mask periods mismatch", func(input *Input) { input.Faculty[0].Availability = [][]bool{{true, true}} }, "faculty"},
		{"mask days mismatch", func(input *Input) {
			input.Faculty[0].Availability = [][]bool{{true}, {true}, {true}}
		}, "faculty"},
		{"negative capacity", func(input *Input) { input.Rooms[0].Capacity = -1 }, "room"},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			//** Arrange
			input := smallInput()
			scenario.modify(&input)

			//** Act
			err := input.Validate()

			//** Assert
			var invalid *InvalidInputError
			require.ErrorIs(t, err, ErrInvalidInput)
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, scenario.record, invalid.Record)
		})
	}

	assert.NoError(t, smallInput().Validate())
	assert.NoError(t, SampleInput().Validate())
}

func TestInputFromFiles(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	sample := SampleInput()

	jsonBytes, err := json.Marshal(sample)
	require.NoError(t, err)
	jsonFile := filepath.Join(directory, "input.json")
	require.NoError(t, os.WriteFile(jsonFile, jsonBytes, 0o644))

	yamlBytes, err := yaml.Marshal(sample)
	require.NoError(t, err)
	yamlFile := filepath.Join(directory, "input.yaml")
	require.NoError(t, os.WriteFile(yamlFile, yamlBytes, 0o644))

	t.Run("json", func(t *testing.T) {
		//** Act
		input, err := InputFromJson(jsonFile)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, sample.Courses, input.Courses)
		assert.Equal(t, sample.Grid, input.Grid)
		assert.Equal(t, sample.Faculty[3].Availability, input.Faculty[3].Availability)
	})

	t.Run("yaml", func(t *testing.T) {
		//** Act
		input, err := InputFromYaml(yamlFile)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, sample.Rooms, input.Rooms)
		assert.Equal(t, sample.Faculty[0].Courses, input.Faculty[0].Courses)
	})

	t.Run("unknown field", func(t *testing.T) {
		//** Arrange
		file := filepath.Join(directory, "unknown.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"courses": [], "teachers": []}`), 0o644))

		//** Act
		_, err := InputFromJson(file)

		//** Assert
		assert.Error(t, err)
	})
}

func TestSampleSessions(t *testing.T) {
	sessions, err := SampleInput().Sessions()

	require.NoError(t, err)
	assert.Len(t, sessions, 15)
	demand := 0
	for _, session := range sessions {
		demand += session.Duration
	}
	assert.Equal(t, 17, demand)
}

func TestAvailableForBlock(t *testing.T) {
	//** Arrange
	input := Input{
		Courses: []Course{{Id: "C", Practical: 1, Students: 10}},
		Faculty: []Faculty{{Id: "F", Courses: []string{"C"}, Availability: [][]bool{
			{true, true},
			{true, false},
			{false, true},
		}}},
		Grid: TimeGrid{Days: 2, Periods: 3},
	}
	sessions, err := input.Sessions()
	require.NoError(t, err)
	predicates := NewPredicateEvaluator(input, sessions)

	//** Assert
	assert.True(t, predicates.AvailableForBlock(0, 0, TimeSlot{Day: 0, Period: 0}))
	assert.False(t, predicates.AvailableForBlock(0, 0, TimeSlot{Day: 0, Period: 1}), "second period unavailable")
	assert.False(t, predicates.AvailableForBlock(0, 0, TimeSlot{Day: 1, Period: 0}), "first period available, second not")
	assert.False(t, predicates.AvailableForBlock(0, 0, TimeSlot{Day: 1, Period: 2}), "block runs past the end of the day")
}
