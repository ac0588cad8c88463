package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	coursesCsv = `id,name,credits,theory,practical,tutorial,students,program,semester,practical_periods,room_type
BED101,Childhood and Growing Up,4,2,0,0,60,B.Ed,1,,
BED151,Reading and Reflecting on Texts,2,0,1,0,60,B.Ed,1,3,lab
`
	facultyCsv = `id,name,courses,unavailable,max_load
F1,Dr. Meera Sharma,BED101;BED151,,
F4,Dr. Karan Malhotra,BED101,5:4; 5:5,10
`
	roomsCsv = `id,name,capacity,tags
LH1,Lecture Hall 1,60,
LAB1,Computer Lab,60,lab
HALL,Seminar Hall,120,lecture;hall
`
)

var grid = model.TimeGrid{Days: 5, Periods: 5}

func TestReadCourses(t *testing.T) {
	//** Act
	courses, err := ReadCourses(strings.NewReader(coursesCsv), ',')

	//** Assert
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, model.Course{Id: "BED101", Name: "Childhood and Growing Up", Credits: 4, Theory: 2, Students: 60, Program: "B.Ed", Semester: 1}, courses[0])
	assert.Equal(t, 3, courses[1].PracticalPeriods)
	assert.Equal(t, "lab", courses[1].RoomType)
}

func TestReadFaculty(t *testing.T) {
	//** Act
	faculty, err := ReadFaculty(strings.NewReader(facultyCsv), ',', grid)

	//** Assert
	require.NoError(t, err)
	require.Len(t, faculty, 2)
	assert.Equal(t, []string{"BED101", "BED151"}, faculty[0].Courses)
	assert.Nil(t, faculty[0].Availability)
	assert.Equal(t, 0, faculty[0].MaxLoad)

	assert.Equal(t, 10, faculty[1].MaxLoad)
	assert.Equal(t, 23, faculty[1].AvailablePeriods(grid))
	assert.False(t, faculty[1].AvailableAt(4, 3))
	assert.False(t, faculty[1].AvailableAt(4, 4))
	assert.True(t, faculty[1].AvailableAt(3, 4))
}

func TestReadFacultyInvalidSlot(t *testing.T) {
	for _, unavailable := range []string{"6:1", "1:0", "monday", "1:x"} {
		t.Run(unavailable, func(t *testing.T) {
			in := "id,name,courses,unavailable\nF1,Name,BED101," + unavailable + "\n"

			_, err := ReadFaculty(strings.NewReader(in), ',', grid)

			assert.Error(t, err)
		})
	}
}

func TestReadRooms(t *testing.T) {
	//** Act
	rooms, err := ReadRooms(strings.NewReader(roomsCsv), ',')

	//** Assert
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Empty(t, rooms[0].Tags)
	assert.True(t, rooms[0].HasTag(model.LectureTag))
	assert.Equal(t, []string{"lecture", "hall"}, rooms[2].Tags)
}

func TestReadSemicolonDelimited(t *testing.T) {
	in := "id;name;capacity;tags\nLH1;Lecture Hall 1;60;lecture\n"

	rooms, err := ReadRooms(strings.NewReader(in), ';')

	require.NoError(t, err)
	assert.Equal(t, []model.Room{{Id: "LH1", Name: "Lecture Hall 1", Capacity: 60, Tags: []string{"lecture"}}}, rooms)
}

func TestLoadInput(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	files := map[string]string{"courses.csv": coursesCsv, "faculty.csv": facultyCsv, "rooms.csv": roomsCsv}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(directory, name), []byte(content), 0o644))
	}

	//** Act
	input, err := LoadInput(
		filepath.Join(directory, "courses.csv"),
		filepath.Join(directory, "faculty.csv"),
		filepath.Join(directory, "rooms.csv"),
		',',
		grid,
	)

	//** Assert
	require.NoError(t, err)
	assert.Len(t, input.Courses, 2)
	assert.Len(t, input.Faculty, 2)
	assert.Len(t, input.Rooms, 3)
	assert.Equal(t, grid, input.Grid)
	assert.NoError(t, input.Validate())

	_, err = LoadInput(filepath.Join(directory, "missing.csv"), "", "", ',', grid)
	assert.Error(t, err)
}

func TestWriteTimetable(t *testing.T) {
	//** Arrange
	input := model.SampleInput()
	timetable := model.Timetable{
		{Session: 13, Course: "MOOC", Kind: model.Theory, Duration: 1, Slot: model.TimeSlot{Day: 1, Period: 0}, Room: "LH1", Faculty: "F2"},
		{Session: 11, Course: "BED151", Kind: model.Practical, Duration: 2, Slot: model.TimeSlot{Day: 0, Period: 3}, Room: "LAB1", Faculty: "F1"},
	}

	//** Act
	var out bytes.Buffer
	err := WriteTimetable(&out, timetable, input)

	//** Assert
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "day,period,start,end,duration,course,course_name,kind,cohort,faculty,faculty_name,room", lines[0])
	assert.Equal(t, "Monday,4,13:00,15:00,2,BED151,Reading and Reflecting on Texts,practical,B.Ed/1,F1,Dr. Meera Sharma,LAB1", lines[1])
	assert.Equal(t, "Tuesday,1,09:00,10:00,1,MOOC,Massive Open Online Course,theory,B.Ed/1,F2,Dr. Rajesh Verma,LH1", lines[2])

	text, err := TimetableString(timetable, input)
	require.NoError(t, err)
	assert.Equal(t, out.String(), text)
}
