package csvio

import (
	"cmp"
	"io"
	"slices"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/samber/lo"
)

type assignmentRow struct {
	Day         string `csv:"day"`
	Period      int    `csv:"period"`
	Start       string `csv:"start"`
	End         string `csv:"end"`
	Duration    int    `csv:"duration"`
	Course      string `csv:"course"`
	CourseName  string `csv:"course_name"`
	Kind        string `csv:"kind"`
	Cohort      string `csv:"cohort"`
	Faculty     string `csv:"faculty"`
	FacultyName string `csv:"faculty_name"`
	Room        string `csv:"room"`
}

// Flattens the timetable into one row per assignment, ordered by day, period and course
func assignmentRows(timetable model.Timetable, input model.Input) []*assignmentRow {
	ordered := slices.Clone(timetable)
	slices.SortStableFunc(ordered, func(a, b model.Assignment) int {
		return cmp.Or(
			cmp.Compare(a.Slot.Day, b.Slot.Day),
			cmp.Compare(a.Slot.Period, b.Slot.Period),
			cmp.Compare(a.Course, b.Course),
			cmp.Compare(a.Session, b.Session),
		)
	})

	return lo.Map(ordered, func(assignment model.Assignment, _ int) *assignmentRow {
		row := &assignmentRow{
			Day:      input.Grid.DayName(assignment.Slot.Day),
			Period:   assignment.Slot.Period + 1,
			Duration: assignment.Duration,
			Course:   assignment.Course,
			Kind:     assignment.Kind.String(),
			Faculty:  assignment.Faculty,
			Room:     assignment.Room,
		}
		if course, ok := input.Course(assignment.Course); ok {
			row.CourseName = course.Name
			row.Cohort = course.Cohort()
		}
		if faculty, ok := lo.Find(input.Faculty, func(faculty model.Faculty) bool { return faculty.Id == assignment.Faculty }); ok {
			row.FacultyName = faculty.Name
		}
		if start := assignment.Slot.Period; start < len(input.Grid.PeriodTimes) {
			row.Start = input.Grid.PeriodTimes[start].Start
			end := min(start+assignment.Duration, len(input.Grid.PeriodTimes)) - 1
			row.End = input.Grid.PeriodTimes[end].End
		}
		return row
	})
}

// WriteTimetable writes the timetable as CSV, one row per assignment
func WriteTimetable(out io.Writer, timetable model.Timetable, input model.Input) error {
	rows := assignmentRows(timetable, input)
	return gocsv.Marshal(&rows, out)
}

func TimetableString(timetable model.Timetable, input model.Input) (string, error) {
	rows := assignmentRows(timetable, input)
	return gocsv.MarshalString(&rows)
}
