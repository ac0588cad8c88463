package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/samber/lo"
)

const listSeparator = ";"

type courseRow struct {
	Id               string `csv:"id"`
	Name             string `csv:"name"`
	Code             string `csv:"code,omitempty"`
	Credits          int    `csv:"credits"`
	Theory           int    `csv:"theory"`
	Practical        int    `csv:"practical"`
	Tutorial         int    `csv:"tutorial"`
	PracticalPeriods int    `csv:"practical_periods,omitempty"`
	Students         int    `csv:"students"`
	Program          string `csv:"program"`
	Semester         int    `csv:"semester"`
	RoomType         string `csv:"room_type,omitempty"`
}

// Unavailable lists "day:period" pairs (1-based) in which the faculty cannot teach, e.g. "5:4;5:5"
type facultyRow struct {
	Id          string `csv:"id"`
	Name        string `csv:"name"`
	Courses     string `csv:"courses"`
	Unavailable string `csv:"unavailable,omitempty"`
	MaxLoad     int    `csv:"max_load,omitempty"`
}

type roomRow struct {
	Id       string `csv:"id"`
	Name     string `csv:"name"`
	Capacity int    `csv:"capacity"`
	Tags     string `csv:"tags,omitempty"`
}

func unmarshal[T any](in io.Reader, delim rune) ([]T, error) {
	reader := csv.NewReader(in)
	reader.Comma = delim
	reader.TrimLeadingSpace = true

	rows := []T{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func splitList(list string) []string {
	return lo.FilterMap(strings.Split(list, listSeparator), func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	})
}

// ReadCourses parses course rows
func ReadCourses(in io.Reader, delim rune) ([]model.Course, error) {
	rows, err := unmarshal[courseRow](in, delim)
	if err != nil {
		return nil, fmt.Errorf("cannot parse courses: %w", err)
	}
	return lo.Map(rows, func(row courseRow, _ int) model.Course {
		return model.Course{
			Id:               row.Id,
			Name:             row.Name,
			Code:             row.Code,
			Credits:          row.Credits,
			Theory:           row.Theory,
			Practical:        row.Practical,
			Tutorial:         row.Tutorial,
			PracticalPeriods: row.PracticalPeriods,
			Students:         row.Students,
			Program:          row.Program,
			Semester:         row.Semester,
			RoomType:         row.RoomType,
		}
	}), nil
}

// ReadFaculty parses faculty rows; the unavailable column is expanded into an availability mask over grid
func ReadFaculty(in io.Reader, delim rune, grid model.TimeGrid) ([]model.Faculty, error) {
	rows, err := unmarshal[facultyRow](in, delim)
	if err != nil {
		return nil, fmt.Errorf("cannot parse faculty: %w", err)
	}

	faculty := make([]model.Faculty, 0, len(rows))
	for _, row := range rows {
		member := model.Faculty{
			Id:      row.Id,
			Name:    row.Name,
			Courses: splitList(row.Courses),
			MaxLoad: row.MaxLoad,
		}

		unavailable := splitList(row.Unavailable)
		if len(unavailable) > 0 {
			member.Availability = lo.Times(grid.Periods, func(_ int) []bool {
				return lo.Times(grid.Days, func(_ int) bool { return true })
			})
		}
		for _, pair := range unavailable {
			day, period, err := parseSlot(pair)
			if err != nil || day < 1 || day > grid.Days || period < 1 || period > grid.Periods {
				return nil, fmt.Errorf("cannot parse faculty \"%v\": invalid unavailable slot \"%v\"", row.Id, pair)
			}
			member.Availability[period-1][day-1] = false
		}

		faculty = append(faculty, member)
	}
	return faculty, nil
}

func parseSlot(pair string) (day, period int, err error) {
	dayStr, periodStr, ok := strings.Cut(pair, ":")
	if !ok {
		return 0, 0, fmt.Errorf("missing \":\" in \"%v\"", pair)
	}
	if day, err = strconv.Atoi(strings.TrimSpace(dayStr)); err != nil {
		return 0, 0, err
	}
	if period, err = strconv.Atoi(strings.TrimSpace(periodStr)); err != nil {
		return 0, 0, err
	}
	return day, period, nil
}

// ReadRooms parses room rows
func ReadRooms(in io.Reader, delim rune) ([]model.Room, error) {
	rows, err := unmarshal[roomRow](in, delim)
	if err != nil {
		return nil, fmt.Errorf("cannot parse rooms: %w", err)
	}
	return lo.Map(rows, func(row roomRow, _ int) model.Room {
		return model.Room{
			Id:       row.Id,
			Name:     row.Name,
			Capacity: row.Capacity,
			Tags:     splitList(row.Tags),
		}
	}), nil
}

// LoadInput reads the three CSV files into an input over grid
func LoadInput(coursesFile, facultyFile, roomsFile string, delim rune, grid model.TimeGrid) (model.Input, error) {
	input := model.Input{Grid: grid}

	read := func(file string, parse func(in io.Reader) error) error {
		in, err := os.Open(file)
		if err != nil {
			return err
		}
		defer in.Close()
		return parse(in)
	}

	if err := read(coursesFile, func(in io.Reader) (err error) {
		input.Courses, err = ReadCourses(in, delim)
		return err
	}); err != nil {
		return model.Input{}, err
	}
	if err := read(facultyFile, func(in io.Reader) (err error) {
		input.Faculty, err = ReadFaculty(in, delim, grid)
		return err
	}); err != nil {
		return model.Input{}, err
	}
	if err := read(roomsFile, func(in io.Reader) (err error) {
		input.Rooms, err = ReadRooms(in, delim)
		return err
	}); err != nil {
		return model.Input{}, err
	}

	return input, nil
}
