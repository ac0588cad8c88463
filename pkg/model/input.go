package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPracticalPeriods = 2

	LectureTag = "lecture"
	LabTag     = "lab"
)

type SessionKind int

const (
	Theory SessionKind = iota
	Practical
	Tutorial
)

var sessionKindNames = map[SessionKind]string{
	Theory:    "theory",
	Practical: "practical",
	Tutorial:  "tutorial",
}

func (kind SessionKind) String() string {
	if name, ok := sessionKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

func (kind SessionKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

func (kind *SessionKind) UnmarshalText(text []byte) error {
	for value, name := range sessionKindNames {
		if name == string(text) {
			*kind = value
			return nil
		}
	}
	return fmt.Errorf("unknown session kind \"%s\"", text)
}

type Course struct {
	Id               string `json:"id" yaml:"id" mapstructure:"id"`
	Name             string `json:"name" yaml:"name" mapstructure:"name"`
	Code             string `json:"code,omitempty" yaml:"code" mapstructure:"code"`
	Credits          int    `json:"credits" yaml:"credits" mapstructure:"credits"`
	Theory           int    `json:"theory" yaml:"theory" mapstructure:"theory"`
	Practical        int    `json:"practical" yaml:"practical" mapstructure:"practical"`
	Tutorial         int    `json:"tutorial" yaml:"tutorial" mapstructure:"tutorial"`
	PracticalPeriods int    `json:"practicalPeriods,omitempty" yaml:"practicalPeriods" mapstructure:"practicalPeriods"` // Length of one practical block, DefaultPracticalPeriods when zero
	Students         int    `json:"students" yaml:"students" mapstructure:"students"`
	Program          string `json:"program" yaml:"program" mapstructure:"program"`
	Semester         int    `json:"semester" yaml:"semester" mapstructure:"semester"`
	RoomType         string `json:"roomType,omitempty" yaml:"roomType" mapstructure:"roomType"` // Overrides the capability tag every session of the course requires
}

// Cohort identifies the students sharing the course's program and semester
func (course Course) Cohort() string {
	return fmt.Sprintf("%v/%v", course.Program, course.Semester)
}

func (course Course) Validate() error {
	invalid := func(format string, args ...any) error {
		return &InvalidCourseDataError{Course: course.Id, Reason: fmt.Sprintf(format, args...)}
	}

	switch {
	case course.Id == "":
		return invalid("course id is empty")
	case course.Credits < 0:
		return invalid("negative credits %d", course.Credits)
	case course.Theory < 0 || course.Practical < 0 || course.Tutorial < 0:
		return invalid("negative session count (theory %d, practical %d, tutorial %d)", course.Theory, course.Practical, course.Tutorial)
	case course.PracticalPeriods < 0:
		return invalid("negative practical block length %d", course.PracticalPeriods)
	case course.Students < 0:
		return invalid("negative enrolled-student count %d", course.Students)
	case course.Credits > 0 && course.Theory+course.Practical+course.Tutorial == 0:
		return invalid("%d credits but no weekly sessions", course.Credits)
	}
	return nil
}

// Sessions derives the weekly schedulable units of the course, numbering them from firstId
func (course Course) Sessions(firstId int) ([]Session, error) {
	if err := course.Validate(); err != nil {
		return nil, err
	}

	practicalPeriods := course.PracticalPeriods
	if practicalPeriods == 0 {
		practicalPeriods = DefaultPracticalPeriods
	}

	sessions := make([]Session, 0, course.Theory+course.Practical+course.Tutorial)
	for _, part := range []struct {
		kind     SessionKind
		count    int
		duration int
	}{
		{Theory, course.Theory, 1},
		{Practical, course.Practical, practicalPeriods},
		{Tutorial, course.Tutorial, 1},
	} {
		for ordinal := range part.count {
			sessions = append(sessions, Session{
				Id:       firstId + len(sessions),
				Course:   course.Id,
				Kind:     part.kind,
				Ordinal:  ordinal,
				Duration: part.duration,
				Cohort:   course.Cohort(),
				Students: course.Students,
				RoomType: course.roomTypeFor(part.kind),
			})
		}
	}
	return sessions, nil
}

func (course Course) roomTypeFor(kind SessionKind) string {
	if course.RoomType != "" {
		return course.RoomType
	} else if kind == Practical {
		return LabTag
	}
	return LectureTag
}

type Session struct {
	Id       int         `json:"id"`
	Course   string      `json:"course"`
	Kind     SessionKind `json:"kind"`
	Ordinal  int         `json:"ordinal"`
	Duration int         `json:"duration"` // Contiguous periods occupied from the start slot
	Cohort   string      `json:"cohort"`
	Students int         `json:"students"`
	RoomType string      `json:"roomType"`
}

type Faculty struct {
	Id           string   `json:"id" yaml:"id" mapstructure:"id"`
	Name         string   `json:"name" yaml:"name" mapstructure:"name"`
	Courses      []string `json:"courses" yaml:"courses" mapstructure:"courses"`
	Availability [][]bool `json:"availability,omitempty" yaml:"availability" mapstructure:"availability"` // Availability[period][day]; an empty mask means always available
	MaxLoad      int      `json:"maxLoad" yaml:"maxLoad" mapstructure:"maxLoad"`                          // Periods per week, zero means unlimited
}

func (faculty Faculty) Qualified(course string) bool {
	return slices.Contains(faculty.Courses, course)
}

func (faculty Faculty) AvailableAt(day, period int) bool {
	if len(faculty.Availability) == 0 {
		return true
	}
	if period < 0 || period >= len(faculty.Availability) || day < 0 || day >= len(faculty.Availability[period]) {
		return false
	}
	return faculty.Availability[period][day]
}

// AvailablePeriods counts the grid cells in which the faculty can teach
func (faculty Faculty) AvailablePeriods(grid TimeGrid) int {
	count := 0
	for day := range grid.Days {
		for period := range grid.Periods {
			if faculty.AvailableAt(day, period) {
				count++
			}
		}
	}
	return count
}

type Room struct {
	Id       string   `json:"id" yaml:"id" mapstructure:"id"`
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Capacity int      `json:"capacity" yaml:"capacity" mapstructure:"capacity"`
	Tags     []string `json:"tags,omitempty" yaml:"tags" mapstructure:"tags"`
}

// HasTag reports whether the room offers the capability; untagged rooms are lecture rooms
func (room Room) HasTag(tag string) bool {
	if len(room.Tags) == 0 {
		return tag == LectureTag
	}
	return slices.Contains(room.Tags, tag)
}

func (room Room) Suits(session Session) bool {
	return room.HasTag(session.RoomType) && room.Capacity >= session.Students
}

type PeriodTime struct {
	Start string `json:"start" yaml:"start" mapstructure:"start"`
	End   string `json:"end" yaml:"end" mapstructure:"end"`
}

type TimeGrid struct {
	Days        int          `json:"days" yaml:"days" mapstructure:"days"`
	Periods     int          `json:"periods" yaml:"periods" mapstructure:"periods"`
	DayNames    []string     `json:"dayNames,omitempty" yaml:"dayNames" mapstructure:"dayNames"`
	PeriodTimes []PeriodTime `json:"periodTimes,omitempty" yaml:"periodTimes" mapstructure:"periodTimes"`
}

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (grid TimeGrid) Slots() int {
	return grid.Days * grid.Periods
}

func (grid TimeGrid) Indexer() Indexer {
	return NewIndexer(grid.Periods, grid.Days)
}

func (grid TimeGrid) Contains(slot TimeSlot) bool {
	return slot.Day >= 0 && slot.Day < grid.Days && slot.Period >= 0 && slot.Period < grid.Periods
}

// Morning reports whether the period belongs to the first half of the day
func (grid TimeGrid) Morning(period int) bool {
	return period < (grid.Periods+1)/2
}

func (grid TimeGrid) DayName(day int) string {
	if day >= 0 && day < len(grid.DayNames) {
		return grid.DayNames[day]
	} else if day >= 0 && day < len(weekDays) {
		return weekDays[day]
	}
	return fmt.Sprintf("Day %d", day+1)
}

func (grid TimeGrid) PeriodLabel(period int) string {
	if period >= 0 && period < len(grid.PeriodTimes) {
		return fmt.Sprintf("Period %d (%v-%v)", period+1, grid.PeriodTimes[period].Start, grid.PeriodTimes[period].End)
	}
	return fmt.Sprintf("Period %d", period+1)
}

type TimeSlot struct {
	Day    int `json:"day" csv:"day"`
	Period int `json:"period" csv:"period"`
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("d%d/p%d", slot.Day, slot.Period)
}

// Input is the read-only snapshot a run is computed from
type Input struct {
	Courses []Course  `json:"courses" yaml:"courses" mapstructure:"courses"`
	Faculty []Faculty `json:"faculty" yaml:"faculty" mapstructure:"faculty"`
	Rooms   []Room    `json:"rooms" yaml:"rooms" mapstructure:"rooms"`
	Grid    TimeGrid  `json:"grid" yaml:"grid" mapstructure:"grid"`
}

// Sessions derives every course's sessions with dense ids following the course order
func (input Input) Sessions() ([]Session, error) {
	sessions := make([]Session, 0)
	for _, course := range input.Courses {
		courseSessions, err := course.Sessions(len(sessions))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, courseSessions...)
	}
	return sessions, nil
}

func (input Input) Course(id string) (Course, bool) {
	return lo.Find(input.Courses, func(course Course) bool { return course.Id == id })
}

func InputFromJson(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}
	return decodeInput(inputJson)
}

func InputFromYaml(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputYaml map[string]any
	if err := yaml.Unmarshal(bytes, &inputYaml); err != nil {
		return Input{}, err
	}
	return decodeInput(inputYaml)
}

func decodeInput(raw map[string]any) (Input, error) {
	var input Input
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &input,
		ErrorUnused: true,
	})
	if err != nil {
		return Input{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Input{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return input, nil
}
