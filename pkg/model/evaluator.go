package model

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"
)

type Violation string

const (
	// Hard
	FacultyClash       Violation = "faculty-clash"
	RoomClash          Violation = "room-clash"
	CohortClash        Violation = "cohort-clash"
	RoomCapability     Violation = "room-capability"
	RoomCapacity       Violation = "room-capacity"
	FacultyUnavailable Violation = "faculty-unavailable"
	FacultyOverload    Violation = "faculty-overload"
	FacultyUnqualified Violation = "faculty-unqualified"
	BlockOverflow      Violation = "block-overflow"
	MissingSession     Violation = "missing-session"
	DuplicateSession   Violation = "duplicate-session"
	UnknownReference   Violation = "unknown-reference"

	// Soft
	IdleGap         Violation = "idle-gap"
	UnevenLoad      Violation = "uneven-load"
	ConsecutiveDays Violation = "consecutive-days"
	SameDay         Violation = "same-day"
	PracticalTime   Violation = "practical-time"
	TheoryTime      Violation = "theory-time"
	LongRun         Violation = "long-run"
)

var (
	HardViolations = []Violation{FacultyClash, RoomClash, CohortClash, RoomCapability, RoomCapacity, FacultyUnavailable, FacultyOverload, FacultyUnqualified, BlockOverflow, MissingSession, DuplicateSession, UnknownReference}
	SoftViolations = []Violation{IdleGap, UnevenLoad, ConsecutiveDays, SameDay, PracticalTime, TheoryTime, LongRun}
)

func (violation Violation) Hard() bool {
	return slices.Contains(HardViolations, violation)
}

// Weights scale each soft violation count into soft cost
type Weights struct {
	IdleGap         float64 `json:"idleGap" yaml:"idleGap" mapstructure:"idleGap" validate:"gte=0"`
	UnevenLoad      float64 `json:"unevenLoad" yaml:"unevenLoad" mapstructure:"unevenLoad" validate:"gte=0"`
	ConsecutiveDays float64 `json:"consecutiveDays" yaml:"consecutiveDays" mapstructure:"consecutiveDays" validate:"gte=0"`
	SameDay         float64 `json:"sameDay" yaml:"sameDay" mapstructure:"sameDay" validate:"gte=0"`
	PracticalTime   float64 `json:"practicalTime" yaml:"practicalTime" mapstructure:"practicalTime" validate:"gte=0"`
	TheoryTime      float64 `json:"theoryTime" yaml:"theoryTime" mapstructure:"theoryTime" validate:"gte=0"`
	LongRun         float64 `json:"longRun" yaml:"longRun" mapstructure:"longRun" validate:"gte=0"`
}

func DefaultWeights() Weights {
	return Weights{
		IdleGap:         1,
		UnevenLoad:      0.5,
		ConsecutiveDays: 1,
		SameDay:         2,
		PracticalTime:   1,
		TheoryTime:      0.25,
		LongRun:         1,
	}
}

func (weights Weights) of(violation Violation) float64 {
	switch violation {
	case IdleGap:
		return weights.IdleGap
	case UnevenLoad:
		return weights.UnevenLoad
	case ConsecutiveDays:
		return weights.ConsecutiveDays
	case SameDay:
		return weights.SameDay
	case PracticalTime:
		return weights.PracticalTime
	case TheoryTime:
		return weights.TheoryTime
	case LongRun:
		return weights.LongRun
	}
	return 0
}

type TimeOfDay string

const (
	Anytime   TimeOfDay = "any"
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
)

type Preferences struct {
	Practical      TimeOfDay `json:"practical" yaml:"practical" mapstructure:"practical" validate:"omitempty,oneof=any morning afternoon"`
	Theory         TimeOfDay `json:"theory" yaml:"theory" mapstructure:"theory" validate:"omitempty,oneof=any morning afternoon"`
	MaxConsecutive int       `json:"maxConsecutive" yaml:"maxConsecutive" mapstructure:"maxConsecutive" validate:"gte=0"` // Zero disables the long-run penalty
}

func DefaultPreferences() Preferences {
	return Preferences{
		Practical:      Afternoon,
		Theory:         Morning,
		MaxConsecutive: 3,
	}
}

type Score struct {
	Hard      int               `json:"hardViolations"`
	Soft      float64           `json:"softCost"`
	Breakdown map[Violation]int `json:"breakdown"`
}

// Compare orders scores lexicographically by (Hard, Soft), lower is better
func (score Score) Compare(other Score) int {
	if c := cmp.Compare(score.Hard, other.Hard); c != 0 {
		return c
	}
	return cmp.Compare(score.Soft, other.Soft)
}

func (score Score) Less(other Score) bool {
	return score.Compare(other) < 0
}

func (score Score) Feasible() bool {
	return score.Hard == 0
}

type Evaluator struct {
	input       Input
	sessions    []Session
	predicates  PredicateEvaluator
	indexer     Indexer
	weights     Weights
	preferences Preferences

	faculty     map[string]int
	rooms       map[string]int
	courses     map[string]int
	cohorts     []int // Cohort index per session
	cohortCount int
}

func NewEvaluator(input Input, weights Weights, preferences Preferences) (*Evaluator, error) {
	sessions, err := input.Sessions()
	if err != nil {
		return nil, err
	}

	evaluator := &Evaluator{
		input:       input,
		sessions:    sessions,
		predicates:  NewPredicateEvaluator(input, sessions),
		indexer:     input.Grid.Indexer(),
		weights:     weights,
		preferences: preferences,
		faculty:     make(map[string]int),
		rooms:       make(map[string]int),
		courses:     make(map[string]int),
	}
	for i, faculty := range input.Faculty {
		evaluator.faculty[faculty.Id] = i
	}
	for i, room := range input.Rooms {
		evaluator.rooms[room.Id] = i
	}
	for i, course := range input.Courses {
		evaluator.courses[course.Id] = i
	}

	cohortNames := lo.Uniq(lo.Map(sessions, func(session Session, _ int) string { return session.Cohort }))
	slices.Sort(cohortNames)
	evaluator.cohortCount = len(cohortNames)
	evaluator.cohorts = lo.Map(sessions, func(session Session, _ int) int {
		index, _ := slices.BinarySearch(cohortNames, session.Cohort)
		return index
	})

	return evaluator, nil
}

func (evaluator *Evaluator) Sessions() []Session {
	return evaluator.sessions
}

// Evaluate scores a candidate timetable. It never fails: malformed assignments are counted as hard violations
func (evaluator *Evaluator) Evaluate(timetable Timetable) Score {
	grid := evaluator.input.Grid
	slots := grid.Slots()
	counts := make(map[Violation]int)

	//** Initialize occupancy matrices (one row of slots per faculty, room and cohort)
	facultyCells := make([]int, len(evaluator.input.Faculty)*slots)
	roomCells := make([]int, len(evaluator.input.Rooms)*slots)
	cohortCells := make([]int, evaluator.cohortCount*slots)
	facultyLoad := make([]int, len(evaluator.input.Faculty))
	courseDays := make([]int, len(evaluator.input.Courses)*grid.Days)
	seen := make([]int, len(evaluator.sessions))

	for _, assignment := range timetable {
		if assignment.Session < 0 || assignment.Session >= len(evaluator.sessions) {
			counts[UnknownReference]++
			continue
		}
		if seen[assignment.Session]++; seen[assignment.Session] > 1 {
			counts[DuplicateSession]++
			continue
		}

		session := evaluator.sessions[assignment.Session]
		faculty, facultyOk := evaluator.faculty[assignment.Faculty]
		room, roomOk := evaluator.rooms[assignment.Room]
		if !facultyOk || !roomOk || !grid.Contains(assignment.Slot) {
			counts[UnknownReference]++
			continue
		}
		day, start := assignment.Slot.Day, assignment.Slot.Period

		// Check that:
		// - Faculty is qualified for the session's course
		// - Room offers the capability the session requires
		// - Session's students fit in the room
		// - Session's block does not cross into a nonexistent period
		if !evaluator.predicates.Qualified(faculty, session.Id) {
			counts[FacultyUnqualified]++
		}
		if !evaluator.predicates.Capable(room, session.Id) {
			counts[RoomCapability]++
		}
		if !evaluator.predicates.Fits(room, session.Id) {
			counts[RoomCapacity]++
		}
		end := start + session.Duration
		if !evaluator.predicates.WithinDay(session.Id, assignment.Slot) {
			counts[BlockOverflow]++
			end = grid.Periods
		}

		cohort := evaluator.cohorts[session.Id]
		for period := start; period < end; period++ {
			if !evaluator.predicates.Available(faculty, day, period) {
				counts[FacultyUnavailable]++
			}
			index := evaluator.indexer.Index(period, day)
			facultyCells[faculty*slots+index]++ // Store faculty assistance
			roomCells[room*slots+index]++       // Store room assistance
			cohortCells[cohort*slots+index]++   // Store cohort assistance
			facultyLoad[faculty]++
		}
		courseDays[evaluator.courses[session.Course]*grid.Days+day]++

		if evaluator.outsidePreferredTime(session, start) {
			if session.Kind == Practical {
				counts[PracticalTime]++
			} else {
				counts[TheoryTime]++
			}
		}
	}

	//** Hard constraints
	for _, times := range seen {
		if times == 0 {
			counts[MissingSession]++
		}
	}
	counts[FacultyClash] += clashes(facultyCells)
	counts[RoomClash] += clashes(roomCells)
	counts[CohortClash] += clashes(cohortCells)
	for i, faculty := range evaluator.input.Faculty {
		if faculty.MaxLoad > 0 && facultyLoad[i] > faculty.MaxLoad {
			counts[FacultyOverload] += facultyLoad[i] - faculty.MaxLoad
		}
	}

	//** Soft constraints
	counts[IdleGap] += evaluator.idleGaps(facultyCells) + evaluator.idleGaps(cohortCells)
	counts[UnevenLoad] += evaluator.unevenLoad(cohortCells)
	counts[LongRun] += evaluator.longRuns(cohortCells)
	for course := range evaluator.input.Courses {
		days := courseDays[course*grid.Days : (course+1)*grid.Days]
		for day, sessions := range days {
			if sessions > 1 {
				counts[SameDay] += sessions - 1
			}
			if day+1 < len(days) && sessions > 0 && days[day+1] > 0 {
				counts[ConsecutiveDays]++
			}
		}
	}

	score := Score{Breakdown: make(map[Violation]int)}
	for _, violation := range HardViolations {
		if counts[violation] > 0 {
			score.Hard += counts[violation]
			score.Breakdown[violation] = counts[violation]
		}
	}
	for _, violation := range SoftViolations {
		if counts[violation] > 0 {
			score.Soft += evaluator.weights.of(violation) * float64(counts[violation])
			score.Breakdown[violation] = counts[violation]
		}
	}
	return score
}

func (evaluator *Evaluator) outsidePreferredTime(session Session, start int) bool {
	var preference TimeOfDay
	switch session.Kind {
	case Practical:
		preference = evaluator.preferences.Practical
	case Theory:
		preference = evaluator.preferences.Theory
	default:
		return false
	}

	morning := evaluator.input.Grid.Morning(start)
	return (preference == Morning && !morning) || (preference == Afternoon && morning)
}

// Counts every extra occupant of a cell
func clashes(cells []int) int {
	total := 0
	for _, occupants := range cells {
		if occupants > 1 {
			total += occupants - 1
		}
	}
	return total
}

// Counts the free periods between the first and last occupied period of each row's day
func (evaluator *Evaluator) idleGaps(cells []int) int {
	grid := evaluator.input.Grid
	slots := grid.Slots()
	total := 0
	for row := 0; row < len(cells); row += slots {
		for day := range grid.Days {
			first, last, occupied := -1, -1, 0
			for period := range grid.Periods {
				if cells[row+evaluator.indexer.Index(period, day)] > 0 {
					if first < 0 {
						first = period
					}
					last = period
					occupied++
				}
			}
			if first >= 0 {
				total += last - first + 1 - occupied
			}
		}
	}
	return total
}

// Sums, per row, the absolute deviation of each day's occupied periods from the daily mean
func (evaluator *Evaluator) unevenLoad(cells []int) int {
	grid := evaluator.input.Grid
	slots := grid.Slots()
	deviation := 0.0
	for row := 0; row < len(cells); row += slots {
		daily := make([]float64, grid.Days)
		for day := range grid.Days {
			for period := range grid.Periods {
				if cells[row+evaluator.indexer.Index(period, day)] > 0 {
					daily[day]++
				}
			}
		}
		mean := lo.Sum(daily) / float64(grid.Days)
		for _, load := range daily {
			deviation += math.Abs(load - mean)
		}
	}
	return int(math.Round(deviation))
}

// Counts the periods by which runs of consecutive occupied periods exceed the preferred maximum
func (evaluator *Evaluator) longRuns(cells []int) int {
	limit := evaluator.preferences.MaxConsecutive
	if limit <= 0 {
		return 0
	}

	grid := evaluator.input.Grid
	slots := grid.Slots()
	total := 0
	for row := 0; row < len(cells); row += slots {
		for day := range grid.Days {
			run := 0
			for period := range grid.Periods {
				if cells[row+evaluator.indexer.Index(period, day)] > 0 {
					run++
					continue
				}
				total += max(0, run-limit)
				run = 0
			}
			total += max(0, run-limit)
		}
	}
	return total
}
