package model

import (
	"cmp"
	"slices"
)

// Assignment is the atomic output unit: one session placed at a start slot, in a room, with a faculty
type Assignment struct {
	Session  int         `json:"session"`
	Course   string      `json:"course"`
	Kind     SessionKind `json:"kind"`
	Duration int         `json:"duration"`
	Slot     TimeSlot    `json:"slot"`
	Room     string      `json:"room"`
	Faculty  string      `json:"faculty"`
}

// Occupies reports whether the assignment's block covers the slot
func (assignment Assignment) Occupies(slot TimeSlot) bool {
	return assignment.Slot.Day == slot.Day && slot.Period >= assignment.Slot.Period && slot.Period < assignment.Slot.Period+assignment.Duration
}

// Timetable holds exactly one Assignment per Session, in session id order when canonical
type Timetable []Assignment

// Canonical returns a copy ordered by session id
func (timetable Timetable) Canonical() Timetable {
	canonical := slices.Clone(timetable)
	slices.SortStableFunc(canonical, func(a, b Assignment) int {
		return cmp.Compare(a.Session, b.Session)
	})
	return canonical
}

// At returns the assignments whose block covers the slot
func (timetable Timetable) At(slot TimeSlot) []Assignment {
	at := make([]Assignment, 0)
	for _, assignment := range timetable {
		if assignment.Occupies(slot) {
			at = append(at, assignment)
		}
	}
	return at
}

// Verify checks that the timetable is complete and free of hard violations for the input
func Verify(timetable Timetable, input Input) bool {
	evaluator, err := NewEvaluator(input, DefaultWeights(), DefaultPreferences())
	if err != nil {
		return false
	}
	return evaluator.Evaluate(timetable).Hard == 0
}
