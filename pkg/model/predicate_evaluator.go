package model

// PredicateEvaluator answers the per-record questions shared by the constraint evaluator, the chromosome
// codec and the greedy seeder. Faculty, rooms and sessions are referred to by their position in the input
type PredicateEvaluator interface {
	// Checks whether the faculty is qualified to teach the session's course
	Qualified(faculty, session int) bool

	// Checks whether the faculty is available to teach at the given day and period
	Available(faculty, day, period int) bool

	// Checks whether the faculty is available for every period of the session's block starting at slot
	AvailableForBlock(faculty, session int, slot TimeSlot) bool

	// Checks whether the room offers the capability the session requires (e.g. a lab for practicals)
	Capable(room, session int) bool

	// Checks whether the session's students fit in the room
	Fits(room, session int) bool

	// Checks whether the session's block starting at slot ends before the day does
	WithinDay(session int, slot TimeSlot) bool
}

func NewPredicateEvaluator(input Input, sessions []Session) PredicateEvaluator {
	return &predicateEvaluatorStandard{
		input:    input,
		sessions: sessions,
	}
}
