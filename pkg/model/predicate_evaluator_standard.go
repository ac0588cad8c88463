package model

type predicateEvaluatorStandard struct {
	input    Input
	sessions []Session
}

func (evaluator *predicateEvaluatorStandard) Qualified(faculty, session int) bool {
	return evaluator.input.Faculty[faculty].Qualified(evaluator.sessions[session].Course)
}

func (evaluator *predicateEvaluatorStandard) Available(faculty, day, period int) bool {
	return evaluator.input.Faculty[faculty].AvailableAt(day, period)
}

func (evaluator *predicateEvaluatorStandard) AvailableForBlock(faculty, session int, slot TimeSlot) bool {
	if !evaluator.WithinDay(session, slot) {
		return false
	}
	for period := slot.Period; period < slot.Period+evaluator.sessions[session].Duration; period++ {
		if !evaluator.Available(faculty, slot.Day, period) {
			return false
		}
	}
	return true
}

func (evaluator *predicateEvaluatorStandard) Capable(room, session int) bool {
	return evaluator.input.Rooms[room].HasTag(evaluator.sessions[session].RoomType)
}

func (evaluator *predicateEvaluatorStandard) Fits(room, session int) bool {
	return evaluator.input.Rooms[room].Capacity >= evaluator.sessions[session].Students
}

func (evaluator *predicateEvaluatorStandard) WithinDay(session int, slot TimeSlot) bool {
	return evaluator.input.Grid.Contains(slot) && slot.Period+evaluator.sessions[session].Duration <= evaluator.input.Grid.Periods
}
