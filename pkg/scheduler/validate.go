package scheduler

import (
	"fmt"
	"slices"

	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/samber/lo"
)

func invalid(record, id, format string, args ...any) error {
	return &model.InvalidInputError{Record: record, Id: id, Reason: fmt.Sprintf(format, args...)}
}

// Validate rejects inputs that are malformed or provably infeasible before any search starts
func Validate(input model.Input) error {
	if err := input.Validate(); err != nil {
		return err
	}

	sessions, err := input.Sessions()
	if err != nil {
		return err
	}

	grid := input.Grid
	demand := 0
	cohortDemand := make(map[string]int)
	soleDemand := make(map[string]int) // Periods only one faculty can teach
	for _, session := range sessions {
		if session.Duration > grid.Periods {
			return invalid("course", session.Course, "%v session of %d periods is longer than the %d-period day", session.Kind, session.Duration, grid.Periods)
		}

		qualified := lo.Filter(input.Faculty, func(faculty model.Faculty, _ int) bool { return faculty.Qualified(session.Course) })
		if len(qualified) == 0 {
			return invalid("course", session.Course, "no qualified faculty")
		}
		if !lo.SomeBy(input.Rooms, func(room model.Room) bool { return room.Suits(session) }) {
			return invalid("course", session.Course, "no \"%v\" room seats %d students", session.RoomType, session.Students)
		}
		if !lo.SomeBy(qualified, func(faculty model.Faculty) bool { return hasContiguousBlock(faculty, grid, session.Duration) }) {
			return invalid("course", session.Course, "no qualified faculty is available for %d contiguous periods", session.Duration)
		}

		demand += session.Duration
		cohortDemand[session.Cohort] += session.Duration
		if len(qualified) == 1 {
			soleDemand[qualified[0].Id] += session.Duration
		}
	}

	if capacity := len(input.Rooms) * grid.Slots(); demand > capacity {
		return invalid("room", "", "weekly demand of %d periods exceeds %d room-slots", demand, capacity)
	}

	cohorts := lo.Keys(cohortDemand)
	slices.Sort(cohorts)
	for _, cohort := range cohorts {
		if cohortDemand[cohort] > grid.Slots() {
			return invalid("cohort", cohort, "weekly demand of %d periods exceeds the %d slots of the grid", cohortDemand[cohort], grid.Slots())
		}
	}

	for _, faculty := range input.Faculty {
		required := soleDemand[faculty.Id]
		if available := faculty.AvailablePeriods(grid); required > available {
			return invalid("faculty", faculty.Id, "sole teacher for %d periods but available for %d", required, available)
		}
		if faculty.MaxLoad > 0 && required > faculty.MaxLoad {
			return invalid("faculty", faculty.Id, "sole teacher for %d periods but max load is %d", required, faculty.MaxLoad)
		}
	}

	return nil
}

func hasContiguousBlock(faculty model.Faculty, grid model.TimeGrid, duration int) bool {
	for day := range grid.Days {
		run := 0
		for period := range grid.Periods {
			if !faculty.AvailableAt(day, period) {
				run = 0
				continue
			}
			if run++; run >= duration {
				return true
			}
		}
	}
	return false
}
