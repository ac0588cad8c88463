package model

import "github.com/samber/lo"

// Validate checks the referential integrity of the input: every course is consistent, ids are unique,
// qualifications name known courses and availability masks match the grid
func (input Input) Validate() error {
	//** Grid
	if input.Grid.Days <= 0 || input.Grid.Periods <= 0 {
		return invalidInput("grid", "", "empty grid (%d days, %d periods)", input.Grid.Days, input.Grid.Periods)
	}
	if len(input.Grid.DayNames) > 0 && len(input.Grid.DayNames) != input.Grid.Days {
		return invalidInput("grid", "", "%d day names for %d days", len(input.Grid.DayNames), input.Grid.Days)
	}
	if len(input.Grid.PeriodTimes) > 0 && len(input.Grid.PeriodTimes) != input.Grid.Periods {
		return invalidInput("grid", "", "%d period times for %d periods", len(input.Grid.PeriodTimes), input.Grid.Periods)
	}

	//** Courses
	for _, course := range input.Courses {
		if err := course.Validate(); err != nil {
			return err
		}
	}
	if duplicates := lo.FindDuplicatesBy(input.Courses, func(course Course) string { return course.Id }); len(duplicates) > 0 {
		return invalidInput("course", duplicates[0].Id, "duplicate id")
	}

	//** Faculty
	for _, faculty := range input.Faculty {
		if faculty.Id == "" {
			return invalidInput("faculty", "", "faculty id is empty")
		}
		if faculty.MaxLoad < 0 {
			return invalidInput("faculty", faculty.Id, "negative max load %d", faculty.MaxLoad)
		}
		for _, course := range faculty.Courses {
			if _, ok := input.Course(course); !ok {
				return invalidInput("faculty", faculty.Id, "qualified for unknown course \"%v\"", course)
			}
		}
		if len(faculty.Availability) == 0 {
			continue
		}
		if len(faculty.Availability) != input.Grid.Periods {
			return invalidInput("faculty", faculty.Id, "availability has %d periods, grid has %d", len(faculty.Availability), input.Grid.Periods)
		}
		for period, days := range faculty.Availability {
			if len(days) != input.Grid.Days {
				return invalidInput("faculty", faculty.Id, "availability period %d has %d days, grid has %d", period, len(days), input.Grid.Days)
			}
		}
	}
	if duplicates := lo.FindDuplicatesBy(input.Faculty, func(faculty Faculty) string { return faculty.Id }); len(duplicates) > 0 {
		return invalidInput("faculty", duplicates[0].Id, "duplicate id")
	}

	//** Rooms
	for _, room := range input.Rooms {
		if room.Id == "" {
			return invalidInput("room", "", "room id is empty")
		}
		if room.Capacity < 0 {
			return invalidInput("room", room.Id, "negative capacity %d", room.Capacity)
		}
	}
	if duplicates := lo.FindDuplicatesBy(input.Rooms, func(room Room) string { return room.Id }); len(duplicates) > 0 {
		return invalidInput("room", duplicates[0].Id, "duplicate id")
	}

	return nil
}
