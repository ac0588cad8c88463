package model

// SampleInput returns a small B.Ed first-semester dataset over a Monday to Friday, five-period week
func SampleInput() Input {
	course := func(id, name string, credits, theory, practical int) Course {
		return Course{
			Id:        id,
			Name:      name,
			Code:      id,
			Credits:   credits,
			Theory:    theory,
			Practical: practical,
			Students:  60,
			Program:   "B.Ed",
			Semester:  1,
		}
	}

	// Karan Malhotra does not teach on Friday afternoon
	partial := make([][]bool, 5)
	for period := range partial {
		partial[period] = []bool{true, true, true, true, period < 3}
	}

	return Input{
		Courses: []Course{
			course("BED101", "Childhood and Growing Up", 4, 2, 0),
			course("BED103", "Contemporary India and Education", 4, 2, 0),
			course("BED105", "Language across the Curriculum", 2, 1, 0),
			course("BED107", "Understanding Disciplines and Subjects", 4, 2, 0),
			course("BED109", "Gender, School and Society", 4, 2, 0),
			course("BED111", "Learning and Teaching", 4, 2, 0),
			course("BED151", "Reading and Reflecting on Texts", 2, 0, 1),
			course("BED153", "Drama and Art in Education", 2, 0, 1),
			course("MOOC", "Massive Open Online Course", 2, 2, 0),
		},
		Faculty: []Faculty{
			{Id: "F1", Name: "Dr. Meera Sharma", Courses: []string{"BED101", "BED111", "BED151"}},
			{Id: "F2", Name: "Dr. Rajesh Verma", Courses: []string{"BED103", "BED153", "MOOC"}},
			{Id: "F3", Name: "Prof. Ananya Gupta", Courses: []string{"BED105", "BED109", "BED151"}},
			{Id: "F4", Name: "Dr. Karan Malhotra", Courses: []string{"BED107", "BED109", "MOOC", "BED153"}, Availability: partial, MaxLoad: 10},
		},
		Rooms: []Room{
			{Id: "LH1", Name: "Lecture Hall 1", Capacity: 60, Tags: []string{LectureTag}},
			{Id: "LH2", Name: "Lecture Hall 2", Capacity: 70, Tags: []string{LectureTag}},
			{Id: "LH3", Name: "Lecture Hall 3", Capacity: 40, Tags: []string{LectureTag}},
			{Id: "LAB1", Name: "Computer Lab", Capacity: 60, Tags: []string{LabTag}},
			{Id: "HALL", Name: "Seminar Hall", Capacity: 120, Tags: []string{LectureTag, "hall"}},
		},
		Grid: TimeGrid{
			Days:     5,
			Periods:  5,
			DayNames: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			PeriodTimes: []PeriodTime{
				{Start: "09:00", End: "10:00"},
				{Start: "10:00", End: "11:00"},
				{Start: "11:15", End: "12:15"},
				{Start: "13:00", End: "14:00"},
				{Start: "14:00", End: "15:00"},
			},
		},
	}
}
