package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"github.com/samber/lo"
)

// Day names and ids are printed as given, not upper-cased
func newWriter(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.Style().Title.Format = text.FormatDefault
	return tw
}

// Cohorts lists the cohorts of the input in sorted order
func Cohorts(input model.Input) []string {
	cohorts := lo.Uniq(lo.Map(input.Courses, func(course model.Course, _ int) string { return course.Cohort() }))
	slices.Sort(cohorts)
	return cohorts
}

// Grid prints the cohort's week as a period x day table
func Grid(out io.Writer, timetable model.Timetable, input model.Input, cohort string) {
	courses := lo.SliceToMap(input.Courses, func(course model.Course) (string, model.Course) { return course.Id, course })
	attended := lo.Filter(timetable, func(assignment model.Assignment, _ int) bool {
		return courses[assignment.Course].Cohort() == cohort
	})

	tw := newWriter(out)
	tw.SetTitle(cohort)

	header := table.Row{"Period"}
	for day := range input.Grid.Days {
		header = append(header, input.Grid.DayName(day))
	}
	tw.AppendHeader(header)

	for period := range input.Grid.Periods {
		row := table.Row{input.Grid.PeriodLabel(period)}
		for day := range input.Grid.Days {
			cell := lo.Map(model.Timetable(attended).At(model.TimeSlot{Day: day, Period: period}), func(assignment model.Assignment, _ int) string {
				return fmt.Sprintf("%v (%v)\n%v @ %v", assignment.Course, assignment.Kind, assignment.Faculty, assignment.Room)
			})
			row = append(row, strings.Join(cell, "\n"))
		}
		tw.AppendRow(row)
		tw.AppendSeparator()
	}
	tw.Render()
}

// Timetable prints one grid per cohort
func Timetable(out io.Writer, timetable model.Timetable, input model.Input) {
	for _, cohort := range Cohorts(input) {
		Grid(out, timetable, input, cohort)
		fmt.Fprintln(out)
	}
}

// Breakdown prints the violation counts behind a score
func Breakdown(out io.Writer, score model.Score) {
	tw := newWriter(out)
	tw.AppendHeader(table.Row{"Constraint", "Type", "Count"})

	for _, violation := range slices.Concat(model.HardViolations, model.SoftViolations) {
		count, ok := score.Breakdown[violation]
		if !ok {
			continue
		}
		kind := "soft"
		if violation.Hard() {
			kind = "hard"
		}
		tw.AppendRow(table.Row{violation, kind, count})
	}

	tw.AppendFooter(table.Row{"Hard violations", "", score.Hard})
	tw.AppendFooter(table.Row{"Soft cost", "", fmt.Sprintf("%.2f", score.Soft)})
	tw.Render()
}
