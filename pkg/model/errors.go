package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCourseData = errors.New("invalid course data")
	ErrInvalidInput      = errors.New("invalid input")
)

// InvalidCourseDataError identifies the course whose credit/session counts are inconsistent
type InvalidCourseDataError struct {
	Course string
	Reason string
}

func (err *InvalidCourseDataError) Error() string {
	return fmt.Sprintf("invalid course data for course \"%v\": %v", err.Course, err.Reason)
}

func (err *InvalidCourseDataError) Is(target error) bool {
	return target == ErrInvalidCourseData
}

// InvalidInputError identifies the record (kind and id) that breaks referential integrity or capacity
type InvalidInputError struct {
	Record string // "course", "faculty", "room", "grid", "session" or "cohort"
	Id     string
	Reason string
}

func (err *InvalidInputError) Error() string {
	if err.Id == "" {
		return fmt.Sprintf("invalid input: %v: %v", err.Record, err.Reason)
	}
	return fmt.Sprintf("invalid input: %v \"%v\": %v", err.Record, err.Id, err.Reason)
}

func (err *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(record, id, format string, args ...any) error {
	return &InvalidInputError{Record: record, Id: id, Reason: fmt.Sprintf(format, args...)}
}
