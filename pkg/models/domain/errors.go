package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCalendarDate  = errors.New("invalid lunar calendar date")
	ErrInvalidSolarDate     = errors.New("invalid solar calendar date")
	ErrLocationNotResolved  = errors.New("location not resolved")
	ErrKnowledgeBaseMissing = errors.New("knowledge base table missing")
	ErrInputIncomplete      = errors.New("input incomplete")
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageValidation Stage = "validation"
	StageCalendar   Stage = "calendar"
	StageSolarTime  Stage = "solar_time"
	StagePillars    Stage = "pillars"
	StageAnalysis   Stage = "analysis"
)

// SubjectError ties a pipeline failure to the subject it belongs to.
type SubjectError struct {
	Subject string
	Stage   Stage
	Err     error
}

func (e *SubjectError) Error() string {
	return fmt.Sprintf("subject %s failed at %s: %v", e.Subject, e.Stage, e.Err)
}

func (e *SubjectError) Unwrap() error {
	return e.Err
}

// ErrorKind maps an error onto the stable kind names exposed to clients.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInputIncomplete):
		return "input_incomplete"
	case errors.Is(err, ErrInvalidCalendarDate):
		return "invalid_calendar_date"
	case errors.Is(err, ErrInvalidSolarDate):
		return "invalid_solar_date"
	case errors.Is(err, ErrLocationNotResolved):
		return "location_not_resolved"
	case errors.Is(err, ErrKnowledgeBaseMissing):
		return "knowledge_base_missing"
	default:
		return "internal"
	}
}
