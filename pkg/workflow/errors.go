package workflow

import "errors"

var (
	// ErrBusy is returned when the slot already has an outstanding call
	ErrBusy = errors.New("operation already in progress")
	// ErrValidation marks local validation failures; no call was issued
	ErrValidation = errors.New("validation failed")
	// ErrNoProfile is returned by profile-dependent actions before a successful parse
	ErrNoProfile = errors.New("no parsed profile")
	// ErrInvalidTransition is returned when reviewing a job that is no longer pending
	ErrInvalidTransition = errors.New("invalid job status transition")
	// ErrClosed is returned by mutators after Close, and for responses arriving after it
	ErrClosed = errors.New("store closed")
	// ErrSuperseded is returned when a newer action invalidated the result before it arrived
	ErrSuperseded = errors.New("result superseded")

	ErrUnknownJob   = errors.New("unknown job")
	ErrDuplicateJob = errors.New("duplicate job id")
	ErrNoSelection  = errors.New("no job selected")
	ErrUnknownTopic = errors.New("unknown resource topic")
)

// Local validation messages shown to the user
const (
	MsgResumeRequired    = "Please paste your resume text into the box."
	MsgJobFieldsRequired = "Please fill out the Job Title, Company Name, and Description fields."
)

// ValidationError carries the message for a failed local check. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
