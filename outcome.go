package docweaver

import (
	"errors"
	"fmt"
	"io/fs"
)

// Outcome classifies the result of a tag handler.
type Outcome int

const (
	// OutcomeOK means the handler finished normally.
	OutcomeOK Outcome = iota
	// OutcomeRecoverable means the current tag instance is abandoned and
	// replaced with alt-text; the document continues.
	OutcomeRecoverable
	// OutcomeFatal aborts the document.
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// RecoverableError is an expected failure: a business rule in a handler, a
// missing generator, or a missing external resource.
type RecoverableError struct {
	Reason string
	ID     string // identifying value, optional
	Err    error
}

func (e *RecoverableError) Error() string {
	msg := e.Reason
	if e.ID != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecoverableError) Unwrap() error { return e.Err }

// Recoverable marks err as an expected failure. err may be nil.
func Recoverable(reason string, err error) error {
	return &RecoverableError{Reason: reason, Err: err}
}

// RecoverableFor is Recoverable with the identifying value of the failed
// instance, used for the alt-text when the tag has no data configuration.
func RecoverableFor(reason, id string, err error) error {
	return &RecoverableError{Reason: reason, ID: id, Err: err}
}

// Recoverablef builds a RecoverableError from a format string.
func Recoverablef(format string, args ...any) error {
	return &RecoverableError{Reason: fmt.Sprintf(format, args...)}
}

// Classify maps a handler error onto an Outcome. Missing or inaccessible
// files count as recoverable.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var re *RecoverableError
	if errors.As(err, &re) {
		return OutcomeRecoverable
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return OutcomeRecoverable
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return OutcomeRecoverable
	}
	return OutcomeFatal
}

// reason extracts the human readable part of a recoverable error.
func reason(err error) string {
	var re *RecoverableError
	if errors.As(err, &re) {
		return re.Reason
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Sprintf("unable to %s %s", pe.Op, pe.Path)
	}
	return err.Error()
}

// altID returns the identifying value of a failed tag instance.
func altID(t *Tag, err error) string {
	if t.ConfigID != "" {
		return t.ConfigID
	}
	var re *RecoverableError
	if errors.As(err, &re) {
		return re.ID
	}
	return ""
}
