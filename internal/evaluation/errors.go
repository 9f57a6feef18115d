package evaluation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableDocument is returned when the document is not a PDF or carries no text.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrStructuring matches every StructuringError.
	ErrStructuring = errors.New("resume structuring failed")
	// ErrScoring matches every ScoringError.
	ErrScoring = errors.New("resume scoring failed")
)

// StructuringError reports model output that could not be turned into a StructuredResume.
type StructuringError struct {
	Reason string
	Err    error
}

func (e *StructuringError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("structure resume: %s", e.Reason)
	}
	return fmt.Sprintf("structure resume: %s: %v", e.Reason, e.Err)
}

func (e *StructuringError) Unwrap() error { return e.Err }

func (e *StructuringError) Is(target error) bool { return target == ErrStructuring }

// ScoringError reports a scoring prompt that could not be built or a reply that could not be parsed.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("score resume: %s", e.Reason)
	}
	return fmt.Sprintf("score resume: %s: %v", e.Reason, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

func (e *ScoringError) Is(target error) bool { return target == ErrScoring }

func unreadable(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUnreadableDocument, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnreadableDocument, reason, err)
}
