package extraction

import (
	"errors"
	"fmt"
)

// ErrExtractionFailed is reported for every failure to read page text from a
// source file. Callers match it with errors.Is.
var ErrExtractionFailed = errors.New("failed to extract text from file")

// ExtractionError carries the underlying cause of an extraction failure.
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction error: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction error: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is makes every ExtractionError match ErrExtractionFailed.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
