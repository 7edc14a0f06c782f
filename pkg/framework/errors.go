package framework

import "strings"

// AggregatedError collects the errors of multiple runners into one.
type AggregatedError struct {
	Errors []error
}

// Add appends errors, skipping nil values.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err == nil {
			continue
		}
		e.Errors = append(e.Errors, err)
	}
	return e
}

// Aggregate returns nil when no error was collected, otherwise the
// aggregate itself.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements error.
func (e *AggregatedError) Error() string {
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, "multiple errors:")
	for _, err := range e.Errors {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}
