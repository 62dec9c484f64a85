package canonical

import "fmt"

// TimeoutError is returned when the standard algorithm's N-degree
// exploration exceeds its iteration budget. The canonicalization is aborted;
// callers must not fall back to the custom algorithm, whose correctness
// guarantee does not hold on the tiers routed here.
type TimeoutError struct {
	budget int
}

// NewTimeoutError ...
func NewTimeoutError(budget int) TimeoutError {
	return TimeoutError{budget: budget}
}

// Error implements the error interface
func (e TimeoutError) Error() string {
	return fmt.Sprintf("canonicalization exceeded iteration budget (%d)", e.budget)
}

// IsTimeout checks that an error is of type TimeoutError.
func IsTimeout(err error) bool {
	_, ok := err.(TimeoutError)
	return ok
}
