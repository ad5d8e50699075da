package sales

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no sale matches the lookup.
var ErrNotFound = errors.New("sale not found")

// ValidationError aggregates everything wrong with a cart. It is
// returned before any write, so the caller can fix the cart and retry.
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Field + ": " + issue.Message
	}
	return "cart validation failed: " + strings.Join(msgs, "; ")
}
