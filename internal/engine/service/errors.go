package service

import (
	"fmt"
	"strings"

	"github.com/go-concord/concord/internal/engine/validate"
)

// ValidationError rejects a write before anything is persisted. For bulk
// writes it carries every offending key; the batch is all-or-nothing.
type ValidationError struct {
	Errors []validate.KeyError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ke := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", ke.Key, strings.Join(ke.Errors, "; ")))
	}
	return "validation failed: " + strings.Join(parts, " | ")
}
