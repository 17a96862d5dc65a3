package synonym

import (
	"errors"
	"fmt"
)

var (
	// ErrStarted is returned when Watch is called on a started dictionary
	ErrStarted = errors.New("synonym: dictionary already started")
)

// ErrMalformedRule returns an error for a rule that failed to compile
// line is 1-based within the fetched rule set
func ErrMalformedRule(line int, rule string, err error) error {
	return fmt.Errorf("synonym: malformed rule at line %d (%q): %w", line, rule, err)
}
