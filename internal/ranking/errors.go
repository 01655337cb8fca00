package ranking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput matches every error returned by this package.
var ErrInvalidInput = errors.New("invalid ranking input")

// ValidationError reports an invalid ranking option.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// SchemaError reports an item missing a required field or carrying an
// unusable value. Index is the item's position in the input collection.
type SchemaError struct {
	Index  int
	Title  string
	Fields []string
}

func (e *SchemaError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("item %d: missing or invalid fields: %s", e.Index, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("item %d (%q): missing or invalid fields: %s", e.Index, e.Title, strings.Join(e.Fields, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidInput
}
