package serializer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// NonFieldKey is the details key under which cross-field failures are reported.
const NonFieldKey = "non_field_errors"

// FieldValidationError reports a single field violating a declared constraint.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CrossFieldValidationError reports a constraint spanning several fields.
type CrossFieldValidationError struct {
	Fields  []string
	Message string
}

func (e *CrossFieldValidationError) Error() string {
	return e.Message
}

// RelationshipLookupError reports a related entity missing at serialization time.
type RelationshipLookupError struct {
	Entity   schema.Kind
	Relation string
	ID       int64
	Err      error
}

func (e *RelationshipLookupError) Error() string {
	return fmt.Sprintf("%s %d has no %s: %v", e.Entity, e.ID, e.Relation, e.Err)
}

func (e *RelationshipLookupError) Unwrap() error { return e.Err }

// ValidationErrors collects every violation found in one submission.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error { return v }

// Details groups messages by field, with cross-field messages under NonFieldKey.
func (v ValidationErrors) Details() map[string][]string {
	out := make(map[string][]string)
	for _, err := range v {
		var fe *FieldValidationError
		var ce *CrossFieldValidationError
		switch {
		case errors.As(err, &fe):
			out[fe.Field] = append(out[fe.Field], fe.Message)
		case errors.As(err, &ce):
			out[NonFieldKey] = append(out[NonFieldKey], ce.Message)
		default:
			out[NonFieldKey] = append(out[NonFieldKey], err.Error())
		}
	}
	return out
}

// Fields lists the distinct field names that failed, sorted.
func (v ValidationErrors) Fields() []string {
	seen := make(map[string]struct{})
	for _, err := range v {
		var fe *FieldValidationError
		if errors.As(err, &fe) {
			seen[fe.Field] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (v ValidationErrors) hasField(name string) bool {
	for _, err := range v {
		if fe, ok := err.(*FieldValidationError); ok && fe.Field == name {
			return true
		}
	}
	return false
}

func lookupError(kind schema.Kind, relation string, id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &RelationshipLookupError{Entity: kind, Relation: relation, ID: id, Err: err}
	}
	return fmt.Errorf("load %s of %s %d: %w", relation, kind, id, err)
}
