// Package serializer converts between wire mappings and entity values. The
// write path validates input against the entity schema and per-entity rules;
// the read path projects entities, computes derived fields and embeds related
// entities.
package serializer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clark-Hu/catalog-api/internal/domain"
	"github.com/Clark-Hu/catalog-api/internal/schema"
)

// Relations is the read-only traversal capability of the data store.
type Relations interface {
	Exists(ctx context.Context, kind schema.Kind, id int64) (bool, error)
	LikedBy(ctx context.Context, resourceID int64) ([]int64, error)
	User(ctx context.Context, id int64) (domain.User, error)
	Profile(ctx context.Context, userID int64) (domain.UserProfile, error)
	ModelB(ctx context.Context, id int64) (domain.ModelB, error)
	ModelC(ctx context.Context, id int64) (domain.ModelC, error)
}

// Values is a validated, entity-bound field mapping. Keys are schema field
// names; values carry the field's Go type (string, int64, bool, time.Time,
// []int64 or an id for references).
type Values map[string]any

// Options tunes Deserialize.
type Options struct {
	// Partial validates only the fields present in the input.
	Partial bool
	// Current holds the stored values of the entity being updated. Cross-field
	// rules fall back to it for fields absent from a partial input.
	Current Values
}

// Serializer is safe for concurrent use; it keeps no state between calls.
type Serializer struct {
	rel Relations
}

// New constructs a Serializer backed by rel.
func New(rel Relations) *Serializer {
	return &Serializer{rel: rel}
}

// Deserialize validates input for kind and returns the validated values.
// Violations are reported together as ValidationErrors.
func (s *Serializer) Deserialize(ctx context.Context, kind schema.Kind, input map[string]any, opts Options) (Values, error) {
	entity, ok := schema.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("serializer: unknown entity %q", kind)
	}
	if unwrap, ok := envelopes[kind]; ok {
		inner, err := unwrap(input)
		if err != nil {
			return nil, ValidationErrors{err}
		}
		input = inner
	}

	var errs ValidationErrors
	out := make(Values)
	for _, f := range entity.Writable() {
		raw, present := input[f.Name]
		if !present {
			switch {
			case opts.Partial:
			case f.HasDefault():
				out[f.Name] = copyDefault(f.Default)
			case f.Required:
				errs = append(errs, &FieldValidationError{Field: f.Name, Message: "this field is required"})
			}
			continue
		}

		val, err := s.coerce(ctx, f, raw)
		if err != nil {
			var fe *FieldValidationError
			if errors.As(err, &fe) {
				errs = append(errs, fe)
				continue
			}
			return nil, err
		}
		out[f.Name] = val
	}

	for _, v := range fieldRules[kind] {
		val, ok := out[v.field]
		if !ok {
			continue
		}
		if msg := v.check(val); msg != "" {
			errs = append(errs, &FieldValidationError{Field: v.field, Message: msg})
			delete(out, v.field)
		}
	}

	for _, rule := range crossRules[kind] {
		view, ok := resolve(rule.fields, out, opts.Current, errs)
		if !ok {
			continue
		}
		if msg := rule.check(view); msg != "" {
			errs = append(errs, &CrossFieldValidationError{Fields: rule.fields, Message: msg})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// resolve gathers the values a cross-field rule needs. It fails when any field
// is missing or already failed on its own.
func resolve(fields []string, out, current Values, errs ValidationErrors) (Values, bool) {
	view := make(Values, len(fields))
	for _, name := range fields {
		if errs.hasField(name) {
			return nil, false
		}
		if v, ok := out[name]; ok {
			view[name] = v
			continue
		}
		if v, ok := current[name]; ok {
			view[name] = v
			continue
		}
		return nil, false
	}
	return view, true
}

func copyDefault(v any) any {
	if ids, ok := v.([]int64); ok {
		return append([]int64{}, ids...)
	}
	return v
}
