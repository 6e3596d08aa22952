// Package schema declares the entities exposed by the API: their fields,
// semantic types, defaults and relationships. It holds no behavior beyond
// structural introspection.
package schema

import (
	"fmt"
	"sort"
)

// Kind identifies an entity.
type Kind string

const (
	KindMovie       Kind = "movie"
	KindResource    Kind = "resource"
	KindUser        Kind = "user"
	KindUserProfile Kind = "user_profile"
	KindComment     Kind = "comment"
	KindModelA      Kind = "model_a"
	KindModelB      Kind = "model_b"
	KindModelC      Kind = "model_c"
)

// FieldType is the semantic type of a field.
type FieldType int

const (
	TypeText FieldType = iota
	TypeDate
	TypeTimestamp
	TypeInteger
	TypeBool
	// TypeRef is a many-to-one reference holding the target's id.
	TypeRef
	// TypeOneToOne is a unique reference to the target's id.
	TypeOneToOne
	// TypeRefSet is a many-to-many membership holding target ids.
	TypeRefSet
)

func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	case TypeInteger:
		return "integer"
	case TypeBool:
		return "bool"
	case TypeRef:
		return "ref"
	case TypeOneToOne:
		return "one_to_one"
	case TypeRefSet:
		return "ref_set"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Cardinality describes how many targets a relationship field points at.
type Cardinality int

const (
	NoRelation Cardinality = iota
	ManyToOne
	OneToOne
	ManyToMany
)

// DeleteRule is the action taken on a field's owner when its target is deleted.
type DeleteRule int

const (
	NoAction DeleteRule = iota
	Cascade
)

// Field describes one declared field of an entity.
type Field struct {
	Name      string
	Column    string
	Type      FieldType
	Required  bool
	ReadOnly  bool
	Default   any
	MaxLength int
	Min       *int64
	Max       *int64
	Target    Kind
	OnDelete  DeleteRule
}

// IsRelation reports whether the field references another entity.
func (f Field) IsRelation() bool {
	return f.Cardinality() != NoRelation
}

// Cardinality derives the relationship cardinality from the field type.
func (f Field) Cardinality() Cardinality {
	switch f.Type {
	case TypeRef:
		return ManyToOne
	case TypeOneToOne:
		return OneToOne
	case TypeRefSet:
		return ManyToMany
	default:
		return NoRelation
	}
}

// HasDefault reports whether a default is declared.
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// Entity is the declaration of a single entity.
type Entity struct {
	Kind   Kind
	Table  string
	Fields []Field
}

// Field returns the named field.
func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Writable returns fields accepted on input, in declaration order.
func (e Entity) Writable() []Field {
	out := make([]Field, 0, len(e.Fields))
	for _, f := range e.Fields {
		if !f.ReadOnly {
			out = append(out, f)
		}
	}
	return out
}

// Defaults returns the declared default of every field that has one.
func (e Entity) Defaults() map[string]any {
	out := make(map[string]any)
	for _, f := range e.Fields {
		if f.HasDefault() {
			out[f.Name] = f.Default
		}
	}
	return out
}

// Relations returns the relationship fields of the entity.
func (e Entity) Relations() []Field {
	var out []Field
	for _, f := range e.Fields {
		if f.IsRelation() {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns the stored column names in declaration order. Many-to-many
// fields live in a join table and are skipped.
func (e Entity) Columns() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Type == TypeRefSet || f.Column == "" {
			continue
		}
		out = append(out, f.Column)
	}
	return out
}

// Lookup returns the declaration for kind.
func Lookup(kind Kind) (Entity, bool) {
	e, ok := registry[kind]
	return e, ok
}

// MustLookup is Lookup for kinds known at compile time.
func MustLookup(kind Kind) Entity {
	e, ok := registry[kind]
	if !ok {
		panic(fmt.Sprintf("schema: unknown entity %q", kind))
	}
	return e
}

// Kinds lists all declared entities in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
