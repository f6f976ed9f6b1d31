package params

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrSchemaNotFound is returned when a resource type or operation has no
// registered schema. It signals a programming error, not bad input.
var ErrSchemaNotFound = errors.New("schema not found")

// MissingFieldError reports the first mandatory field without a value or default.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Mandatory params %s is missing", e.Field)
}

// FieldSpec declares a single field of a resource payload.
type FieldSpec struct {
	Name       string
	Mandatory  bool
	Default    interface{}
	HasDefault bool
}

// Required declares a mandatory field with no default.
func Required(name string) FieldSpec {
	return FieldSpec{Name: name, Mandatory: true}
}

// RequiredWithDefault declares a mandatory field that falls back to value.
func RequiredWithDefault(name string, value interface{}) FieldSpec {
	return FieldSpec{Name: name, Mandatory: true, Default: value, HasDefault: true}
}

// Optional declares an optional field with no default.
func Optional(name string) FieldSpec {
	return FieldSpec{Name: name}
}

// OptionalWithDefault declares an optional field. Falsy defaults are never
// applied, see Schema.Validate.
func OptionalWithDefault(name string, value interface{}) FieldSpec {
	return FieldSpec{Name: name, Default: value, HasDefault: true}
}

// Definition registers the fields of one resource type and operation.
// An empty Operation is used for resource types that are not keyed by operation.
type Definition struct {
	Resource  string
	Operation string
	Fields    []FieldSpec
}

// Schema is an immutable registry of field specs keyed by resource type and operation.
type Schema struct {
	resources map[string]map[string][]FieldSpec
}

// NewSchema builds a schema from the given definitions. Field order is kept.
func NewSchema(defs ...Definition) *Schema {
	s := &Schema{resources: make(map[string]map[string][]FieldSpec, len(defs))}
	for _, def := range defs {
		ops, ok := s.resources[def.Resource]
		if !ok {
			ops = make(map[string][]FieldSpec)
			s.resources[def.Resource] = ops
		}
		fields := make([]FieldSpec, len(def.Fields))
		copy(fields, def.Fields)
		ops[def.Operation] = fields
	}
	return s
}

// Fields returns a copy of the field specs registered for resource and operation.
func (s *Schema) Fields(resource, operation string) ([]FieldSpec, error) {
	ops, ok := s.resources[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, resource)
	}
	fields, ok := ops[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s[%s]", ErrSchemaNotFound, operation, resource)
	}
	out := make([]FieldSpec, len(fields))
	copy(out, fields)
	return out, nil
}

// Validate resolves supplied against the fields declared for resource and operation.
//
// Mandatory fields take the supplied value, else their declared default, else
// validation fails with *MissingFieldError and no values are returned.
// Optional fields take the supplied value, else a non-falsy default, else they
// are omitted. A falsy default (nil, false, 0, "", empty collection) is
// indistinguishable from no default. Supplied fields that are not declared are dropped.
func (s *Schema) Validate(resource, operation string, supplied Values) (Values, error) {
	ops, ok := s.resources[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, resource)
	}
	fields, ok := ops[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s[%s]", ErrSchemaNotFound, operation, resource)
	}

	resolved := make(Values, len(fields))
	for _, field := range fields {
		value, present := supplied[field.Name]
		switch {
		case present:
			resolved[field.Name] = value
		case field.Mandatory && field.HasDefault:
			resolved[field.Name] = field.Default
		case field.Mandatory:
			return nil, &MissingFieldError{Field: field.Name}
		case field.HasDefault && !isFalsy(field.Default):
			resolved[field.Name] = field.Default
		}
	}
	return resolved, nil
}

func isFalsy(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
