package replay

import (
	"fmt"

	"github.com/samuelfneumann/goreplay/utils/intutils"
)

// Field declares a single named quantity recorded at every time step of
// an episode, for example an observation, goal, or action.
//
// Shape holds the dimensions of the field beyond the episode and time
// axes; a scalar field has an empty Shape. Fields with NextStep set are
// stored with one extra trailing time step so that "next state" lookups
// can be made at the final transition of an episode.
type Field struct {
	Name     string
	Shape    []int
	NextStep bool
}

// steps returns the episode-axis length of the field for episodes of
// the given horizon
func (f Field) steps(horizon int) int {
	if f.NextStep {
		return horizon + 1
	}
	return horizon
}

// rowLen returns the number of elements one episode of the field
// occupies
func (f Field) rowLen(horizon int) int {
	return f.steps(horizon) * intutils.Prod(f.Shape...)
}

// Schema is the fixed set of fields an episodic replay buffer stores,
// together with the episode horizon. A Schema is validated once at
// construction; every batch stored in a buffer is validated against it.
type Schema struct {
	horizon int
	fields  []Field
	index   map[string]int
}

// NewSchema creates and returns a new Schema for episodes of horizon
// time steps with the given fields. The field set must be non-empty,
// field names must be non-empty and unique, and every field dimension
// must be positive.
func NewSchema(horizon int, fields ...Field) (*Schema, error) {
	if horizon < 1 {
		return nil, &Error{
			Op:  "newSchema",
			Err: fmt.Errorf("%w: horizon must be positive, got %v", errInvalidConfig, horizon),
		}
	}
	if len(fields) == 0 {
		return nil, &Error{
			Op:  "newSchema",
			Err: fmt.Errorf("%w: schema declares no fields", errInvalidConfig),
		}
	}

	index := make(map[string]int, len(fields))
	for i, field := range fields {
		if field.Name == "" {
			return nil, &Error{
				Op:  "newSchema",
				Err: fmt.Errorf("%w: field %v has an empty name", errInvalidConfig, i),
			}
		}
		if _, ok := index[field.Name]; ok {
			return nil, &Error{
				Op:  "newSchema",
				Err: fmt.Errorf("%w: duplicate field %q", errInvalidConfig, field.Name),
			}
		}
		for _, dim := range field.Shape {
			if dim < 1 {
				return nil, &Error{
					Op: "newSchema",
					Err: fmt.Errorf("%w: field %q has non-positive dimension %v",
						errInvalidConfig, field.Name, dim),
				}
			}
		}
		index[field.Name] = i
	}

	schema := make([]Field, len(fields))
	copy(schema, fields)

	return &Schema{horizon: horizon, fields: schema, index: index}, nil
}

// Horizon returns the number of transitions in one episode
func (s *Schema) Horizon() int {
	return s.horizon
}

// Fields returns the declared fields in declaration order
func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

// contains returns whether name is a declared field of the schema
func (s *Schema) contains(name string) bool {
	_, ok := s.index[name]
	return ok
}
