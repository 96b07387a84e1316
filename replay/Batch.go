package replay

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Batch maps field names to batched trajectory data. A Batch is used
// both as the input unit of Store, where each tensor has shape
// [batchSize, T or T+1, field dims...], and as the output of Sample,
// where each tensor holds one time step per row.
type Batch map[string]*tensor.Dense

// validate checks a batch of episodes against a schema and returns the
// batch size shared by all fields. Every declared field must be
// present, no undeclared field may appear, all fields must agree on the
// number of episodes they hold, and each field must match the shape the
// schema declares for it. Validation makes no writes, so a failed batch
// leaves any buffer untouched.
func (b Batch) validate(s *Schema) (int, error) {
	for name := range b {
		if !s.contains(name) {
			return 0, fmt.Errorf("%w: %q", errUnknownField, name)
		}
	}

	batchSize := -1
	for _, field := range s.fields {
		data, ok := b[field.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", errMissingField, field.Name)
		}

		if data.Dtype() != tensor.Float64 {
			return 0, fmt.Errorf("%w: field %q \n\twant(%v)\n\thave(%v)",
				errWrongType, field.Name, tensor.Float64, data.Dtype())
		}

		shape := data.Shape()
		if len(shape) < 1 {
			return 0, fmt.Errorf("%w: field %q has no batch axis",
				errWrongShape, field.Name)
		}
		if batchSize < 0 {
			batchSize = shape[0]
		} else if shape[0] != batchSize {
			return 0, fmt.Errorf("%w: field %q \n\twant(%v)\n\thave(%v)",
				errUnevenBatch, field.Name, batchSize, shape[0])
		}

		want := append([]int{batchSize, field.steps(s.horizon)}, field.Shape...)
		if !shapesEqual(want, shape) {
			return 0, fmt.Errorf("%w: field %q \n\twant(%v)\n\thave(%v)",
				errWrongShape, field.Name, tensor.Shape(want), shape)
		}
	}

	return batchSize, nil
}

// shapesEqual returns whether two tensor shapes are identical
func shapesEqual(want []int, have tensor.Shape) bool {
	if len(want) != len(have) {
		return false
	}
	for i := range want {
		if want[i] != have[i] {
			return false
		}
	}
	return true
}
