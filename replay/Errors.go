package replay

import "errors"

// Error implements errors unique to an episodic replay buffer.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error of an Error
func (e *Error) Unwrap() error {
	return e.Err
}

var errInvalidConfig = errors.New("invalid configuration")

var errMissingField = errors.New("missing field")

var errUnknownField = errors.New("unknown field")

var errUnevenBatch = errors.New("fields have unequal batch sizes")

var errWrongShape = errors.New("wrong field shape")

var errWrongType = errors.New("wrong element type")

var errBatchTooLarge = errors.New("batch committed to replay is too large")

var errContractViolation = errors.New("sampling strategy violated its " +
	"output contract")

var errEmptyBuffer = errors.New("buffer empty")

// IsConfigurationError returns whether or not an error reports that a
// buffer or schema was constructed with invalid parameters.
func IsConfigurationError(err error) bool {
	return errors.Is(err, errInvalidConfig)
}

// IsMissingField returns whether or not an error reports that a batch
// did not supply every field declared by the schema.
func IsMissingField(err error) bool {
	return errors.Is(err, errMissingField)
}

// IsUnknownField returns whether or not an error reports that a batch
// supplied a field the schema does not declare.
func IsUnknownField(err error) bool {
	return errors.Is(err, errUnknownField)
}

// IsUnevenBatch returns whether or not an error reports that the fields
// of a batch disagreed on the number of episodes they hold.
func IsUnevenBatch(err error) bool {
	return errors.Is(err, errUnevenBatch)
}

// IsWrongShape returns whether or not an error reports that a field of
// a batch had a shape other than the one its schema declares.
func IsWrongShape(err error) bool {
	return errors.Is(err, errWrongShape)
}

// IsWrongType returns whether or not an error reports that a field of
// a batch holds elements of a type other than float64.
func IsWrongType(err error) bool {
	return errors.Is(err, errWrongType)
}

// IsBatchTooLarge returns whether or not an error reports that a single
// stored batch held more episodes than the buffer can retain at once.
func IsBatchTooLarge(err error) bool {
	return errors.Is(err, errBatchTooLarge)
}

// IsContractViolation returns whether or not an error reports that a
// sampling strategy returned a batch without every required field.
func IsContractViolation(err error) bool {
	return errors.Is(err, errContractViolation)
}

// IsEmptyBuffer returns whether or not an error reports that a replay
// buffer was sampled while holding no episodes.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyBuffer)
}
