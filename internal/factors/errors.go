package factors

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for factor tables. Compare with errors.Is.
var (
	// ErrInvalidCoefficient indicates a coefficient that is negative, NaN, Inf,
	// or outside its allowed range.
	ErrInvalidCoefficient = constError("invalid coefficient")

	// ErrUnsupportedSchema indicates an override file whose schema_version
	// does not satisfy SupportedSchema.
	ErrUnsupportedSchema = constError("unsupported factor table schema")
)
