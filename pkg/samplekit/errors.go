package samplekit

// ConfigurationError marks invalid caller-supplied configuration, such as a
// partition count below one or a naming convention that matches nothing.
// Configuration errors are fatal and never retried.
type ConfigurationError struct {
	err error
}

// NewConfigurationError wraps err as a ConfigurationError.
func NewConfigurationError(err error) ConfigurationError {
	return ConfigurationError{err: err}
}

func (e ConfigurationError) Error() string {
	return e.err.Error()
}

func (e ConfigurationError) Unwrap() error {
	return e.err
}

// IntegrityError marks an internal inconsistency: duplicate identifiers
// produced by indexing, or files disappearing between indexing and
// duplication. Integrity errors are fatal.
type IntegrityError struct {
	err error
}

// NewIntegrityError wraps err as an IntegrityError.
func NewIntegrityError(err error) IntegrityError {
	return IntegrityError{err: err}
}

func (e IntegrityError) Error() string {
	return e.err.Error()
}

func (e IntegrityError) Unwrap() error {
	return e.err
}

// ValidationError marks undecodable manifests or samples with no
// reproducible files. Validation errors are fatal.
type ValidationError struct {
	err error
}

// NewValidationError wraps err as a ValidationError.
func NewValidationError(err error) ValidationError {
	return ValidationError{err: err}
}

func (e ValidationError) Error() string {
	return e.err.Error()
}

func (e ValidationError) Unwrap() error {
	return e.err
}
