package validator

// Validator checks a struct and returns a descriptive error on violation.
type Validator interface {
	Validate(data any) error
}
