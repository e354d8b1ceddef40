package validator

// Validator validates request and domain structs.
//
// Implementations return an error describing every failing field, or nil
// when the value is acceptable.
type Validator interface {
	Validate(data any) error
}
