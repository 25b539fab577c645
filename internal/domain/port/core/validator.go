package core

// Validator evaluates the declarative rule set attached to a command struct.
// A failed check returns a domain ValidationError with one entry per field.
type Validator interface {
	Struct(cmd any) error
}
