package records

import "errors"

var (
	// ErrInvalidField is returned when a field does not belong to the bound record type.
	ErrInvalidField = errors.New("invalid field")

	// ErrAllFieldsAreKeys is returned by InsertOrUpdate when every field of the
	// record type is generated by the database, leaving nothing to rewrite on conflict.
	ErrAllFieldsAreKeys = errors.New("all fields are generated keys")

	// ErrMissingSelector is returned when an update or delete names neither a key nor filters.
	ErrMissingSelector = errors.New("either a primary key or filters must be given")

	// ErrCompositeKey is returned when a single key value is used against a
	// record type whose primary key spans several fields.
	ErrCompositeKey = errors.New("record type has a composite primary key")

	// ErrNoValues is returned when an insert or update carries no values.
	ErrNoValues = errors.New("no values given")
)
