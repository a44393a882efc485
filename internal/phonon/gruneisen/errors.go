package gruneisen

import "errors"

// ErrMissingData marks a required field (structure, multiplicities) that was
// not supplied at construction but is needed by the requested operation.
// Raised at the point of use, never at construction.
var ErrMissingData = errors.New("missing data")

// ErrInvalidArgument marks a rejected argument value, e.g. an unrecognised
// frequency limit or a selection that leaves no modes to average.
var ErrInvalidArgument = errors.New("invalid argument")
