package domain

import "errors"

// ErrValidation wraps every construction-validation failure so callers
// can distinguish bad input from lookup failures with errors.Is.
var ErrValidation = errors.New("validation failed")
