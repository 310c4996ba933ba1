package scoring

import "errors"

// ErrUnknownPolicy is returned when a refine policy name is not recognised.
var ErrUnknownPolicy = errors.New("unknown refine policy")
