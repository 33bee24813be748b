package domain

import "errors"

// ErrJobNotFound is returned by job stores when an id resolves to nothing.
var ErrJobNotFound = errors.New("job not found")
