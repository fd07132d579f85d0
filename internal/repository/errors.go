package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
var ErrNotFound = errors.New("record not found")

// ErrCorruptValue is returned when a stored document is not valid JSON for its target.
var ErrCorruptValue = errors.New("corrupt stored value")
