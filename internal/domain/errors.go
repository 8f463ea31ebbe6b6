package domain

import "errors"

// ErrNotFound is returned by stores when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when a unique field is already taken.
var ErrDuplicate = errors.New("already exists")
