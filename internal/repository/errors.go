package repository

import "errors"

// ErrNotFound indicates the requested row does not exist. Handlers map
// this to a blocking "create the missing prerequisite" message.
var ErrNotFound = errors.New("record not found")
