package dbbadger

import "errors"

var (
	// ErrNilRecord is returned if an update function returns no record.
	ErrNilRecord = errors.New("update function returned a nil record")
)
