package application

import "errors"

var (
	// ErrUnknownDBType is returned by Config for an unsupported database type.
	ErrUnknownDBType = errors.New("unknown db type")
)
