package orders

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDeadlinePassed = errors.New("list deadline has passed")
	ErrInvalidEditKey = errors.New("invalid edit key")
)
