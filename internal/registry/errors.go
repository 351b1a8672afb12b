package registry

import "errors"

var (
	ErrNotFound     = errors.New("registry: not found")
	ErrConflict     = errors.New("registry: already exists")
	ErrInvalidInput = errors.New("registry: invalid input")
)

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func isConflict(err error) bool { return errors.Is(err, ErrConflict) }
