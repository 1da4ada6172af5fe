package domain

import (
	"errors"
	"fmt"
)

// Errors returned by domain operations.
var (
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrIllegalMove      = errors.New("illegal move")
	ErrOccupied         = fmt.Errorf("%w: cell occupied", ErrIllegalMove)
	ErrNoCapture        = fmt.Errorf("%w: no discs to flip", ErrIllegalMove)
	ErrNotActive        = errors.New("history is not at the latest step")
	ErrNoOpenStep       = errors.New("no open step to commit")
	ErrHistoryUnderflow = errors.New("nothing to undo or redo")
	ErrCannotPass       = errors.New("pass not allowed")
	ErrGameOver         = errors.New("game over")
	ErrBadBoard         = errors.New("malformed board")
)
