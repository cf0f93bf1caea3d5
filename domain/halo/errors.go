package halo

import "errors"

var (
	ErrUnknownCatalog = errors.New("unknown catalog")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrRowLength      = errors.New("row length does not match table columns")
)
