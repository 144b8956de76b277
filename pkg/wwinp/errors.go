package wwinp

import "errors"

var (
	ErrNoWindows        = errors.New("wwinp: no weight windows to write")
	ErrGeometryMismatch = errors.New("wwinp: weight windows do not share a mesh geometry")
	ErrDuplicate        = errors.New("wwinp: duplicate particle type")
	ErrInvalid          = errors.New("wwinp: invalid weight window")
)
