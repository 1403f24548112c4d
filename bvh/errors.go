package bvh

import "errors"

var (
	ErrMismatchedInput = errors.New("bvh: triangle and bbox lists have different lengths")
	ErrTooManyObjects  = errors.New("bvh: too many objects")
	ErrInvalidOptions  = errors.New("bvh: invalid build options")
	ErrInvalidBBox     = errors.New("bvh: empty or non-finite bbox")
	ErrChunkAllocation = errors.New("bvh: could not allocate result chunk")
	ErrInvalidTree     = errors.New("bvh: tree validation failed")
)
