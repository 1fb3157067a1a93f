package mesh

import "errors"

// Contract violations. Every error returned by this package wraps one of
// these; the operation that returned it has not modified anything.
var (
	ErrInvalidPrimitive    = errors.New("mesh: invalid primitive")
	ErrInvalidIndexType    = errors.New("mesh: invalid index type")
	ErrInvalidAttribute    = errors.New("mesh: invalid attribute")
	ErrInvalidFormat       = errors.New("mesh: invalid vertex format")
	ErrIncompatibleFormat  = errors.New("mesh: vertex format not allowed for attribute")
	ErrInvalidStride       = errors.New("mesh: invalid stride")
	ErrInvalidCount        = errors.New("mesh: negative count or offset")
	ErrSizeMismatch        = errors.New("mesh: size mismatch")
	ErrNotContiguous       = errors.New("mesh: view is not contiguous")
	ErrNoVertexCount       = errors.New("mesh: vertex count cannot be established")
	ErrVertexCountMismatch = errors.New("mesh: attribute vertex count mismatch")
	ErrOutOfBounds         = errors.New("mesh: view not contained in data")
	ErrBorrowedOwned       = errors.New("mesh: borrowed data can't be flagged as owned")
	ErrOutOfRange          = errors.New("mesh: index out of range")
	ErrNotMutable          = errors.New("mesh: data not mutable")
	ErrNotIndexed          = errors.New("mesh: mesh is not indexed")
)
