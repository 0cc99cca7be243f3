package wordembed

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is the cause of errors produced by
	// out-of-domain arguments, such as a non-positive window.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfRange is the cause of errors produced by
	// indexing outside of a token sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
)
