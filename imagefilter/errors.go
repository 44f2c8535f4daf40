package imagefilter

import "errors"

var (
	// ErrUnknownType indicates a spec naming a filter type the
	// pipeline cannot build.
	ErrUnknownType = errors.New("imagefilter: unknown filter type")

	// ErrUnknownInput indicates a binding for an input the filter
	// type does not declare.
	ErrUnknownInput = errors.New("imagefilter: unknown input")

	// ErrMissingInput indicates a Run call before every declared
	// input was bound.
	ErrMissingInput = errors.New("imagefilter: missing input")
)
