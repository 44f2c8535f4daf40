package engine

import "errors"

// ErrFilterNotEnabled is returned when filter inputs are updated on an
// empty filter slot.
var ErrFilterNotEnabled = errors.New("engine: filter is not enabled")
