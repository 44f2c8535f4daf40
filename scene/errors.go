package scene

import "errors"

var (
	// The document references two entities with the same name.
	ErrDuplicateEntity = errors.New("scene: duplicate entity name")

	// An entity references a parent that is not part of the document.
	ErrUnknownParent = errors.New("scene: unknown parent entity")

	// The entity parent chain loops back on itself.
	ErrParentCycle = errors.New("scene: cycle in entity parent chain")

	// The active camera reference does not resolve to a camera entity.
	ErrInvalidCamera = errors.New("scene: active camera is not a camera entity")
)
