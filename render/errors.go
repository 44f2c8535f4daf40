package render

import "errors"

var (
	// Two scene objects resolved to the same scene key.
	ErrDuplicateSceneKey = errors.New("render: duplicate scene key")

	// An image was requested for an AOV that was never enabled.
	ErrAOVNotEnabled = errors.New("render: aov not enabled")

	// The context has been released and cannot sync objects anymore.
	ErrContextReleased = errors.New("render: context already released")
)
