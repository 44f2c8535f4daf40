package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/aurora/scene"
)

// The Reader interface is implemented by all scene document readers.
type Reader interface {
	// Read a scene document from a resource.
	Read(*Resource) (*scene.Scene, error)
}

// Read a scene document from a local file or remote URL.
func ReadScene(filename string) (*scene.Scene, error) {
	res, err := NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	// Select reader based on file extension
	var reader Reader
	if strings.HasSuffix(filename, ".json") {
		reader = newDocumentReader()
	} else {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}
	return reader.Read(res)
}
