package store

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/achilleasa/aurora/log"
)

type containerReader struct {
	logger log.Logger
}

// Read a scene container from path.
func ReadContainer(path string) (*Container, error) {
	return (&containerReader{logger: log.New("container reader")}).read(path)
}

func (r *containerReader) read(path string) (*Container, error) {
	r.logger.Noticef(`loading scene container from "%s"`, path)
	start := time.Now()

	// zip requires a ReaderAt so the container is buffered in memory
	// first.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var container *Container
	images := make(map[string][]byte)
	for _, f := range zr.File {
		switch {
		case f.Name == sceneDataFile:
			if container, err = decodeSceneData(f); err != nil {
				return nil, err
			}
		case strings.HasPrefix(f.Name, imageEntryPrefix):
			if images[strings.TrimPrefix(f.Name, imageEntryPrefix)], err = readEntry(f); err != nil {
				return nil, err
			}
		default:
			r.logger.Warningf("unknown entry %s in scene container; skipping", f.Name)
		}
	}

	if container == nil {
		return nil, fmt.Errorf("store: container %q has no scene data entry", path)
	}
	if container.FormatVersion != containerFormatVersion {
		return nil, fmt.Errorf("%w %d", ErrUnsupportedVersion, container.FormatVersion)
	}
	container.ImageData = images

	if err = validateContainer(container); err != nil {
		return nil, err
	}

	r.logger.Noticef("loaded container with %d groups and %d animation tracks in %d ms",
		len(container.Groups), len(container.Animations), time.Since(start).Nanoseconds()/1e6)
	return container, nil
}

func decodeSceneData(f *zip.File) (*Container, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	container := &Container{}
	if err = gob.NewDecoder(rc).Decode(container); err != nil {
		return nil, fmt.Errorf("store: failed to decode %s: %s", f.Name, err.Error())
	}
	return container, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Check the referential integrity of a loaded container: group links,
// animation targets and animation layouts.
func validateContainer(container *Container) error {
	groups := make(map[string]bool, len(container.Groups))
	for _, group := range container.Groups {
		groups[group.Name] = true
	}
	for _, group := range container.Groups {
		if group.Parent != "" && !groups[group.Parent] {
			return fmt.Errorf("%w %q referenced by %q", ErrUnknownGroup, group.Parent, group.Name)
		}
	}

	checkGroupRef := func(owner string, name string) error {
		if name != "" && !groups[name] {
			return fmt.Errorf("%w %q referenced by %q", ErrUnknownGroup, name, owner)
		}
		return nil
	}
	for _, shape := range container.Shapes {
		if err := checkGroupRef(string(shape.Key), shape.Group); err != nil {
			return err
		}
	}
	for _, light := range container.Lights {
		if err := checkGroupRef(string(light.Key), light.Group); err != nil {
			return err
		}
	}
	for _, camera := range container.Cameras {
		if err := checkGroupRef(string(camera.Key), camera.Group); err != nil {
			return err
		}
	}

	for _, anim := range container.Animations {
		if err := anim.Validate(); err != nil {
			return err
		}
		if !groups[anim.GroupName] {
			return fmt.Errorf("%w %q referenced by animation track", ErrUnknownGroup, anim.GroupName)
		}
	}

	return nil
}
