package store

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register decoders for the lossy image recompression path.
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/achilleasa/aurora/log"
)

// Quality used when recompressing embedded images lossily.
const lossyJpegQuality = 80

type containerWriter struct {
	logger log.Logger

	st    *SceneStore
	path  string
	flags ExportFlag
}

// Create a container writer for a scene store.
func newContainerWriter(st *SceneStore, path string, flags ExportFlag) *containerWriter {
	return &containerWriter{
		logger: log.New("container writer"),
		st:     st,
		path:   path,
		flags:  flags,
	}
}

// Write the container file.
func (w *containerWriter) Write() error {
	w.logger.Noticef(`exporting scene container to "%s"`, w.path)
	start := time.Now()

	if err := w.st.validateGroups(); err != nil {
		return err
	}

	container := w.st.Snapshot()
	images, err := w.collectImages(container)
	if err != nil {
		return err
	}
	container.Images = imageRecords(images)

	outFile, err := os.Create(w.path)
	if err != nil {
		return err
	}
	defer outFile.Close()

	zw := zip.NewWriter(outFile)
	defer zw.Close()

	entry, err := zw.Create(sceneDataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(entry).Encode(container); err != nil {
		return fmt.Errorf("store: could not encode scene data: %s", err.Error())
	}

	for _, img := range images {
		if img.rec.External {
			if err = w.writeExternalImage(img); err != nil {
				return err
			}
			continue
		}

		entry, err = zw.Create(imageEntryPrefix + img.rec.Name)
		if err != nil {
			return err
		}
		if _, err = entry.Write(img.data); err != nil {
			return err
		}
	}

	w.logger.Noticef("exported %d objects, %d groups, %d animation tracks and %d images in %d ms",
		len(container.Shapes)+len(container.Lights)+len(container.Cameras),
		len(container.Groups), len(container.Animations), len(container.Images),
		time.Since(start).Nanoseconds()/1e6)
	return nil
}

type stagedImage struct {
	rec  ImageRecord
	data []byte
}

// Gather the image files referenced by shape materials and stage them
// according to the export flags.
func (w *containerWriter) collectImages(container *Container) ([]*stagedImage, error) {
	if w.flags&(ExportImagesExternal|ExportImagesLossless|ExportImagesLossy) == 0 {
		return nil, nil
	}

	var staged []*stagedImage
	seen := make(map[string]bool)
	usedNames := make(map[string]bool)

	for _, shape := range container.Shapes {
		if shape.Material == nil || shape.Material.Texture == "" || seen[shape.Material.Texture] {
			continue
		}
		seen[shape.Material.Texture] = true

		img, err := w.stageImage(shape.Material.Texture, usedNames)
		if err != nil {
			return nil, err
		}
		staged = append(staged, img)
	}
	return staged, nil
}

func (w *containerWriter) stageImage(path string, usedNames map[string]bool) (*stagedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: could not read image %q: %s", path, err.Error())
	}

	img := &stagedImage{
		rec: ImageRecord{
			SourcePath: path,
			External:   w.flags&ExportImagesExternal != 0,
		},
		data: data,
	}

	if !img.rec.External && w.flags&ExportImagesLossy != 0 {
		if lossy, err := recompressLossy(data); err == nil {
			img.data = lossy
			img.rec.Lossy = true
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
		} else {
			w.logger.Warningf("keeping %q verbatim; lossy recompression failed: %s", path, err.Error())
		}
	}

	img.rec.Name = uniqueImageName(filepath.Base(path), usedNames)
	img.rec.Size = int64(len(img.data))
	return img, nil
}

// Re-encode an image with a lossy codec.
func recompressLossy(data []byte) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: lossyJpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Copy an external image next to the container into a sibling image
// directory.
func (w *containerWriter) writeExternalImage(img *stagedImage) error {
	dir := strings.TrimSuffix(w.path, filepath.Ext(w.path)) + "_images"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	outFile, err := os.Create(filepath.Join(dir, img.rec.Name))
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, bytes.NewReader(img.data))
	return err
}

func uniqueImageName(base string, usedNames map[string]bool) string {
	name := base
	for suffix := 1; usedNames[name]; suffix++ {
		ext := filepath.Ext(base)
		name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), suffix, ext)
	}
	usedNames[name] = true
	return name
}

func imageRecords(staged []*stagedImage) []ImageRecord {
	out := make([]ImageRecord, 0, len(staged))
	for _, img := range staged {
		out = append(out, img.rec)
	}
	return out
}
