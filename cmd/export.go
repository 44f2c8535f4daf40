package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/achilleasa/aurora/engine"
	"github.com/achilleasa/aurora/scene/reader"
	"github.com/achilleasa/aurora/store"
)

// Parse a scene document, sync it and export a binary scene container.
func ExportScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene document argument")
	}
	docFile := ctx.Args().First()

	flags, err := parseImageMode(ctx.String("images"))
	if err != nil {
		return err
	}

	outFile := ctx.String("out")
	if outFile == "" {
		outFile = replaceExt(docFile, ".arsb")
	}

	eng, err := exportScene(docFile, outFile, flags)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", eng.Store().Stats())
	return nil
}

// Sync the document at docFile and write the resulting container to
// outFile. The export engine is returned so callers can inspect the
// synced store.
func exportScene(docFile, outFile string, flags store.ExportFlag) (*engine.ExportEngine, error) {
	start := time.Now()

	logger.Noticef("parsing scene document: %s", docFile)
	sc, err := reader.ReadScene(docFile)
	if err != nil {
		return nil, err
	}

	eng := engine.NewExportEngine()
	if err = eng.Sync(sc); err != nil {
		return nil, err
	}

	if err = eng.ExportToFile(outFile, flags); err != nil {
		return nil, err
	}

	logger.Noticef("exported scene container %s in %d ms", outFile, time.Since(start).Nanoseconds()/1e6)
	return eng, nil
}

// Map an image export mode argument to the matching container flags.
func parseImageMode(mode string) (store.ExportFlag, error) {
	switch mode {
	case "", "none":
		return 0, nil
	case "external":
		return store.ExportImagesExternal, nil
	case "lossless":
		return store.ExportImagesLossless, nil
	case "lossy":
		return store.ExportImagesLossy, nil
	}
	return 0, fmt.Errorf("unsupported image export mode %q", mode)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
