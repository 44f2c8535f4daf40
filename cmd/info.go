package cmd

import (
	"errors"
	"strings"

	"github.com/urfave/cli"

	"github.com/achilleasa/aurora/engine"
	"github.com/achilleasa/aurora/scene/reader"
	"github.com/achilleasa/aurora/store"
)

// Display information about an exported scene container or a scene
// document.
func ShowContainerInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene container or document argument")
	}
	inFile := ctx.Args().First()

	var container *store.Container
	switch {
	case strings.HasSuffix(inFile, ".arsb"):
		read, err := store.ReadContainer(inFile)
		if err != nil {
			return err
		}
		container = read
	case strings.HasSuffix(inFile, ".json"):
		// Documents are synced into a throwaway store so the stats
		// reflect what an export would produce.
		sc, err := reader.ReadScene(inFile)
		if err != nil {
			return err
		}

		eng := engine.NewExportEngine()
		if err = eng.Sync(sc); err != nil {
			return err
		}
		container = eng.Store().Snapshot()
	default:
		return errors.New("only .arsb containers and .json documents are supported")
	}

	logger.Noticef("scene information:\n%s", container.Stats())
	return nil
}
