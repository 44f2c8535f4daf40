package cmd

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli"
)

// Delay between the last observed document write and the re-export.
// Editors tend to emit several events for a single save.
const watchSettleDelay = 250 * time.Millisecond

// Watch a scene document and re-export the scene container every time
// the document changes.
func WatchScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene document argument")
	}
	docFile, err := filepath.Abs(ctx.Args().First())
	if err != nil {
		return err
	}

	flags, err := parseImageMode(ctx.String("images"))
	if err != nil {
		return err
	}

	outFile := ctx.String("out")
	if outFile == "" {
		outFile = replaceExt(docFile, ".arsb")
	}

	if _, err = exportScene(docFile, outFile, flags); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent folder; editors that save via rename would
	// otherwise drop a watch attached to the document itself.
	if err = watcher.Add(filepath.Dir(docFile)); err != nil {
		return err
	}
	logger.Noticef("watching %s; press ctrl-c to stop", docFile)

	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != docFile {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Rename == fsnotify.Rename {
				settle = time.After(watchSettleDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)

		case <-settle:
			settle = nil
			if _, err := exportScene(docFile, outFile, flags); err != nil {
				logger.Errorf("re-export failed: %v", err)
			}
		}
	}
}
