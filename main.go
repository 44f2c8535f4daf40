package main

import (
	"os"

	"github.com/achilleasa/aurora/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "aurora"
	app.Usage = "sync scene documents and export binary scene containers"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "export",
			Usage: "sync a scene document and export a binary scene container",
			Description: `
Parse a scene document, sync its entities into a scene store together with
transform groups, baked animation tracks and motion blur data, and package
the result as a compressed container which renderers can consume.`,
			ArgsUsage: "scene_document.json",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "container filename; defaults to the document name with an .arsb extension",
				},
				cli.StringFlag{
					Name:  "images, i",
					Value: "none",
					Usage: "image export mode (none, external, lossless or lossy)",
				},
			},
			Action: cmd.ExportScene,
		},
		{
			Name:      "info",
			Usage:     "display information about a scene container or document",
			ArgsUsage: "scene_container.arsb | scene_document.json",
			Action:    cmd.ShowContainerInfo,
		},
		{
			Name:  "watch",
			Usage: "re-export the scene container whenever the document changes",
			Description: `
Export the scene document once and then keep watching it, re-running the
sync and export steps after every change until interrupted.`,
			ArgsUsage: "scene_document.json",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "container filename; defaults to the document name with an .arsb extension",
				},
				cli.StringFlag{
					Name:  "images, i",
					Value: "none",
					Usage: "image export mode (none, external, lossless or lossy)",
				},
			},
			Action: cmd.WatchScene,
		},
	}

	app.Run(os.Args)
}
