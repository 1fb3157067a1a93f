package main

import "github.com/urfave/cli/v3"

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	noMmap   bool
	writable bool
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default $XDG_CONFIG_HOME/meshdata/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-mmap",
			Usage:       "read data files into memory instead of mapping them",
			Destination: &noMmap,
		},
		&cli.BoolFlag{
			Name:        "writable",
			Usage:       "map data files copy-on-write so the mesh is mutable",
			Destination: &writable,
		},
	}
}
