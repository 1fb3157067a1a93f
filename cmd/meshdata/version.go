package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/meshdata/internal/version"
)

func versionCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			if asJSON {
				return writeJSON(stdout(cmd), info)
			}
			p := printer{w: stdout(cmd)}
			p.printf("version:    %s\n", version.String())
			if info.Commit != "" {
				p.printf("commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				p.printf("build time: %s\n", info.BuildTime)
			}
			p.printf("go:         %s\n", info.GoVersion)
			return nil
		},
	}
}
