package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/internal/primitives"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

func generateCmd() *cli.Command {
	var (
		shape          string
		positionFormat string
		normalFormat   string
		colorFormat    string
		indexType      string
		outDir         string
		name           string
		format         string
	)

	return &cli.Command{
		Name:  "generate",
		Usage: "Write a built-in shape as a layout plus raw data files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "shape", Usage: "shape to generate (triangle, cube)", Value: "cube", Destination: &shape},
			&cli.StringFlag{Name: "position-format", Usage: "position vertex format", Value: "Vector3", Destination: &positionFormat},
			&cli.StringFlag{Name: "normal-format", Usage: "normal vertex format (none to omit)", Value: "Vector3", Destination: &normalFormat},
			&cli.StringFlag{Name: "color-format", Usage: "color vertex format (none to omit)", Value: "Vector4ubNormalized", Destination: &colorFormat},
			&cli.StringFlag{Name: "index-type", Usage: "index type for indexed shapes", Value: "UnsignedShort", Destination: &indexType},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: ".", Destination: &outDir},
			&cli.StringFlag{Name: "name", Usage: "base name of the written files (default: the shape)", Destination: &name},
			&cli.StringFlag{Name: "format", Usage: "layout encoding (yaml, json)", Value: "yaml", Destination: &format},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyGenerateConfig(c, configFromContext(ctx), &format)

			s, err := primitives.ParseShape(shape)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			enc, err := layout.ParseEncoding(format)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			opts, err := generateOptions(positionFormat, normalFormat, colorFormat, indexType)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if name == "" {
				name = string(s)
			}

			m, err := primitives.Generate(s, opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: generate %s: %v", s, err), 1)
			}
			defer func() { _ = m.Close() }()

			path, err := importer.Export(ctx, m, outDir, name, enc)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: export: %v", err), 1)
			}
			_, _ = fmt.Fprintln(stdout(c), path)
			return nil
		},
	}
}

func generateOptions(position, normal, color, index string) (primitives.Options, error) {
	var opts primitives.Options
	var err error
	if opts.PositionFormat, err = optionalFormat(position); err != nil {
		return opts, err
	}
	if opts.NormalFormat, err = optionalFormat(normal); err != nil {
		return opts, err
	}
	if opts.ColorFormat, err = optionalFormat(color); err != nil {
		return opts, err
	}
	if opts.IndexType, err = mesh.ParseIndexType(index); err != nil {
		return opts, err
	}
	return opts, nil
}

// optionalFormat parses s, with "" and "none" meaning no attribute.
func optionalFormat(s string) (mesh.VertexFormat, error) {
	switch s {
	case "", "none":
		return 0, nil
	}
	return mesh.ParseVertexFormat(s)
}
