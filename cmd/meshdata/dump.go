package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

type attributeDump struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Offset int    `json:"offset"`
	Stride int    `json:"stride"`
}

type summaryDump struct {
	Primitive   string          `json:"primitive"`
	VertexCount int             `json:"vertex_count"`
	Indexed     bool            `json:"indexed"`
	IndexType   string          `json:"index_type,omitempty"`
	IndexCount  int             `json:"index_count,omitempty"`
	Attributes  []attributeDump `json:"attributes"`
}

type indicesDump struct {
	Type string   `json:"type"`
	Data []uint32 `json:"data"`
}

type valuesDump struct {
	Attribute string      `json:"attribute"`
	N         int         `json:"n"`
	Format    string      `json:"format"`
	Data      [][]float32 `json:"data"`
}

func dumpCmd() *cli.Command {
	var (
		showLayout bool
		attribute  string
		n          int
		dims       int
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Write a mesh, its layout or one attribute as JSON",
		ArgsUsage: "<layout.yaml|layout.json>",
		Flags: append(importFlags(),
			&cli.BoolFlag{Name: "layout", Usage: "dump the layout document", Destination: &showLayout},
			&cli.StringFlag{
				Name:        "attribute",
				Aliases:     []string{"a"},
				Usage:       "attribute to decode (position, normal, texcoord, color, indices)",
				Destination: &attribute,
			},
			&cli.IntFlag{Name: "n", Usage: "which attribute of that name", Destination: &n},
			&cli.IntFlag{Name: "dims", Usage: "position dimensions (2 or 3)", Value: 3, Destination: &dims},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := layoutArg(c)
			if err != nil {
				return err
			}
			applyImportConfig(c, configFromContext(ctx))
			out := stdout(c)

			m, err := importer.Open(ctx, path, importer.Options{NoMmap: noMmap, Writable: writable})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
			}
			defer func() { _ = m.Close() }()

			if showLayout {
				state := m.ImporterState().(*importer.State)
				if err := layout.Encode(out, state.Layout, layout.JSON); err != nil {
					return cli.Exit(fmt.Sprintf("error: encode layout: %v", err), 1)
				}
				if attribute == "" {
					return nil
				}
			}

			var v any
			switch {
			case attribute == "":
				v = summarize(m)
			case strings.EqualFold(attribute, "indices"):
				v, err = dumpIndices(m)
			default:
				v, err = dumpAttribute(m, attribute, n, dims)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return writeJSON(out, v)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func summarize(m *mesh.Data) summaryDump {
	s := summaryDump{
		Primitive:   m.Primitive().String(),
		VertexCount: m.VertexCount(),
		Indexed:     m.IsIndexed(),
		Attributes:  make([]attributeDump, 0, m.AttributeCount()),
	}
	if typ, err := m.IndexType(); err == nil {
		s.IndexType = typ.String()
		s.IndexCount, _ = m.IndexCount()
	}
	for id := range m.AttributeCount() {
		name, _ := m.AttributeName(id)
		format, _ := m.AttributeFormat(id)
		offset, _ := m.AttributeOffset(id)
		stride, _ := m.AttributeStride(id)
		s.Attributes = append(s.Attributes, attributeDump{
			Name:   name.String(),
			Format: format.String(),
			Offset: offset,
			Stride: stride,
		})
	}
	return s
}

func dumpIndices(m *mesh.Data) (indicesDump, error) {
	typ, err := m.IndexType()
	if err != nil {
		return indicesDump{}, err
	}
	data, err := m.IndicesAsArray()
	if err != nil {
		return indicesDump{}, err
	}
	return indicesDump{Type: typ.String(), Data: data}, nil
}

func dumpAttribute(m *mesh.Data, attribute string, n, dims int) (valuesDump, error) {
	name, err := mesh.ParseAttribute(attribute)
	if err != nil {
		return valuesDump{}, err
	}
	format, err := m.NamedAttributeFormat(name, n)
	if err != nil {
		return valuesDump{}, err
	}
	d := valuesDump{Attribute: name.String(), N: n, Format: format.String()}

	switch name {
	case mesh.AttributePosition:
		switch dims {
		case 2:
			v, err := m.Positions2DAsArray(n)
			d.Data = floatRows(v, func(x *mesh.Vector2) []float32 { return x[:] })
			return d, err
		case 3:
			v, err := m.Positions3DAsArray(n)
			d.Data = floatRows(v, func(x *mesh.Vector3) []float32 { return x[:] })
			return d, err
		}
		return d, fmt.Errorf("--dims must be 2 or 3, got %d", dims)
	case mesh.AttributeNormal:
		v, err := m.NormalsAsArray(n)
		d.Data = floatRows(v, func(x *mesh.Vector3) []float32 { return x[:] })
		return d, err
	case mesh.AttributeTextureCoordinates:
		v, err := m.TextureCoordinates2DAsArray(n)
		d.Data = floatRows(v, func(x *mesh.Vector2) []float32 { return x[:] })
		return d, err
	case mesh.AttributeColor:
		v, err := m.ColorsAsArray(n)
		d.Data = floatRows(v, func(x *mesh.Color4) []float32 { return x[:] })
		return d, err
	}
	return d, fmt.Errorf("%w: %v has no float conversion", mesh.ErrInvalidAttribute, name)
}

func floatRows[V any](vs []V, row func(*V) []float32) [][]float32 {
	out := make([][]float32, len(vs))
	for i := range vs {
		out[i] = row(&vs[i])
	}
	return out
}
