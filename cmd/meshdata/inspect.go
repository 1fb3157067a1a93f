package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/layout"
	"github.com/samcharles93/meshdata/pkg/mesh"
)

func inspectCmd() *cli.Command {
	var showLayout bool

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the topology, counts and attribute table of a mesh layout",
		ArgsUsage: "<layout.yaml|layout.json>",
		Flags: append(importFlags(),
			&cli.BoolFlag{Name: "layout", Usage: "also print the layout document", Destination: &showLayout},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := layoutArg(c)
			if err != nil {
				return err
			}
			applyImportConfig(c, configFromContext(ctx))

			m, err := importer.Open(ctx, path, importer.Options{NoMmap: noMmap, Writable: writable})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
			}
			defer func() { _ = m.Close() }()

			p := printer{w: stdout(c)}
			p.printf("Mesh Inspect: %s\n", path)
			printSummary(p, m)
			printAttributes(p, m)

			if showLayout {
				state, _ := m.ImporterState().(*importer.State)
				if state == nil {
					return nil
				}
				enc, err := layout.EncodingForPath(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				p.section("Layout (" + filepath.Base(path) + ")")
				if err := layout.Encode(p.w, state.Layout, enc); err != nil {
					return cli.Exit(fmt.Sprintf("error: encode layout: %v", err), 1)
				}
			}
			return nil
		},
	}
}

// layoutArg returns the single positional layout path.
func layoutArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", cli.Exit(fmt.Sprintf("error: %s expects exactly one layout file", c.Name), 1)
	}
	path := c.Args().First()
	stat, err := os.Stat(path)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("error: stat layout %q: %v", path, err), 1)
	}
	if stat.IsDir() {
		return "", cli.Exit(fmt.Sprintf("error: %s is a directory", path), 1)
	}
	return path, nil
}

type printer struct {
	w io.Writer
}

func (p printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

func (p printer) section(title string) {
	line := strings.Repeat("-", len(title)+8)
	p.printf("\n%s\n--- %s ---\n%s\n", line, titleStyle.Render(title), line)
}

func (p printer) row(label, value string) {
	if value == "" {
		return
	}
	p.printf("%-24s %s\n", label+":", value)
}

func printSummary(p printer, m *mesh.Data) {
	p.section("Summary")
	p.row("Primitive", m.Primitive().String())
	p.row("Vertices", fmt.Sprintf("%d", m.VertexCount()))
	p.row("Vertex data", fmt.Sprintf("%s (%s)", formatBytes(uint64(len(m.VertexData()))), m.VertexDataFlags()))
	if state, ok := m.ImporterState().(*importer.State); ok {
		p.row("Mapped", fmt.Sprintf("%t", state.Mapped))
	}
	if !m.IsIndexed() {
		p.row("Indexed", "false")
		return
	}
	count, _ := m.IndexCount()
	typ, _ := m.IndexType()
	offset, _ := m.IndexOffset()
	p.row("Indices", fmt.Sprintf("%d x %s at offset %d", count, typ, offset))
	p.row("Index data", fmt.Sprintf("%s (%s)", formatBytes(uint64(len(m.IndexData()))), m.IndexDataFlags()))
}

func printAttributes(p printer, m *mesh.Data) {
	p.section("Attributes")
	if m.AttributeCount() == 0 {
		p.printf("(no attributes)\n")
		return
	}
	p.printf("%s\n", headerStyle.Render(fmt.Sprintf("%-3s %-20s %-22s %8s %8s", "ID", "NAME", "FORMAT", "OFFSET", "STRIDE")))
	for id := range m.AttributeCount() {
		name, _ := m.AttributeName(id)
		format, _ := m.AttributeFormat(id)
		offset, _ := m.AttributeOffset(id)
		stride, _ := m.AttributeStride(id)
		p.printf("%-3d %-20s %-22s %8d %8d\n", id, name, format, offset, stride)
	}
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
