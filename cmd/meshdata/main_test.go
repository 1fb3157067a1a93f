package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// run executes the app with args and returns what it wrote to stdout and
// stderr. Exit errors are returned instead of terminating the test binary.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdoutBuf, stderrBuf bytes.Buffer
	app := newApp()
	app.Writer = &stdoutBuf
	app.ErrWriter = &stderrBuf
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := app.Run(context.Background(), append([]string{"meshdata"}, args...))
	return stdoutBuf.String(), stderrBuf.String(), err
}

func generate(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := run(t, append([]string{"--log-level", "error", "generate"}, args...)...)
	if err != nil {
		t.Fatalf("generate: %v (stderr=%s)", err, stderr)
	}
	return strings.TrimSpace(out)
}

func TestGenerateInspectDump(t *testing.T) {
	dir := t.TempDir()
	path := generate(t, "--shape", "cube", "--out", dir, "--color-format", "Vector3ubNormalized")
	if path != filepath.Join(dir, "cube.yaml") {
		t.Fatalf("layout path: got %q", path)
	}
	for _, f := range []string{"cube.vertices", "cube.indices"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
	}

	out, _, err := run(t, "inspect", "--layout", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Triangles", "36 x UnsignedShort", "Vector3ubNormalized", "vertex_file: cube.vertices"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}

	out, _, err = run(t, "dump", "--attribute", "color", path)
	if err != nil {
		t.Fatalf("dump color: %v", err)
	}
	var colors valuesDump
	if err := json.Unmarshal([]byte(out), &colors); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if colors.Format != "Vector3ubNormalized" || len(colors.Data) != 24 {
		t.Fatalf("colors: %+v", colors)
	}
	// Three-component colors get an opaque alpha.
	if got := colors.Data[0]; len(got) != 4 || got[0] != 1 || got[3] != 1 {
		t.Fatalf("first color: got %v", got)
	}

	out, _, err = run(t, "dump", "--no-mmap", "-a", "indices", path)
	if err != nil {
		t.Fatalf("dump indices: %v", err)
	}
	var indices indicesDump
	if err := json.Unmarshal([]byte(out), &indices); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if indices.Type != "UnsignedShort" || len(indices.Data) != 36 || indices.Data[2] != 2 {
		t.Fatalf("indices: %+v", indices)
	}

	out, _, err = run(t, "dump", path)
	if err != nil {
		t.Fatalf("dump summary: %v", err)
	}
	var summary summaryDump
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if summary.VertexCount != 24 || len(summary.Attributes) != 3 || summary.Attributes[1].Offset != 12 {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestDumpPositions2D(t *testing.T) {
	dir := t.TempDir()
	path := generate(t, "--shape", "triangle", "--out", dir, "--format", "json",
		"--position-format", "Vector2h", "--normal-format", "none", "--color-format", "none")

	out, _, err := run(t, "dump", "--attribute", "position", "--dims", "2", path)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	var pos valuesDump
	if err := json.Unmarshal([]byte(out), &pos); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if pos.Format != "Vector2h" || len(pos.Data) != 3 || pos.Data[2][1] != 0.5 {
		t.Fatalf("positions: %+v", pos)
	}

	if _, _, err := run(t, "dump", "--attribute", "normal", path); err == nil {
		t.Fatalf("dumping a missing normal should fail")
	}
	if _, _, err := run(t, "dump", "--attribute", "indices", path); err == nil {
		t.Fatalf("dumping indices of a non-indexed mesh should fail")
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "log_level: debug\nlog_format: json\nlayout_format: json\nmmap: false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, stderr, err := run(t, "--config", cfgPath, "generate", "--out", dir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(dir, "cube.json") {
		t.Fatalf("layout format from config: got %q", got)
	}
	if !strings.Contains(stderr, `"msg":"exported mesh"`) {
		t.Fatalf("expected JSON logs, got %q", stderr)
	}

	// An explicit flag wins over the file.
	out, _, err = run(t, "--config", cfgPath, "--log-level", "error", "generate", "--out", dir, "--format", "yaml")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(dir, "cube.yaml") {
		t.Fatalf("flag should override config: got %q", got)
	}

	out, _, err = run(t, "--config", cfgPath, "--log-level", "error", "inspect", filepath.Join(dir, "cube.yaml"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "Mapped:                  false") {
		t.Fatalf("mmap: false should read files:\n%s", out)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil || cfg != (Config{}) {
		t.Fatalf("missing default config: got %+v, %v", cfg, err)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("missing explicit config should fail")
	}

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "meshdata", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("server_address: 0.0.0.0:9000\nmmap: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerAddress != "0.0.0.0:9000" || cfg.Mmap == nil || !*cfg.Mmap {
		t.Fatalf("config: %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("mmap: [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("malformed config should fail")
	}
}

func TestInspectRejects(t *testing.T) {
	if _, _, err := run(t, "inspect"); err == nil {
		t.Fatalf("inspect without a layout should fail")
	}
	if _, _, err := run(t, "inspect", t.TempDir()); err == nil {
		t.Fatalf("inspect of a directory should fail")
	}
	if _, _, err := run(t, "generate", "--shape", "teapot", "--out", t.TempDir()); err == nil {
		t.Fatalf("unknown shape should fail")
	}
}
