package cli

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/texatlas/pkg/describe"
	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pipeline"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestResolveBuildOptionsFlagsOnly(t *testing.T) {
	b := buildOpts{
		inputs:    []string{"sprites"},
		atlasName: "game",
		sheetSize: 2048,
		maxBins:   32,
		format:    "json",
		encoder:   "toktx",
		outputDir: ".",
	}
	opts, err := resolveBuildOptions(b, changedSet("input", "atlas-name"))
	if err != nil {
		t.Fatalf("resolveBuildOptions: %v", err)
	}
	if opts.AtlasName != "game" || opts.SheetSize != 2048 || opts.Format != "json" || len(opts.Inputs) != 1 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestResolveBuildOptionsConfigMerge(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "atlas.toml")
	content := `inputs = ["sprites", "ui"]
atlas_name = "fromfile"
sheet_size = 512
format = "toml"
verify = true
`
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	b := buildOpts{
		sheetSize: 1024,
		maxBins:   32,
		format:    "json",
		encoder:   "toktx",
		outputDir: "out",
		config:    cfg,
	}
	opts, err := resolveBuildOptions(b, changedSet("sheet-size", "output-dir"))
	if err != nil {
		t.Fatalf("resolveBuildOptions: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"explicit flag wins", opts.SheetSize, 1024},
		{"file value kept", opts.AtlasName, "fromfile"},
		{"file format kept", opts.Format, "toml"},
		{"flag default fills gap", opts.MaxBins, 32},
		{"explicit output dir", opts.OutputDir, "out"},
		{"file bool kept", opts.Verify, true},
		{"file inputs", len(opts.Inputs), 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestResolveBuildOptionsBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "atlas.toml")
	if err := os.WriteFile(cfg, []byte("sheet_sise = 512\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := resolveBuildOptions(buildOpts{config: cfg}, changedSet())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key: got %v, want INVALID_CONFIG", err)
	}
}

func TestBuildCommandSkipEncode(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	in := t.TempDir()
	writeTestPNG(t, filepath.Join(in, "a.png"), 16, 8)
	writeTestPNG(t, filepath.Join(in, "b.png"), 8, 8)
	out := filepath.Join(t.TempDir(), "build")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"build", "-i", in, "-a", "demo", "-o", out, "-s", "64", "--skip-encode", "--format", "ron"})
	if err := root.Execute(); err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, name := range []string{"atlas0.png", "demo.ron"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "demo.ktx2")); !os.IsNotExist(err) {
		t.Error("container should not be written with --skip-encode")
	}
}

func TestBuildCommandMissingInput(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"build", "-a", "demo", "--no-cache"})
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("build without inputs: got %v, want INVALID_INPUT", err)
	}
}

func TestInspectCommandPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	doc := describe.New("demo.ktx2", 64, []describe.Entry{{Layer: 0, Width: 16, Height: 8}})
	if err := describe.WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"inspect", path, "--plain"})
	if err := root.Execute(); err != nil {
		t.Fatalf("inspect: %v", err)
	}
}

func TestEncodeCommand(t *testing.T) {
	opts := pipeline.Options{AtlasName: "demo", OutputDir: "build", Encoder: "toktx"}
	res := &pipeline.Result{BinFiles: []string{
		filepath.Join("build", "atlas0.png"),
		filepath.Join("build", "atlas1.png"),
	}}

	got := encodeCommand(opts, res)
	want := "toktx --layers 2 --target_type RG --input_swizzle ra01 --assign_oetf linear --t2 " +
		filepath.Join("build", "demo.ktx2") + " " +
		filepath.Join("build", "atlas0.png") + " " + filepath.Join("build", "atlas1.png")
	if got != want {
		t.Errorf("encodeCommand =\n%s\nwant\n%s", got, want)
	}

	opts.OutputDir = "my build"
	res.BinFiles = []string{filepath.Join("my build", "atlas0.png")}
	if got := encodeCommand(opts, res); !strings.Contains(got, `"`+filepath.Join("my build", "demo.ktx2")+`"`) {
		t.Errorf("paths with spaces should be quoted: %s", got)
	}
}
