package encode

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// fakeTool writes an executable shell script and returns its path.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "toktx")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestArgs(t *testing.T) {
	got := strings.Join(Args("out/a.ktx2", []string{"atlas0.png", "atlas1.png"}), " ")
	want := "--layers 2 --target_type RG --input_swizzle ra01 --assign_oetf linear --t2 out/a.ktx2 atlas0.png atlas1.png"
	if got != want {
		t.Errorf("Args =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeSuccess(t *testing.T) {
	tool := fakeTool(t, `echo "$@" > "$(dirname "$0")/args.txt"`)
	enc := NewToktx(tool, nil)

	if err := enc.Encode(context.Background(), "sprites.ktx2", []string{"atlas0.png"}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(tool), "args.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "--layers 1 --target_type RG") {
		t.Errorf("tool got args %q", data)
	}
}

func TestEncodeFailure(t *testing.T) {
	tool := fakeTool(t, "echo progress; echo 'bad input' >&2; exit 3")
	enc := NewToktx(tool, nil)

	err := enc.Encode(context.Background(), "x.ktx2", []string{"atlas0.png"})
	if !errors.Is(err, errors.ErrCodeEncodeFailure) {
		t.Fatalf("Encode = %v, want ENCODE_FAILURE", err)
	}
	var ee *errors.EncodeError
	if !stderrors.As(err, &ee) {
		t.Fatalf("Encode error is %T, want *errors.EncodeError", err)
	}
	if ee.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ee.ExitCode)
	}
	if string(ee.Stdout) != "progress\n" || string(ee.Stderr) != "bad input\n" {
		t.Errorf("captured stdout %q stderr %q", ee.Stdout, ee.Stderr)
	}
	for _, want := range []string{"bad input", "progress"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error message should include %q: %v", want, err)
		}
	}
}

func TestEncodeFailureReportsStdout(t *testing.T) {
	tool := fakeTool(t, "echo 'ERROR: layer 1 has wrong size'; exit 1")
	enc := NewToktx(tool, nil)

	err := enc.Encode(context.Background(), "x.ktx2", []string{"atlas0.png", "atlas1.png"})
	if err == nil {
		t.Fatal("Encode should fail")
	}
	if !strings.Contains(err.Error(), "layer 1 has wrong size") {
		t.Errorf("error message should include the tool's stdout: %v", err)
	}
}

func TestEncodeMissingTool(t *testing.T) {
	enc := NewToktx(filepath.Join(t.TempDir(), "no-such-toktx"), nil)
	err := enc.Encode(context.Background(), "x.ktx2", []string{"atlas0.png"})
	if !errors.Is(err, errors.ErrCodeEncodeFailure) {
		t.Fatalf("Encode = %v, want ENCODE_FAILURE", err)
	}
	if !strings.Contains(err.Error(), "KTX-Software") {
		t.Errorf("missing tool error should carry an install hint: %v", err)
	}
}

func TestEncodeNoLayers(t *testing.T) {
	err := NewToktx("", nil).Encode(context.Background(), "x.ktx2", nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Encode(nil layers) = %v, want INVALID_INPUT", err)
	}
}

func TestEncodeCancelled(t *testing.T) {
	tool := fakeTool(t, "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewToktx(tool, nil).Encode(ctx, "x.ktx2", []string{"a.png"})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Encode = %v, want context.Canceled", err)
	}
}
