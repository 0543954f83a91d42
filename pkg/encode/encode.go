// Package encode merges composited bin images into one layered texture
// container by running an external encoder.
//
// The only encoder is toktx from the KTX-Software tools. Each bin image
// becomes one array layer, in bin order, of a KTX2 file with a 2-channel
// (RG) linear target:
//
//	toktx --layers N --target_type RG --input_swizzle ra01 --assign_oetf linear --t2 out.ktx2 atlas0.png ...
//
// Bin PNGs store luminance in RGB and alpha in A, so the swizzle routes
// luminance into R and alpha into G.
package encode

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// DefaultTool is the encoder binary looked up on PATH.
const DefaultTool = "toktx"

// installHint is shown when the encoder binary cannot be found.
const installHint = `texture encoding requires toktx from KTX-Software. Install with:
  macOS:  brew install ktx-software
  Linux:  download a release from https://github.com/KhronosGroup/KTX-Software/releases
Or pass --skip-encode to write only the bin images.`

// Encoder writes a layered texture container from per-layer images.
type Encoder interface {
	Encode(ctx context.Context, out string, layers []string) error
}

// Toktx runs the toktx command line tool.
type Toktx struct {
	// Tool is the binary name or path. Empty means DefaultTool.
	Tool   string
	Logger *log.Logger
}

// NewToktx returns a toktx encoder running tool.
func NewToktx(tool string, logger *log.Logger) *Toktx {
	if tool == "" {
		tool = DefaultTool
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Toktx{Tool: tool, Logger: logger}
}

// Args returns the command line arguments for encoding layers into out.
func Args(out string, layers []string) []string {
	args := []string{
		"--layers", strconv.Itoa(len(layers)),
		"--target_type", "RG",
		"--input_swizzle", "ra01",
		"--assign_oetf", "linear",
		"--t2",
		out,
	}
	return append(args, layers...)
}

// Encode runs the tool. A missing binary or a non-zero exit is an
// ENCODE_FAILURE; the latter is an *errors.EncodeError carrying the
// captured output.
func (t *Toktx) Encode(ctx context.Context, out string, layers []string) error {
	tool := t.Tool
	if tool == "" {
		tool = DefaultTool
	}
	logger := t.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if len(layers) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no layers to encode")
	}

	bin, err := exec.LookPath(tool)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailure, err, "%s not found\n%s", tool, installHint)
	}

	args := Args(out, layers)
	logger.Debug("running encoder", "tool", bin, "args", args)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		code := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &errors.EncodeError{
			Tool:     tool,
			ExitCode: code,
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			Err:      fmt.Errorf("%s: %w", tool, err),
		}
	}
	if stderr.Len() > 0 {
		logger.Debug("encoder stderr", "output", stderr.String())
	}
	return nil
}

var _ Encoder = (*Toktx)(nil)
