package describe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/texatlas/pkg/errors"
)

// Format is a description file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatRON  Format = "ron"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported formats.
var ValidFormats = map[Format]bool{
	FormatJSON: true,
	FormatTOML: true,
	FormatRON:  true,
}

// ParseFormat validates s as a format name. Matching is case-sensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, toml, ron)", s)
	}
	return f, nil
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Encode writes d to w in the given format.
func Encode(w io.Writer, d Description, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(d)
	case FormatRON:
		return writeRON(w, d)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "cannot encode format %q", f)
	}
}

// Decode reads a description in the given format. RON is write-only.
func Decode(r io.Reader, f Format) (Description, error) {
	var d Description
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return Description{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json description")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
			return Description{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml description")
		}
	default:
		return Description{}, errors.New(errors.ErrCodeInvalidFormat, "cannot decode format %q", f)
	}
	return d, nil
}

// WriteFile writes d to path, choosing the format from the extension.
func WriteFile(path string, d Description) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer out.Close()

	if err := Encode(out, d, f); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return out.Close()
}

// ReadFile reads a description, choosing the format from the extension.
func ReadFile(path string) (Description, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return Description{}, err
	}
	in, err := os.Open(path)
	if err != nil {
		return Description{}, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer in.Close()
	return Decode(in, f)
}

// writeRON writes d in the pretty RON layout used by Rust renderers:
// structs as parenthesized field lists, tuples inline, trailing commas.
func writeRON(w io.Writer, d Description) error {
	bw := bufio.NewWriter(w)
	const ind = "    "

	fmt.Fprintln(bw, "(")
	if len(d.Frames) == 0 {
		fmt.Fprintln(bw, ind+"frames: [],")
	} else {
		fmt.Fprintln(bw, ind+"frames: [")
		for _, e := range d.Frames {
			fmt.Fprintln(bw, ind+ind+"(")
			fmt.Fprintf(bw, ind+ind+ind+"layer: %d,\n", e.Layer)
			fmt.Fprintf(bw, ind+ind+ind+"x: %d,\n", e.X)
			fmt.Fprintf(bw, ind+ind+ind+"y: %d,\n", e.Y)
			fmt.Fprintf(bw, ind+ind+ind+"width: %d,\n", e.Width)
			fmt.Fprintf(bw, ind+ind+ind+"height: %d,\n", e.Height)
			fmt.Fprintln(bw, ind+ind+"),")
		}
		fmt.Fprintln(bw, ind+"],")
	}
	fmt.Fprintf(bw, ind+"size: (%d, %d),\n", d.Size[0], d.Size[1])
	fmt.Fprintf(bw, ind+"file: %s,\n", strconv.Quote(d.File))
	fmt.Fprint(bw, ")")
	return bw.Flush()
}
