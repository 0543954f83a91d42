// Package describe builds the atlas description consumed by renderers.
//
// [Describe] translates packing placements plus a bin→layer mapping into
// [Entry] records. A [Description] wraps the entries with the container file
// name and sheet size, and can be written as JSON, TOML or RON:
//
//	entries := describe.Describe(res.Placements, describe.Identity)
//	doc := describe.New("sprites.ktx2", 2048, entries)
//	err := describe.Encode(w, doc, describe.FormatJSON)
package describe

import (
	"github.com/matzehuels/texatlas/pkg/pack"
)

// Entry is the externally visible placement of one source image.
type Entry struct {
	ID     string `json:"-" toml:"-"`
	Layer  int    `json:"layer" toml:"layer"`
	X      int    `json:"x" toml:"x"`
	Y      int    `json:"y" toml:"y"`
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
}

// Description is the atlas description document.
type Description struct {
	Frames []Entry `json:"frames" toml:"frames"`
	Size   [2]int  `json:"size" toml:"size"`
	File   string  `json:"file" toml:"file"`
}

// Identity maps bin ids to the layer with the same index.
func Identity(bin int) int { return bin }

// Describe converts placements into entries, in placement order. layer maps
// a bin id to its output layer index.
func Describe(placements []pack.Placement, layer func(bin int) int) []Entry {
	out := make([]Entry, len(placements))
	for i, p := range placements {
		out[i] = Entry{
			ID:     p.ID,
			Layer:  layer(p.Bin),
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
		}
	}
	return out
}

// New builds a description for a square sheet of side size.
func New(file string, size int, entries []Entry) Description {
	if entries == nil {
		entries = []Entry{}
	}
	return Description{Frames: entries, Size: [2]int{size, size}, File: file}
}
