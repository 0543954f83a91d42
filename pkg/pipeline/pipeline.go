// Package pipeline provides the atlas build pipeline for texatlas.
//
// This package implements the complete load → pack → composite → encode →
// describe pipeline. The CLI is a thin layer over it; library users can drive
// the same [Runner] directly.
//
// # Architecture
//
// The pipeline consists of these stages:
//
//  1. Load: decode every image of the input directories (cached)
//  2. Pack: assign each image a bin and offset (cached)
//  3. Composite: copy source pixels into one buffer per bin
//  4. Write: store each bin as <output>/atlas<N>.png
//  5. Encode: merge the bin images into <output>/<name>.ktx2
//  6. Describe: write <output>/<name>.<format> with per-image placements
//
// The description is only written after a successful encode. Bin images
// that were already written are left in place when a later stage fails.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs:    []string{"sprites"},
//	    AtlasName: "sprites",
//	    OutputDir: "build",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Bins, "layers")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/texatlas/pkg/describe"
	"github.com/matzehuels/texatlas/pkg/encode"
	"github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/pack"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and library users
// =============================================================================

const (
	// DefaultSheetSize is the side length of every bin in pixels.
	DefaultSheetSize = 2048

	// DefaultMaxBins is the bin ceiling.
	DefaultMaxBins = pack.DefaultMaxBins

	// DefaultOutputDir is used when no output directory is given.
	DefaultOutputDir = "."

	// DefaultFormat is the description file format.
	DefaultFormat = string(describe.DefaultFormat)

	// DefaultEncoder is the encoder binary.
	DefaultEncoder = encode.DefaultTool
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for an atlas build.
// The toml tags define the config file keys.
type Options struct {
	Inputs     []string `toml:"inputs"`
	AtlasName  string   `toml:"atlas_name"`
	SheetSize  int      `toml:"sheet_size"`
	OutputDir  string   `toml:"output_dir"`
	MaxBins    int      `toml:"max_bins"`
	Format     string   `toml:"format"`
	Encoder    string   `toml:"encoder"`
	Workers    int      `toml:"workers"`
	SkipEncode bool     `toml:"skip_encode"`
	Verify     bool     `toml:"verify"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-"`

	// Enc overrides the encoder built from Encoder.
	Enc encode.Encoder `toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Placements holds one entry per loaded image, in load order.
	Placements []pack.Placement

	// Bins is the number of bins (and container layers).
	Bins int

	// Attempts is the number of packing attempts.
	Attempts int

	// BinFiles lists the written bin images, indexed by bin id.
	BinFiles []string

	// Container is the path of the encoded container. It is empty when
	// encoding was skipped.
	Container string

	// DescriptionFile is the path of the written description.
	DescriptionFile string

	// Description is the written description document.
	Description describe.Description

	// Occupancy summarizes how full the bins are.
	Occupancy pack.Summary

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Images        int
	Skipped       int
	LoadTime      time.Duration
	PackTime      time.Duration
	CompositeTime time.Duration
	EncodeTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ImageHits int  // Number of images decoded from cache
	PackHit   bool // Whether the packing result came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero-valued fields with their defaults.
func (o *Options) SetDefaults() {
	if o.SheetSize == 0 {
		o.SheetSize = DefaultSheetSize
	}
	if o.MaxBins == 0 {
		o.MaxBins = DefaultMaxBins
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Encoder == "" {
		o.Encoder = DefaultEncoder
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options without modifying them.
func (o *Options) Validate() error {
	if len(o.Inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one input directory is required")
	}
	for _, dir := range o.Inputs {
		if err := errors.ValidateDir(dir); err != nil {
			return err
		}
	}
	if err := errors.ValidateAtlasName(o.AtlasName); err != nil {
		return err
	}
	if err := errors.ValidateSheetSize(o.SheetSize); err != nil {
		return err
	}
	if err := errors.ValidateDir(o.OutputDir); err != nil {
		return err
	}
	if o.MaxBins < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max bins must be at least 1, got %d", o.MaxBins)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative, got %d", o.Workers)
	}
	_, err := describe.ParseFormat(o.Format)
	return err
}

// ContainerName returns the file name of the encoded container.
func (o *Options) ContainerName() string {
	return o.AtlasName + ".ktx2"
}

// DescriptionName returns the file name of the description.
func (o *Options) DescriptionName() string {
	return o.AtlasName + describe.Format(o.Format).Ext()
}
