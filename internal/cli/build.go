package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/encode"
	"github.com/matzehuels/texatlas/pkg/observability"
	"github.com/matzehuels/texatlas/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	inputs     []string // input directories, scanned non-recursively
	atlasName  string   // base name of the container and description files
	sheetSize  int      // side length of every bin in pixels
	outputDir  string   // directory receiving all outputs
	maxBins    int      // bin ceiling
	format     string   // description format: json, toml, ron
	encoder    string   // encoder binary
	workers    int      // compositing workers (0 = GOMAXPROCS)
	skipEncode bool     // write bin images and description only
	verify     bool     // re-check placements before compositing
	noCache    bool     // disable the decode and packing cache
	config     string   // optional TOML config file
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{
		sheetSize: pipeline.DefaultSheetSize,
		maxBins:   pipeline.DefaultMaxBins,
		outputDir: pipeline.DefaultOutputDir,
		format:    pipeline.DefaultFormat,
		encoder:   pipeline.DefaultEncoder,
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Pack image directories into a layered texture atlas",
		Long: `Pack image directories into a layered texture atlas.

Every regular file of the input directories is decoded, converted to
luminance+alpha and packed into square sheets. Each sheet is written as
atlas<N>.png, the sheets are encoded as layers of <name>.ktx2 with toktx, and
<name>.<format> records where every image was placed.`,
		Example: `  texatlas build -i sprites -i ui -a game -o build
  texatlas build --config atlas.toml --sheet-size 1024
  texatlas build -i sprites -a game --skip-encode --format ron`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveBuildOptions(opts, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runBuild(ctx, resolved, opts.noCache)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.inputs, "input", "i", nil, "input directory (repeatable)")
	f.StringVarP(&opts.atlasName, "atlas-name", "a", "", "base name of the output files")
	f.IntVarP(&opts.sheetSize, "sheet-size", "s", opts.sheetSize, "side length of each sheet in pixels")
	f.StringVarP(&opts.outputDir, "output-dir", "o", opts.outputDir, "output directory")
	f.IntVar(&opts.maxBins, "max-bins", opts.maxBins, "maximum number of sheets")
	f.StringVar(&opts.format, "format", opts.format, "description format: json, toml, ron")
	f.StringVar(&opts.encoder, "encoder", opts.encoder, "path to the toktx binary")
	f.IntVar(&opts.workers, "workers", 0, "compositing workers (default GOMAXPROCS)")
	f.BoolVar(&opts.skipEncode, "skip-encode", false, "skip KTX2 encoding")
	f.BoolVar(&opts.verify, "verify", false, "verify placements before compositing")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.StringVar(&opts.config, "config", "", "TOML config file; flags override its values")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "toml", "ron"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagDirname("input")
	_ = cmd.MarkFlagDirname("output-dir")
	_ = cmd.MarkFlagFilename("config", "toml")

	return cmd
}

// resolveBuildOptions merges the config file (if any) with the flags. A flag
// wins when it was set explicitly or when the file leaves the key empty.
func resolveBuildOptions(b buildOpts, changed func(name string) bool) (pipeline.Options, error) {
	var opts pipeline.Options
	if b.config != "" {
		var err error
		if opts, err = pipeline.LoadConfig(b.config); err != nil {
			return pipeline.Options{}, err
		}
	}

	if changed("input") || len(opts.Inputs) == 0 {
		opts.Inputs = b.inputs
	}
	if changed("atlas-name") || opts.AtlasName == "" {
		opts.AtlasName = b.atlasName
	}
	if changed("sheet-size") || opts.SheetSize == 0 {
		opts.SheetSize = b.sheetSize
	}
	if changed("output-dir") || opts.OutputDir == "" {
		opts.OutputDir = b.outputDir
	}
	if changed("max-bins") || opts.MaxBins == 0 {
		opts.MaxBins = b.maxBins
	}
	if changed("format") || opts.Format == "" {
		opts.Format = b.format
	}
	if changed("encoder") || opts.Encoder == "" {
		opts.Encoder = b.encoder
	}
	if changed("workers") || opts.Workers == 0 {
		opts.Workers = b.workers
	}
	if changed("skip-encode") {
		opts.SkipEncode = b.skipEncode
	}
	if changed("verify") {
		opts.Verify = b.verify
	}
	return opts, nil
}

// runBuild executes the pipeline and prints a summary.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	// Without --verbose the spinner reports progress; only warnings are logged.
	runLogger := logger
	var spinner *Spinner
	if !c.Verbose() {
		runLogger = logger.With()
		runLogger.SetLevel(log.WarnLevel)
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Loading images for %s...", opts.AtlasName))
		observability.SetPipelineHooks(spinnerHooks{s: spinner})
		defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
		spinner.Start()
	}
	opts.Logger = runLogger

	runner, err := c.newRunner(noCache, runLogger)
	if err != nil {
		if spinner != nil {
			spinner.Stop()
		}
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		switch {
		case err == nil, spinner.Cancelled():
			spinner.Stop()
		default:
			spinner.StopWithError("Build failed")
		}
	}
	if err != nil {
		return err
	}
	if c.Verbose() {
		prog.done("Built atlas", "name", opts.AtlasName, "images", result.Stats.Images, "sheets", result.Bins)
	}

	printBuildSummary(opts, result)
	return nil
}

// printBuildSummary prints the outputs and statistics of a build.
func printBuildSummary(opts pipeline.Options, res *pipeline.Result) {
	printSuccess("Built atlas %s", StyleHighlight.Render(opts.AtlasName))
	printStats(res.Stats.Images, res.Bins, res.CacheInfo.PackHit)
	if res.Stats.Skipped > 0 {
		printWarning("%d files could not be decoded and were skipped", res.Stats.Skipped)
	}

	printNewline()
	for _, f := range res.BinFiles {
		printFile(f)
	}
	if res.Container != "" {
		printFile(res.Container)
	}
	printFile(res.DescriptionFile)

	printNewline()
	printKeyValue("Sheet", fmt.Sprintf("%d×%d", opts.SheetSize, opts.SheetSize))
	printKeyValue("Attempts", fmt.Sprintf("%d", res.Attempts))
	printKeyValue("Occupancy", fmt.Sprintf("%.1f%% mean, %.1f%%–%.1f%%",
		100*res.Occupancy.Mean, 100*res.Occupancy.Min, 100*res.Occupancy.Max))

	if res.Container == "" {
		printNewline()
		printNextStep("Encode later with", encodeCommand(opts, res))
	}
	printNextStep("Inspect placements", "texatlas inspect "+res.DescriptionFile)
}

// encodeCommand returns the shell command that encodes the written bin images
// into the container a skipped encode would have produced.
func encodeCommand(opts pipeline.Options, res *pipeline.Result) string {
	container := filepath.Join(opts.OutputDir, opts.ContainerName())
	args := append([]string{opts.Encoder}, encode.Args(container, res.BinFiles)...)
	for i, a := range args {
		if strings.ContainsAny(a, " \t'\"") {
			args[i] = strconv.Quote(a)
		}
	}
	return strings.Join(args, " ")
}
