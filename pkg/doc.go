// Package pkg provides the core libraries for texatlas texture atlas building.
//
// # Overview
//
// texatlas packs directories of images into fixed-size square sheets,
// composites each sheet as a 2-channel luminance+alpha image, encodes the
// sheets as layers of a single KTX2 texture array and describes where every
// source image ended up. The pkg directory is organized into three areas:
//
//  1. Domain logic: [catalog], [pack], [pixel], [composite], [describe]
//  2. Integration: [source] (image decoding), [encode] (toktx)
//  3. Infrastructure: [pipeline], [cache], [observability], [errors]
//
// # Architecture
//
// The data flow through texatlas:
//
//	Input directories
//	         ↓
//	    [source] package (decode to luminance+alpha, cached)
//	         ↓
//	    [catalog] + [pack] packages (assign bins and offsets, cached)
//	         ↓
//	    [composite] package (one buffer per bin)
//	         ↓
//	    atlas<N>.png → [encode] package → <name>.ktx2
//	         ↓
//	    [describe] package → <name>.json | .toml | .ron
//
// # Quick Start
//
// Pack a set of rectangles without touching any files:
//
//	cat := catalog.New()
//	_ = cat.Add("hero", 100, 100)
//	_ = cat.Add("coin", 50, 50)
//	res, err := pack.Pack(cat.All(), 128)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range res.Placements {
//	    fmt.Println(p.ID, p.Bin, p.X, p.Y)
//	}
//
// Run the full build:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs:    []string{"sprites"},
//	    AtlasName: "sprites",
//	})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/pack/...     # Specific package
//	go test -run Example ./... # Examples only
//
// The encode tests replace toktx with a shell script and are skipped on
// Windows.
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/catalog
// [pack]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/pack
// [pixel]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/pixel
// [composite]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/composite
// [describe]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/describe
// [source]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/source
// [encode]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/encode
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/texatlas/pkg/errors
package pkg
