// Package pkg provides the libraries behind edgebundle, a force-directed edge
// bundler.
//
// # Overview
//
// Edgebundle takes straight edges between points in the plane and bends
// compatible ones toward each other, so that dense drawings read as a few
// thick bundles instead of a hairball. The result is a flat table of
// polyline points.
//
// # Architecture
//
// The data flow through edgebundle:
//
//	CSV / JSON edge list
//	         ↓
//	    [io] package (import edges)
//	         ↓
//	    [bundle/compat] package (pairwise compatibility scores)
//	         ↓
//	    [bundle/subdivide] + [bundle/force] packages (cycles of subdivision and relaxation)
//	         ↓
//	    [bundle/table] package (assemble rows)
//	         ↓
//	    CSV / JSON table
//
// [bundle] ties these steps together behind one call, and [pipeline] adds
// result caching on top of it.
//
// # Quick Start
//
//	edges, _ := io.ImportEdges("edges.csv")
//	res, err := bundle.Bundle(ctx, edges, bundle.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	_ = io.ExportTable(res.Table, "bundled.csv")
//
// # Main Packages
//
// ## Engine
//
// [bundle] - Configuration, weight normalization and the Bundle entry point.
//
// [bundle/compat] - Angle, scale, position and visibility compatibility with
// a bounding-box prefilter. Pairs are scored in parallel.
//
// [bundle/subdivide] - Per-edge polylines; arc-length resampling and midpoint
// insertion.
//
// [bundle/force] - The cycle schedule and the spring/electrostatic
// simulation.
//
// [bundle/table] - The output table and its binary and JSON encodings.
//
// [geom] - Segments and projection on top of the curve package's points and
// vectors.
//
// ## Infrastructure
//
// [pipeline] - Runs bundling through a cache. Used by the CLI and the HTTP
// service.
//
// [cache] - Cache backends: memory LRU, file, Redis and MongoDB, plus a null
// cache and key derivation.
//
// [io] - Edge import and table export in CSV and JSON.
//
// [observability] - Hooks around runs, cache operations and HTTP requests.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/bundle/...             # Engine only
//
// [bundle]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle
// [bundle/compat]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle/compat
// [bundle/subdivide]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle/subdivide
// [bundle/force]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle/force
// [bundle/table]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle/table
// [geom]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/geom
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/buildinfo
package pkg
