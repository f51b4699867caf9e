// Package bundle implements force-directed edge bundling.
//
// Given straight edges in the plane, [Bundle] bends each one into a polyline
// so that edges which are compatible (similar direction, length and
// location, and mutually visible) are drawn toward one another. The result
// is a long-format [table.Table] with one row per control point.
//
// # Stages
//
//  1. Compatibility: every unordered pair of edges is scored in [0, 1]
//     (package compat). Pairs below the threshold are dropped.
//  2. Simulation: polylines are refined and relaxed over a schedule of
//     cycles (packages subdivide and force).
//  3. Assembly: polylines are flattened into rows (package table).
//
// # Usage
//
//	edges := []bundle.Edge{
//	    bundle.NewEdge(0, 0, 10, 0),
//	    bundle.NewEdge(0, 1, 10, 1),
//	}
//	res, err := bundle.Bundle(ctx, edges, bundle.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, row := range res.Table.Rows {
//	    fmt.Println(row.X, row.Y, row.Index, row.Group)
//	}
//
// The computation is deterministic: the same edges and configuration give
// bit-identical output for any worker count.
package bundle
