// Package compat computes pairwise edge compatibility for force-directed
// edge bundling.
//
// # Metrics
//
// Two edges P and Q are scored by four geometric factors, each in [0, 1]:
//
//   - [Angle]: |cos θ| between the edge directions, ignoring orientation
//   - [Scale]: 2 / (lavg/lmin + lmax/lavg), penalising length mismatch
//   - [Position]: lavg / (lavg + d), d the distance between midpoints
//   - [Visibility]: how much each edge "sees" of the other when projected
//     onto its supporting line, taken as the minimum of both directions
//
// The combined score is their product. Because every factor is at most 1,
// a pair whose first three factors already multiply to less than the
// threshold can never reach it, so [Compute] evaluates the expensive
// visibility factor only for the pairs that survive that cheap test.
// Disabling the pre-filter with Options.Prefilter = false changes the
// running time, never the result.
//
// # Output
//
// [Matrix] is a sparse, symmetric structure holding only pairs whose score
// reaches the threshold. It supports constant-time lookup via
// [Matrix.Score] and ordered enumeration of an edge's partners via
// [Matrix.Partners]. A Matrix is immutable and safe for concurrent reads.
//
// # Degenerate Edges
//
// Edges shorter than Options.Eps, or with a NaN or infinite coordinate,
// take part in no pair. They are not an error.
//
// # Cancellation
//
// Compute checks its context once per row of the pair triangle. On
// cancellation all partial work is discarded and the context error is
// returned.
package compat
