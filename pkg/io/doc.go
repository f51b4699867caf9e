// Package io reads edge lists and writes bundled tables.
//
// # Edge input
//
// CSV input needs a header row naming at least x, y, xend and yend; an
// optional weight column may appear anywhere. Column order is free and
// names are matched case-insensitively:
//
//	x,y,xend,yend,weight
//	0,0,10,0,1
//	0,1,10,1,3
//
// JSON input is either a bare array or an object with an "edges" array:
//
//	[{"x": 0, "y": 0, "xend": 10, "yend": 0, "weight": 1}]
//	{"edges": [{"x": 0, "y": 0, "xend": 10, "yend": 0}]}
//
// A missing or empty weight means 1. Coordinates may be NaN or infinite;
// the bundler treats such edges as degenerate rather than rejecting them.
//
// # Table output
//
// CSV output has the columns x, y, index, group. JSON output is
// {"rows": [{"x", "y", "index", "group"}, ...]}. Floats are written with
// the shortest representation that parses back to the same value.
//
// Malformed input is reported as an INVALID_FORMAT error naming the line or
// element at fault.
package io
