package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
)

var requiredColumns = []string{"x", "y", "xend", "yend"}

// ReadEdges decodes edges from r in the given format.
func ReadEdges(r io.Reader, format string) ([]bundle.Edge, error) {
	switch format {
	case FormatCSV:
		return ReadEdgesCSV(r)
	case FormatJSON:
		return ReadEdgesJSON(r)
	}
	return nil, ValidateFormat(format)
}

// ImportEdges reads edges from the file at path, choosing the format by
// extension.
func ImportEdges(path string) ([]bundle.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	edges, err := ReadEdges(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return edges, nil
}

// ReadEdgesCSV decodes a CSV edge list with a header row.
func ReadEdgesCSV(r io.Reader) ([]bundle.Edge, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "empty input: header row required")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "missing required column %q", name)
		}
	}
	weightCol, hasWeight := cols["weight"]

	var edges []bundle.Edge
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read row")
		}
		line, _ := cr.FieldPos(0)

		var v [4]float64
		for i, name := range requiredColumns {
			f, err := parseField(rec[cols[name]])
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: column %s", line, name)
			}
			v[i] = f
		}
		e := bundle.NewEdge(v[0], v[1], v[2], v[3])
		if hasWeight && strings.TrimSpace(rec[weightCol]) != "" {
			w, err := parseField(rec[weightCol])
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: column weight", line)
			}
			e.Weight = w
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ReadEdgesJSON decodes a JSON edge array or an object with an "edges" key.
func ReadEdgesJSON(r io.Reader) ([]bundle.Edge, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode edges")
	}

	var edges []bundle.Edge
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(raw, &edges); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode edges")
		}
		return edges, nil
	}

	var doc struct {
		Edges *[]bundle.Edge `json:"edges"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode edges")
	}
	if doc.Edges == nil {
		return nil, errs.New(errs.ErrCodeInvalidFormat, `expected an array or an object with an "edges" array`)
	}
	return *doc.Edges, nil
}
