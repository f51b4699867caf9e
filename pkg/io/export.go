package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/edgebundle/pkg/bundle/table"
)

// WriteTable encodes t to w in the given format.
func WriteTable(t *table.Table, w io.Writer, format string) error {
	switch format {
	case FormatCSV:
		return WriteTableCSV(t, w)
	case FormatJSON:
		return WriteTableJSON(t, w)
	}
	return ValidateFormat(format)
}

// ExportTable writes t to the file at path, choosing the format by
// extension.
func ExportTable(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTable(t, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTableCSV writes the header x,y,index,group and one line per row.
func WriteTableCSV(t *table.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "index", "group"}); err != nil {
		return err
	}
	rec := make([]string, 4)
	for _, r := range t.Rows {
		rec[0] = formatFloat(r.X)
		rec[1] = formatFloat(r.Y)
		rec[2] = formatFloat(r.Index)
		rec[3] = strconv.Itoa(r.Group)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableJSON writes {"rows": [...]}.
func WriteTableJSON(t *table.Table, w io.Writer) error {
	out := t
	if out.Rows == nil {
		out = &table.Table{Rows: []table.Row{}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
