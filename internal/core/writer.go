package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath returns <outDir>/<input base name>.csv.
// An empty outDir means the directory of the input file.
func OutputPath(input, outDir string) string {
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".csv")
}

// columnOrder returns dataset column indexes with datetime first.
func columnOrder(columns []string) []int {
	order := make([]int, 0, len(columns))
	for i, c := range columns {
		if c == DatetimeColumn {
			order = append(order, i)
		}
	}
	for i, c := range columns {
		if c != DatetimeColumn {
			order = append(order, i)
		}
	}
	return order
}

// EncodeCSV writes the BOM, the header of display names and one record per row.
// names must be parallel to ds.Columns.
func EncodeCSV(w io.Writer, ds *Dataset, names []string, delimiter rune) error {
	if len(names) != len(ds.Columns) {
		return fmt.Errorf("write csv: %d names for %d columns", len(names), len(ds.Columns))
	}

	if err := writeBOM(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	order := columnOrder(ds.Columns)

	header := make([]string, len(order))
	for i, idx := range order {
		header[i] = names[idx]
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	record := make([]string, len(order))
	for _, row := range ds.Rows {
		for i, idx := range order {
			record[i] = CellText(row.Values[ds.Columns[idx]]).String
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteCSV writes the dataset to path, creating the parent directory if needed.
// The file is written under a temporary name and renamed into place, replacing
// any existing file.
func WriteCSV(path string, ds *Dataset, names []string, delimiter rune) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("write csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if err := EncodeCSV(tmp, ds, names, delimiter); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
