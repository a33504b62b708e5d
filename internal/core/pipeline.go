package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/stationcsv/internal/logging"
)

// Converter runs conversions with one validated set of options.
// The mapping tables are shared read-only across files.
type Converter struct {
	opts Options
}

// NewConverter validates opts and returns a Converter.
func NewConverter(opts Options) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{opts: opts}, nil
}

// Options returns the options the converter was built with.
func (c *Converter) Options() Options {
	return c.opts
}

/* ----------------------------------------
	Single file
---------------------------------------- */

// ConvertFile converts one JSON export to CSV.
// Returns ErrNoRows, and writes nothing, when no rows survive filtering.
func (c *Converter) ConvertFile(ctx context.Context, path string) (FileResult, error) {
	result := FileResult{Input: path}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("operation cancelled: %w", err)
	}

	// 1. Decode rows
	rows, err := ReadPayload(path)
	if err != nil {
		return result, err
	}

	// 2. Filter and limit
	ds := Extract(rows, c.opts)
	if len(ds.Rows) == 0 {
		return result, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoRows)
	}

	// 3. Normalize 24:MM and sort
	if err := ds.NormalizeTimes(); err != nil {
		return result, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	ds.SortByTime()

	// 4. Rename and write
	names := RenameColumns(ds.Columns, c.opts.Mapping, c.opts.renameOptions())
	out := OutputPath(path, c.opts.OutDir)
	if err := WriteCSV(out, ds, names, c.opts.Delimiter); err != nil {
		return result, err
	}

	result.Output = out
	result.Rows = len(ds.Rows)
	result.Columns = len(ds.Columns)

	logging.WithFields(ctx, "input", path).Info("csv written",
		"output", out,
		"rows", result.Rows,
		"columns", result.Columns,
	)

	return result, nil
}

/* ----------------------------------------
	Directory batch
---------------------------------------- */

// ListInputs returns the .json files directly inside dir, sorted by name.
// The extension match is case-insensitive.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// ConvertDir converts every .json file in dir. A failing file is logged and
// counted; the batch continues. Only a directory read error or cancellation
// is returned.
func (c *Converter) ConvertDir(ctx context.Context, dir string) (RunSummary, error) {
	var summary RunSummary
	logger := logging.WithFields(ctx, "dir", dir)

	files, err := ListInputs(dir)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		logger.Warn("no .json files in directory")
		return summary, nil
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("operation cancelled: %w", err)
		}

		_, err := c.ConvertFile(ctx, path)
		switch {
		case err == nil:
			summary.Converted++
		case errors.Is(err, ErrNoRows):
			summary.Skipped++
			logger.Warn("skipped file without valid rows", "input", path)
		case errors.Is(err, context.Canceled):
			return summary, err
		default:
			summary.Failed++
			msg := MapError(err)
			logger.Error("conversion failed",
				"input", path,
				"error", err,
				"code", msg.Code,
				"hint", msg.Action,
			)
		}
	}

	logger.Info("batch complete",
		"converted", summary.Converted,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// ConvertPath dispatches to ConvertFile or ConvertDir depending on what input is.
func (c *Converter) ConvertPath(ctx context.Context, input string) (RunSummary, error) {
	info, err := os.Stat(input)
	if err != nil {
		return RunSummary{}, fmt.Errorf("read input: %w", err)
	}

	if info.IsDir() {
		return c.ConvertDir(ctx, input)
	}

	_, err = c.ConvertFile(ctx, input)
	switch {
	case err == nil:
		return RunSummary{Converted: 1}, nil
	case errors.Is(err, ErrNoRows):
		logging.WithFields(ctx, "input", input).Warn("skipped file without valid rows")
		return RunSummary{Skipped: 1}, nil
	default:
		return RunSummary{Failed: 1}, err
	}
}
