package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/stationcsv/internal/codemap"
)

// DatetimeColumn is the reserved timestamp column of every dataset.
const DatetimeColumn = "datetime"

var (
	// ErrDataFormat is returned when a payload has no row list under "Data" or "data".
	ErrDataFormat = errors.New("data format error")

	// ErrNoRows is returned when no rows remain after filtering. Callers treat it as a skip.
	ErrNoRows = errors.New("no valid rows")

	// ErrInvalidDatetime is returned when a "DD-MM-YYYY HH:MM" value names a
	// date or time that does not exist, such as 31-02-2024 or 25:00.
	ErrInvalidDatetime = errors.New("invalid datetime")

	// ErrInvalidOptions is returned when Options fail validation.
	ErrInvalidOptions = errors.New("invalid options")
)

// ColPrefix selects what, if anything, is prepended to column names.
type ColPrefix string

const (
	PrefixNone ColPrefix = "none"
	PrefixID   ColPrefix = "id"
	PrefixName ColPrefix = "name"
)

// Options controls one conversion run.
type Options struct {
	Mapping       *codemap.Tables `validate:"required"`
	OutDir        string          // Empty writes next to each input file
	Rows          int             `validate:"gte=0"` // Keep the first N rows after filtering; 0 keeps all
	AllRows       bool            // Skip the datetime filter and keep every object row
	IncludeUnit   bool            // Append " [unit]" when a unit is known
	ColPrefix     ColPrefix       `validate:"oneof=none id name"`
	FallbackVarID bool            // Consult the generic variable table for unmapped codes
	Delimiter     rune            `validate:"required"`
}

// DefaultOptions returns the options used when no flags are given.
func DefaultOptions(mapping *codemap.Tables) Options {
	return Options{
		Mapping:     mapping,
		IncludeUnit: true,
		ColPrefix:   PrefixNone,
		Delimiter:   ',',
	}
}

var validate = validator.New()

// Validate checks the options before any file is touched.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if o.Delimiter == '"' || o.Delimiter == '\r' || o.Delimiter == '\n' {
		return fmt.Errorf("%w: delimiter %q is not allowed", ErrInvalidOptions, o.Delimiter)
	}
	return nil
}

func (o Options) renameOptions() RenameOptions {
	return RenameOptions{
		IncludeUnit:   o.IncludeUnit,
		ColPrefix:     o.ColPrefix,
		FallbackVarID: o.FallbackVarID,
	}
}

// Row is one data row: values by column code, plus the key order found in the source.
type Row struct {
	Keys   []string
	Values map[string]any
}

// Get returns the raw value stored under key.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Dataset is a sparse table of rows sharing a possibly heterogeneous set of columns.
type Dataset struct {
	Columns []string // Union of row keys in first-seen order
	Rows    []Row
}

// NewDataset builds a Dataset and computes its column order once.
func NewDataset(rows []Row) *Dataset {
	ds := &Dataset{Rows: rows}
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, k := range r.Keys {
			if !seen[k] {
				seen[k] = true
				ds.Columns = append(ds.Columns, k)
			}
		}
	}
	return ds
}

// HasColumn reports whether any row carries col.
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// FileResult describes one converted file.
type FileResult struct {
	Input   string
	Output  string
	Rows    int
	Columns int
}

// RunSummary counts the outcome of a batch.
type RunSummary struct {
	Converted int
	Skipped   int // Files without valid rows
	Failed    int
}
