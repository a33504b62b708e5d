package core

import (
	"fmt"

	"github.com/JonMunkholm/stationcsv/internal/codemap"
)

// RenameOptions controls how codes become display names.
type RenameOptions struct {
	IncludeUnit   bool
	ColPrefix     ColPrefix
	FallbackVarID bool
}

// ColumnName returns the display name of one column code, before uniqueness
// is enforced.
//
// Resolution order: the explicit mapping, then (with FallbackVarID) the
// generic table keyed by variable id, then the raw code unchanged. A station
// prefix is only added when the code has the S_<id>_<var> form.
func ColumnName(code string, tables *codemap.Tables, opts RenameOptions) string {
	stationID, varID, isCode := codemap.ParseCode(code)

	meta, ok := tables.Code(code)
	if !ok && opts.FallbackVarID && isCode {
		meta, ok = codemap.DefaultVariable(varID)
	}
	if !ok {
		return code
	}

	label := meta.Label
	if label == "" {
		label = code
	}

	name := label
	if opts.IncludeUnit && meta.Unit != "" {
		name = fmt.Sprintf("%s [%s]", label, meta.Unit)
	}

	if !isCode {
		return name
	}
	switch opts.ColPrefix {
	case PrefixID:
		return stationID + " - " + name
	case PrefixName:
		return tables.StationName(stationID) + " - " + name
	default:
		return name
	}
}

// RenameColumns maps every column to a unique display name, in order.
// The first occurrence of a name keeps it; later ones get "_2", "_3", ...
// The datetime column keeps its name. No other column may take that name,
// whether or not the dataset has a datetime column.
func RenameColumns(columns []string, tables *codemap.Tables, opts RenameOptions) []string {
	used := make(map[string]bool, len(columns)+1)
	used[DatetimeColumn] = true

	out := make([]string, len(columns))
	for i, col := range columns {
		if col == DatetimeColumn {
			out[i] = col
			continue
		}

		base := ColumnName(col, tables, opts)
		final := base
		for n := 2; used[final]; n++ {
			final = fmt.Sprintf("%s_%d", base, n)
		}
		used[final] = true
		out[i] = final
	}

	return out
}
