package core

// convert.go turns decoded JSON values into CSV cell text.
//
// Station exports mark missing measurements with "----" or "-". Those, and
// JSON null, become invalid pgtype.Text values which the writer emits as
// empty fields.

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgtype"
)

// missingMarkers are the literal tokens exports use for "no measurement".
var missingMarkers = map[string]bool{
	"----": true,
	"-":    true,
}

// IsMissingMarker reports whether s is a missing-value token.
func IsMissingMarker(s string) bool {
	return missingMarkers[s]
}

// CellText converts a decoded JSON value to pgtype.Text.
// Returns invalid for null and missing markers. Numbers keep their source
// spelling; nested objects and arrays are written as compact JSON.
func CellText(v any) pgtype.Text {
	switch val := v.(type) {
	case nil:
		return pgtype.Text{Valid: false}
	case string:
		if IsMissingMarker(val) {
			return pgtype.Text{Valid: false}
		}
		return pgtype.Text{String: val, Valid: true}
	case json.Number:
		return pgtype.Text{String: val.String(), Valid: true}
	case float64:
		return pgtype.Text{String: strconv.FormatFloat(val, 'f', -1, 64), Valid: true}
	case bool:
		return pgtype.Text{String: strconv.FormatBool(val), Valid: true}
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return pgtype.Text{Valid: false}
		}
		return pgtype.Text{String: string(b), Valid: true}
	}
}

// toText renders a value for matching against the datetime filter.
// Mirrors how a row's datetime is shown in the CSV, without the missing-marker rule.
func toText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case nil:
		return ""
	}
	return CellText(v).String
}
