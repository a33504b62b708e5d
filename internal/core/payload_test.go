package core

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows int
		wantKeys [][]string
	}{
		{
			name:     "upper Data",
			input:    `{"Data":[{"datetime":"01-01-2024 10:00","S_27_1":"55"}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"datetime", "S_27_1"}},
		},
		{
			name:     "lower data",
			input:    `{"data":[{"b":1,"a":2}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"b", "a"}},
		},
		{
			name:     "empty Data falls back to data",
			input:    `{"Data":[],"data":[{"x":1}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"x"}},
		},
		{
			name:     "Data not a list falls back to data",
			input:    `{"Data":"n/a","data":[{"x":1}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"x"}},
		},
		{
			name:     "Data wins over data",
			input:    `{"Data":[{"u":1}],"data":[{"l":1}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"u"}},
		},
		{
			name:     "empty Data without data",
			input:    `{"Data":[]}`,
			wantRows: 0,
		},
		{
			name:     "non-object entries dropped",
			input:    `{"Data":[1,"x",null,[1],{"k":"v"}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"k"}},
		},
		{
			name:     "key order kept across nesting",
			input:    `{"Data":[{"z":{"inner":[1,{"deep":2}]},"y":[],"x":{}}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"z", "y", "x"}},
		},
		{
			name:     "escaped keys",
			input:    `{"Data":[{"a\"b":1,"µg":2}]}`,
			wantRows: 1,
			wantKeys: [][]string{{`a"b`, "µg"}},
		},
		{
			name:     "trailing whitespace",
			input:    "{\"Data\":[{\"k\":1}]}\n\r\n\t ",
			wantRows: 1,
			wantKeys: [][]string{{"k"}},
		},
		{
			name:     "leading BOM",
			input:    "\ufeff" + `{"Data":[{"k":1}]}`,
			wantRows: 1,
			wantKeys: [][]string{{"k"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := DecodePayload(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
			if len(rows) != tt.wantRows {
				t.Fatalf("DecodePayload() rows = %d, want %d", len(rows), tt.wantRows)
			}
			for i, want := range tt.wantKeys {
				if !reflect.DeepEqual(rows[i].Keys, want) {
					t.Errorf("row %d keys = %v, want %v", i, rows[i].Keys, want)
				}
			}
		})
	}
}

func TestDecodePayload_Values(t *testing.T) {
	rows, err := DecodePayload(strings.NewReader(
		`{"Data":[{"datetime":"01-01-2024 10:00","n":12.50,"b":true,"z":null,"m":"----"}]}`))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}

	row := rows[0]
	if v, _ := row.Get("n"); v != json.Number("12.50") {
		t.Errorf("n = %#v, want json.Number(\"12.50\")", v)
	}
	if v, _ := row.Get("b"); v != true {
		t.Errorf("b = %#v, want true", v)
	}
	if v, ok := row.Get("z"); !ok || v != nil {
		t.Errorf("z = %#v (present %v), want present nil", v, ok)
	}
	if v, _ := row.Get("m"); v != "----" {
		t.Errorf("m = %#v, want \"----\"", v)
	}
	if _, ok := row.Get("missing"); ok {
		t.Error("missing key reported present")
	}
}

func TestDecodePayload_DuplicateKeys(t *testing.T) {
	rows, err := DecodePayload(strings.NewReader(`{"Data":[{"a":1,"b":2,"a":3}]}`))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if !reflect.DeepEqual(rows[0].Keys, []string{"a", "b"}) {
		t.Errorf("keys = %v, want [a b]", rows[0].Keys)
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFormat bool // errors.Is(err, ErrDataFormat)
	}{
		{name: "Data not a list", input: `{"Data":{"x":1}}`, wantFormat: true},
		{name: "Data string", input: `{"Data":"nope"}`, wantFormat: true},
		{name: "no Data key", input: `{"Other":[]}`, wantFormat: true},
		{name: "top-level list", input: `[{"x":1}]`, wantFormat: true},
		{name: "top-level string", input: `"Data"`, wantFormat: true},
		{name: "invalid json", input: `{"Data":[`, wantFormat: false},
		{name: "empty input", input: ``, wantFormat: false},
		{name: "trailing text", input: `{"Data":[{"datetime":"01-01-2024 10:00"}]} trailing`, wantFormat: false},
		{name: "second document", input: `{"Data":[]} {"Data":[]}`, wantFormat: false},
		{name: "trailing bracket", input: `{"Data":[]}]`, wantFormat: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("DecodePayload() expected error")
			}
			if got := errors.Is(err, ErrDataFormat); got != tt.wantFormat {
				t.Errorf("errors.Is(err, ErrDataFormat) = %v, want %v (err: %v)", got, tt.wantFormat, err)
			}
			if !tt.wantFormat && MapError(err).Code != "FILE001" {
				t.Errorf("MapError code = %q, want FILE001 (err: %v)", MapError(err).Code, err)
			}
		})
	}
}

func TestReadPayload_MissingFile(t *testing.T) {
	_, err := ReadPayload(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
	if code := MapError(err).Code; code != "FILE002" {
		t.Errorf("MapError code = %q, want FILE002", code)
	}
}

// ----------------------------------------------------------------------------
// Extract Tests
// ----------------------------------------------------------------------------

func rowsFrom(t *testing.T, input string) []Row {
	t.Helper()
	rows, err := DecodePayload(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	return rows
}

func TestExtract(t *testing.T) {
	const input = `{"Data":[
		{"datetime":"01-01-2024 10:00","S_27_1":"1"},
		{"datetime":"Promedio","S_27_1":"2"},
		{"S_27_1":"3"},
		{"datetime":"01-01-2024 24:00","S_27_2":"4"},
		{"datetime":"01-01-2024 25:00","S_27_1":"5"},
		{"datetime":"01-01-2024 11:00","S_27_1":"6"}
	]}`

	tests := []struct {
		name        string
		opts        Options
		wantRows    int
		wantColumns []string
	}{
		{
			name:        "datetime filter",
			opts:        Options{},
			wantRows:    3,
			wantColumns: []string{"datetime", "S_27_1", "S_27_2"},
		},
		{
			name:        "row limit after filter",
			opts:        Options{Rows: 2},
			wantRows:    2,
			wantColumns: []string{"datetime", "S_27_1", "S_27_2"},
		},
		{
			name:        "limit above count",
			opts:        Options{Rows: 10},
			wantRows:    3,
			wantColumns: []string{"datetime", "S_27_1", "S_27_2"},
		},
		{
			name:        "all rows",
			opts:        Options{AllRows: true},
			wantRows:    6,
			wantColumns: []string{"datetime", "S_27_1", "S_27_2"},
		},
		{
			name:        "all rows with limit",
			opts:        Options{AllRows: true, Rows: 1},
			wantRows:    1,
			wantColumns: []string{"datetime", "S_27_1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Extract(rowsFrom(t, input), tt.opts)
			if len(ds.Rows) != tt.wantRows {
				t.Errorf("rows = %d, want %d", len(ds.Rows), tt.wantRows)
			}
			if !reflect.DeepEqual(ds.Columns, tt.wantColumns) {
				t.Errorf("columns = %v, want %v", ds.Columns, tt.wantColumns)
			}
		})
	}
}

func TestExtract_NoValidRows(t *testing.T) {
	ds := Extract(rowsFrom(t, `{"Data":[{"datetime":"Total"},{"x":1}]}`), Options{})
	if len(ds.Rows) != 0 || len(ds.Columns) != 0 {
		t.Errorf("dataset = %+v, want empty", ds)
	}
}

func TestNewDataset_ColumnUnion(t *testing.T) {
	ds := NewDataset([]Row{
		{Keys: []string{"b", "a"}},
		{Keys: []string{"c", "a"}},
		{Keys: []string{"datetime"}},
	})
	want := []string{"b", "a", "c", "datetime"}
	if !reflect.DeepEqual(ds.Columns, want) {
		t.Errorf("columns = %v, want %v", ds.Columns, want)
	}
	if !ds.HasColumn("c") || ds.HasColumn("z") {
		t.Error("HasColumn mismatch")
	}
}
