// Package codemap loads the station/code title mapping used to turn raw
// variable codes such as S_27_1 into readable column names.
//
// The mapping file lists stations by id, each with an optional display name
// and a set of codes carrying a label and a unit:
//
//	{"stations": {"27": {"name": "Bolivia",
//	                     "codes": {"S_27_1": {"label": "PM10", "unit": "µg/m3"}}}}}
//
// Files ending in .yml or .yaml are read as YAML with the same layout.
package codemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrMappingFile is returned when the mapping file is missing, unreadable or malformed.
var ErrMappingFile = errors.New("mapping file unavailable")

// codeRegex matches S_<stationId>_<varId>.
var codeRegex = regexp.MustCompile(`^S_(\d+)_(\d+)$`)

// Meta is the display metadata of one variable code.
type Meta struct {
	Label string
	Unit  string
}

// Tables holds the lookups built from a mapping file. Read-only after Load.
type Tables struct {
	Codes    map[string]Meta   // code -> label/unit
	Stations map[string]string // station id -> display name
}

type fileSchema struct {
	Stations map[string]stationEntry `json:"stations" yaml:"stations"`
}

type stationEntry struct {
	Name  *string              `json:"name" yaml:"name"`
	Codes map[string]codeEntry `json:"codes" yaml:"codes"`
}

type codeEntry struct {
	Label *string `json:"label" yaml:"label"`
	Unit  *string `json:"unit" yaml:"unit"`
}

// Load reads and parses the mapping file at path.
// A file without a "stations" key yields empty tables.
func Load(path string) (*Tables, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no path given", ErrMappingFile)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMappingFile, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMappingFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMappingFile, path, err)
	}

	var tables *Tables
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		tables, err = ParseYAML(data)
	default:
		tables, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMappingFile, path, err)
	}

	return tables, nil
}

// ParseJSON builds Tables from a JSON mapping document.
func ParseJSON(data []byte) (*Tables, error) {
	var doc fileSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc.tables(), nil
}

// ParseYAML builds Tables from a YAML mapping document.
func ParseYAML(data []byte) (*Tables, error) {
	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.tables(), nil
}

func (f fileSchema) tables() *Tables {
	t := &Tables{
		Codes:    make(map[string]Meta),
		Stations: make(map[string]string, len(f.Stations)),
	}

	for sid, entry := range f.Stations {
		name := sid
		if entry.Name != nil {
			name = *entry.Name
		}
		t.Stations[sid] = name

		for code, meta := range entry.Codes {
			m := Meta{Label: code}
			if meta.Label != nil {
				m.Label = *meta.Label
			}
			if meta.Unit != nil {
				m.Unit = *meta.Unit
			}
			t.Codes[code] = m
		}
	}

	return t
}

// Code returns the explicit metadata for code.
func (t *Tables) Code(code string) (Meta, bool) {
	if t == nil {
		return Meta{}, false
	}
	m, ok := t.Codes[code]
	return m, ok
}

// StationName returns the display name of a station, or the id itself if unknown.
func (t *Tables) StationName(id string) string {
	if t != nil {
		if name, ok := t.Stations[id]; ok {
			return name
		}
	}
	return id
}

// ParseCode splits a code of the form S_<stationId>_<varId>.
func ParseCode(code string) (stationID, varID string, ok bool) {
	m := codeRegex.FindStringSubmatch(code)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
