package core

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ReadPayload opens a JSON export and returns its object rows.
func ReadPayload(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	defer f.Close()

	return DecodePayload(f)
}

// DecodePayload decodes an export and returns the object rows of its "Data"
// list, falling back to "data" when "Data" is absent, not a list, or empty.
// Entries that are not JSON objects are dropped.
func DecodePayload(r io.Reader) ([]Row, error) {
	dec := json.NewDecoder(NewBOMSkippingReader(r))

	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("decode payload: empty input")
		}
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	// Only whitespace may follow the document
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("decode payload: unexpected data after JSON document")
	}
	if !isObject(doc) {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrDataFormat)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	list, ok := pickRowList(payload)
	if !ok {
		return nil, fmt.Errorf("%w: no list under \"Data\" or \"data\"", ErrDataFormat)
	}

	rows := make([]Row, 0, len(list))
	for i, raw := range list {
		if !isObject(raw) {
			continue
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("decode payload: row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func pickRowList(payload map[string]json.RawMessage) ([]json.RawMessage, bool) {
	upper, upperOK := rawList(payload["Data"])
	if upperOK && len(upper) > 0 {
		return upper, true
	}
	if lower, ok := rawList(payload["data"]); ok {
		return lower, true
	}
	return upper, upperOK
}

func rawList(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, false
	}
	return list, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeRow decodes one row object, keeping numbers verbatim and recording
// the order in which keys appear.
func decodeRow(raw json.RawMessage) (Row, error) {
	values := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return Row{}, err
	}

	keys, err := objectKeys(raw, len(values))
	if err != nil {
		return Row{}, err
	}

	return Row{Keys: keys, Values: values}, nil
}

// objectKeys lists the top-level keys of a JSON object in document order.
// Duplicate keys are reported once, at their first position.
func objectKeys(raw json.RawMessage, hint int) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, hint)
	seen := make(map[string]bool, hint)
	depth := 1
	expectKey := true

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 1 {
					expectKey = true
				}
			}
			continue
		}

		if depth != 1 {
			continue
		}
		if expectKey {
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", tok)
			}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			expectKey = false
		} else {
			expectKey = true
		}
	}

	return keys, nil
}

// Extract applies the datetime filter and row limit, preserving order.
func Extract(rows []Row, opts Options) *Dataset {
	kept := rows
	if !opts.AllRows {
		kept = make([]Row, 0, len(rows))
		for _, r := range rows {
			v, ok := r.Get(DatetimeColumn)
			if ok && IsTimestampToken(toText(v)) {
				kept = append(kept, r)
			}
		}
	}

	if opts.Rows > 0 && len(kept) > opts.Rows {
		kept = kept[:opts.Rows]
	}

	return NewDataset(kept)
}
