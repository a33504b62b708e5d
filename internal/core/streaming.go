package core

// streaming.go handles the UTF-8 byte order mark on both sides of a conversion:
//
//   - BOMSkippingReader: removes a leading BOM from input exports written by
//     Windows tools, which the JSON decoder would otherwise reject
//   - writeBOM: prefixes CSV output so spreadsheet programs detect UTF-8

import "io"

// utf8BOM is the UTF-8 encoding of U+FEFF.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	bufData    []byte // Bytes read during the BOM check that still need returning
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{
		reader: r,
	}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}

		if n == 3 && r.buf[0] == utf8BOM[0] && r.buf[1] == utf8BOM[1] && r.buf[2] == utf8BOM[2] {
			r.bufData = nil
		} else {
			r.bufData = r.buf[:n]
		}

		if err == io.EOF && len(r.bufData) == 0 {
			return 0, io.EOF
		}
	}

	if len(r.bufData) > 0 {
		copied := copy(p, r.bufData)
		r.bufData = r.bufData[copied:]
		return copied, nil
	}

	return r.reader.Read(p)
}

// writeBOM writes the UTF-8 byte order mark to w.
func writeBOM(w io.Writer) error {
	_, err := w.Write(utf8BOM)
	return err
}
