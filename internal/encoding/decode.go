// Package encoding turns bank exports of unknown charset into UTF-8 text.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// charsets maps chardet names to decoders. UTF-8 is handled before detection.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Decode reads all of r and returns it as UTF-8.
//
// A UTF-8 BOM is stripped and UTF-16 BOMs select a UTF-16 decoder. Content that
// is valid UTF-8 as a whole passes through. Anything else goes through chardet
// and falls back to Windows-1252, the usual charset of Canadian bank exports.
func Decode(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return bytes.NewReader(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return transform.NewReader(bytes.NewReader(data), unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return transform.NewReader(bytes.NewReader(data), unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}

	enc := encoding.Encoding(charmap.Windows1252)
	if res, err := chardet.NewTextDetector().DetectBest(data); err == nil {
		if e, ok := charsets[res.Charset]; ok {
			enc = e
		}
	}
	return transform.NewReader(bytes.NewReader(data), enc.NewDecoder()), nil
}
