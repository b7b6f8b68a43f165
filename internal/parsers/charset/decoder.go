package charset

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingUTF16LE     Encoding = "utf-16le"
	EncodingUTF16BE     Encoding = "utf-16be"
	EncodingWindows1252 Encoding = "windows-1252"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding detects the encoding of a byte buffer.
// Spreadsheet exports are either UTF-8 (often with BOM), UTF-16 with BOM,
// or a Windows code page; anything that is not valid UTF-8 is Windows-1252.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		return EncodingWindows1252
	}
}

// Decode converts a byte buffer from the specified encoding to a UTF-8 string
// without byte order mark
func Decode(data []byte, enc Encoding) (string, error) {
	if enc == EncodingUTF8 || enc == "" {
		data = bytes.TrimPrefix(data, bomUTF8)
		if utf8.Valid(data) {
			return string(data), nil
		}
		// Mislabelled file, fall back to the Windows code page
		enc = EncodingWindows1252
	}

	decoder, err := decoderFor(enc)
	if err != nil {
		return "", err
	}

	result, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s content: %w", enc, err)
	}
	return string(bytes.TrimPrefix(result, bomUTF8)), nil
}

func decoderFor(enc Encoding) (encoding.Encoding, error) {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	case EncodingWindows1252:
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", enc)
	}
}
