package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected Encoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 'i', 'd'}, EncodingUTF8},
		{"UTF-16LE BOM", []byte{0xFF, 0xFE, 'i', 0x00}, EncodingUTF16LE},
		{"UTF-16BE BOM", []byte{0xFE, 0xFF, 0x00, 'i'}, EncodingUTF16BE},
		{"Plain ASCII", []byte("id,title"), EncodingUTF8},
		{"Windows-1252 e acute", []byte{'c', 'a', 'f', 0xE9}, EncodingWindows1252},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.content))
		})
	}
}

func TestDecodeStripsBOM(t *testing.T) {
	decoded, err := Decode([]byte{0xEF, 0xBB, 0xBF, 'i', 'd'}, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "id", decoded)
}

func TestDecodeWindows1252(t *testing.T) {
	decoded, err := Decode([]byte{'c', 'a', 'f', 0xE9}, EncodingWindows1252)
	require.NoError(t, err)
	assert.Equal(t, "café", decoded)
}

func TestDecodeMislabelledUTF8FallsBack(t *testing.T) {
	decoded, err := Decode([]byte{'c', 'a', 'f', 0xE9}, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "café", decoded)
}

func TestDecodeUTF16LE(t *testing.T) {
	decoded, err := Decode([]byte{0xFF, 0xFE, 'i', 0x00, 'd', 0x00}, EncodingUTF16LE)
	require.NoError(t, err)
	assert.Equal(t, "id", decoded)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode([]byte("x"), Encoding("ebcdic"))
	assert.Error(t, err)
}
