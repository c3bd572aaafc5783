package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stackvity/specific-grep/pkg/grep/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Helper function to encode string to specified encoding bytes
func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	encoded, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return encoded
}

func TestNewCharsetHandler_PassthroughLeavesBytesUntouched(t *testing.T) {
	handler, err := encoding.NewCharsetHandler("")
	require.NoError(t, err)
	assert.Empty(t, handler.Name())

	input := []byte{'c', 'a', 'f', 0xE9, '\n'} // not valid UTF-8 on purpose
	out, err := io.ReadAll(handler.NewReader(bytes.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestNewCharsetHandler_DecodesLatin1(t *testing.T) {
	handler, err := encoding.NewCharsetHandler("latin1")
	require.NoError(t, err)
	assert.NotEmpty(t, handler.Name())

	input := encodeBytes(t, "café au lait\n", charmap.ISO8859_1.NewEncoder())
	out, err := io.ReadAll(handler.NewReader(bytes.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "café au lait\n", string(out))
}

func TestNewCharsetHandler_DecodesUTF16LE(t *testing.T) {
	handler, err := encoding.NewCharsetHandler("utf-16le")
	require.NoError(t, err)

	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	input := encodeBytes(t, "needle\nhay\n", enc)
	out, err := io.ReadAll(handler.NewReader(bytes.NewReader(input)))
	require.NoError(t, err)
	assert.Equal(t, "needle\nhay\n", string(out))
}

func TestNewCharsetHandler_UnknownLabel(t *testing.T) {
	_, err := encoding.NewCharsetHandler("definitely-not-an-encoding")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestIsBinary(t *testing.T) {
	handler, err := encoding.NewCharsetHandler("")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		sample []byte
		want   bool
	}{
		{name: "empty", sample: nil, want: false},
		{name: "plain text", sample: []byte("hello world\nsecond line\n"), want: false},
		{name: "json", sample: []byte(`{"key": "value"}`), want: false},
		{name: "png header", sample: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: true},
		{name: "mostly nul", sample: bytes.Repeat([]byte{0x00, 'a'}, 200), want: true},
		{name: "long text beyond sniff window", sample: []byte(strings.Repeat("abc\n", 1000)), want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, handler.IsBinary(tc.sample))
		})
	}
}

func TestIsBinary_DecodesBeforeSniffing(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	sample := encodeBytes(t, strings.Repeat("needle here\n", 20), enc)

	passthrough, err := encoding.NewCharsetHandler("")
	require.NoError(t, err)
	assert.True(t, passthrough.IsBinary(sample), "Raw UTF-16 is half NUL bytes")

	utf16, err := encoding.NewCharsetHandler("utf-16le")
	require.NoError(t, err)
	assert.False(t, utf16.IsBinary(sample))
	assert.False(t, utf16.IsBinary(sample[:len(sample)-1]), "A sample cut mid code unit is still text")
	assert.True(t, utf16.IsBinary(make([]byte, 256)), "Zero-filled data decodes to NUL characters")
}
