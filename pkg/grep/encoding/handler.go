// Package encoding decodes source files to UTF-8 before they are scanned and
// sniffs files that are likely binary.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// SniffLen is the number of leading bytes a caller should hand to IsBinary.
	SniffLen = 1024
	// mimeSniffLen is the number of bytes used by http.DetectContentType.
	mimeSniffLen = 512
	// Null byte threshold percentage to consider a file binary.
	nullThreshold = 0.15 // 15%
)

// Map of common text-based MIME type prefixes for quick lookup in IsBinary.
var knownTextMIMEPrefixes = map[string]bool{
	"application/json":       true,
	"application/xml":        true,
	"application/javascript": true,
	"application/yaml":       true,
	"application/toml":       true,
	"application/csv":        true,
	"application/sql":        true,
	"application/rtf":        true,
	"image/svg+xml":          true,
}

// Handler converts file content to UTF-8 and detects binary data.
type Handler interface {
	// NewReader wraps r so that reads yield UTF-8. The passthrough handler returns r unchanged.
	NewReader(r io.Reader) io.Reader
	// IsBinary reports whether sample (the first SniffLen raw bytes of a file) looks binary,
	// based on MIME sniffing and the share of NUL bytes. The sample is decoded first, so
	// wide encodings such as UTF-16 are judged by their text rather than their zero bytes.
	IsBinary(sample []byte) bool
	// Name returns the canonical name of the source encoding, "" for passthrough.
	Name() string
}

// charsetHandler implements Handler using golang.org/x/net/html/charset.
// A zero value is the passthrough handler.
type charsetHandler struct {
	name string
	dec  func() transform.Transformer // nil for passthrough
}

// NewCharsetHandler returns a Handler for the encoding label name (e.g. "latin1",
// "shift_jis", "utf-16le"). An empty name yields a passthrough handler that leaves
// bytes untouched.
func NewCharsetHandler(name string) (Handler, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		return &charsetHandler{}, nil
	}
	enc, canonical := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return &charsetHandler{
		name: canonical,
		dec:  func() transform.Transformer { return enc.NewDecoder() },
	}, nil
}

// NewReader implements Handler.
func (h *charsetHandler) NewReader(r io.Reader) io.Reader {
	if h.dec == nil {
		return r
	}
	return transform.NewReader(r, h.dec())
}

// Name implements Handler.
func (h *charsetHandler) Name() string { return h.name }

// isMIMETextBased checks if a detected MIME type is likely text-based.
func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	if knownTextMIMEPrefixes[mimeType] {
		return true
	}
	if strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json") {
		return true
	}
	// octet-stream is inconclusive; the NUL check decides.
	return mimeType == "application/octet-stream"
}

// IsBinary implements Handler.
func (h *charsetHandler) IsBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if len(sample) > SniffLen {
		sample = sample[:SniffLen]
	}
	if h.dec != nil {
		// The sample may end inside a multi-byte sequence; whatever decoded is enough.
		if decoded, _, _ := transform.Bytes(h.dec(), sample); len(decoded) > 0 {
			sample = decoded
		}
	}
	head := sample
	if len(head) > mimeSniffLen {
		head = head[:mimeSniffLen]
	}
	if !isMIMETextBased(http.DetectContentType(head)) {
		return true
	}
	nullCount := bytes.Count(sample, []byte{0x00})
	return float64(nullCount)/float64(len(sample)) > nullThreshold
}
