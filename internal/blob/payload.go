package blob

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// FormatUnknown marks a payload whose signature matched nothing known.
const FormatUnknown = "unknown"

// Payload is a normalized binary asset plus the MIME type declared by the
// caller, if any. Construct it with PayloadFromBytes or PayloadFromString.
type Payload struct {
	data         []byte
	declaredMIME string
}

// PayloadFromBytes wraps a raw byte buffer.
func PayloadFromBytes(data []byte) Payload {
	return Payload{data: data}
}

// PayloadFromString normalizes a bare base64 string or a
// "data:<mime>;base64,..." data URL into a byte payload.
func PayloadFromString(input string) (Payload, error) {
	var declaredMIME string

	if strings.HasPrefix(input, "data:") {
		rest := strings.TrimPrefix(input, "data:")

		meta, encoded, found := strings.Cut(rest, ",")
		if !found {
			return Payload{}, errors.New("malformed data URL: missing comma separator")
		}

		declaredMIME = strings.TrimSuffix(meta, ";base64")
		input = encoded
	}

	data, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return Payload{}, errors.Wrap(err, "failed to decode base64 payload")
	}

	return Payload{data: data, declaredMIME: declaredMIME}, nil
}

// Size returns the payload size in bytes.
func (p Payload) Size() int64 {
	return int64(len(p.data))
}

// Bytes returns the normalized payload content.
func (p Payload) Bytes() []byte {
	return p.data
}

// Format detects the payload format. A declared MIME type wins for string
// input; binary input is sniffed against known magic numbers. Anything
// unrecognized reports FormatUnknown.
func (p Payload) Format() string {
	if p.declaredMIME != "" {
		if f, ok := mimeFormats[p.declaredMIME]; ok {
			return f
		}
	}

	return sniffFormat(p.data)
}

var mimeFormats = map[string]string{
	"image/jpeg":         "jpg",
	"image/jpg":          "jpg",
	"image/png":          "png",
	"image/gif":          "gif",
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

var magicNumbers = []struct {
	prefix []byte
	format string
}{
	{[]byte{0x89, 0x50, 0x4E, 0x47}, "png"},
	{[]byte{0x47, 0x49, 0x46, 0x38}, "gif"},
	{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpg"},
	{[]byte{0xFF, 0xD8, 0xFF, 0xE1}, "jpg"},
	{[]byte{0x25, 0x50, 0x44, 0x46}, "pdf"},
	{[]byte{0x50, 0x4B, 0x03, 0x04}, "docx"},
	{[]byte{0xD0, 0xCF, 0x11, 0xE0}, "doc"},
}

func sniffFormat(data []byte) string {
	for _, m := range magicNumbers {
		if bytes.HasPrefix(data, m.prefix) {
			return m.format
		}
	}

	return FormatUnknown
}

// imageFormats are the formats eligible for store-side optimization and
// dimension detection.
var imageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// IsImageFormat reports whether format is a known image format.
func IsImageFormat(format string) bool {
	return imageFormats[format]
}
