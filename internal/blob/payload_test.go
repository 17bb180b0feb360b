package blob

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gifHeader  = []byte("GIF89a")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	pdfHeader  = []byte("%PDF-1.7")
	docxHeader = []byte{0x50, 0x4B, 0x03, 0x04}
	docHeader  = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

func TestPayloadFromString(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantErr    bool
		wantBytes  []byte
		wantFormat string
	}{
		{
			name:       "bare base64",
			input:      base64.StdEncoding.EncodeToString(pngHeader),
			wantBytes:  pngHeader,
			wantFormat: "png",
		},
		{
			name:       "data URL with declared mime",
			input:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader),
			wantBytes:  pngHeader,
			wantFormat: "png",
		},
		{
			name:       "declared mime wins over signature",
			input:      "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("random")),
			wantBytes:  []byte("random"),
			wantFormat: "pdf",
		},
		{
			name:    "data URL without separator",
			input:   "data:image/png;base64",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			input:   "!!not-base64!!",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PayloadFromString(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantBytes, p.Bytes())
			assert.Equal(t, tc.wantFormat, p.Format())
		})
	}
}

func TestPayloadFormatSniffing(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", pngHeader, "png"},
		{"gif", gifHeader, "gif"},
		{"jpeg e0", jpegHeader, "jpg"},
		{"jpeg e1", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00}, "jpg"},
		{"pdf", pdfHeader, "pdf"},
		{"docx", docxHeader, "docx"},
		{"legacy doc", docHeader, "doc"},
		{"unknown signature", []byte("plain text"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PayloadFromBytes(tc.data).Format())
		})
	}
}

func TestIsImageFormat(t *testing.T) {
	assert.True(t, IsImageFormat("png"))
	assert.True(t, IsImageFormat("jpg"))
	assert.False(t, IsImageFormat("pdf"))
	assert.False(t, IsImageFormat(FormatUnknown))
}
