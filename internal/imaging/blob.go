// Package imaging isolates medical-image file handling behind a narrow
// interface: content sniffing, size/type validation and binary-to-text
// encoding. The wizard core never touches bytes directly, so it stays
// testable without real files.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/suyashkumar/dicom"
	"golang.org/x/image/webp"
)

// Content types accepted for medical images.
const (
	TypeJPEG  = "image/jpeg"
	TypePNG   = "image/png"
	TypeWebP  = "image/webp"
	TypeDICOM = "application/dicom"
)

// DefaultMaxBytes is the default upload ceiling (10 MiB).
const DefaultMaxBytes = 10 << 20

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
	dicmMagic = []byte("DICM")
)

// dicomPreambleLen is the 128-byte preamble plus the "DICM" marker.
const dicomPreambleLen = 132

// DetectContentType sniffs the blob's content type from its magic numbers.
// It returns the empty string for anything outside the allow-list.
func DetectContentType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return TypeJPEG
	case bytes.HasPrefix(data, pngMagic):
		return TypePNG
	case len(data) >= 12 && bytes.Equal(data[:4], riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return TypeWebP
	case len(data) >= dicomPreambleLen && bytes.Equal(data[128:132], dicmMagic):
		return TypeDICOM
	}
	return ""
}

// Validate checks a blob against the size ceiling and the content-type
// allow-list, then verifies the payload actually decodes as what it claims
// to be. maxBytes <= 0 means DefaultMaxBytes. The returned error message is
// user-facing and inline-displayable.
func Validate(data []byte, maxBytes int64) (contentType string, err error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty")
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("file is %s, the limit is %s",
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(maxBytes)))
	}

	ct := DetectContentType(data)
	if ct == "" {
		return "", fmt.Errorf("unsupported file type: expected JPEG, PNG, WebP or DICOM")
	}

	switch ct {
	case TypeDICOM:
		if _, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil); err != nil {
			return "", fmt.Errorf("file looks like DICOM but does not parse: %w", err)
		}
	case TypeWebP:
		if _, err := webp.DecodeConfig(bytes.NewReader(data)); err != nil {
			return "", fmt.Errorf("file looks like WebP but does not decode: %w", err)
		}
	}

	return ct, nil
}

// ReadFile loads and validates a blob from disk in one step.
func ReadFile(path string, maxBytes int64) (data []byte, contentType string, err error) {
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	ct, err := Validate(data, maxBytes)
	if err != nil {
		return nil, "", err
	}
	return data, ct, nil
}

// EncodeDataURI encodes the blob as a content-type-prefixed base64 data URI,
// the portable form the analysis service accepts.
func EncodeDataURI(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}
