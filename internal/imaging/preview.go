package imaging

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Preview is a terminal-renderable summary of an attached image.
type Preview struct {
	Width  int
	Height int
	// ASCII is a downscaled luminance rendering, empty for DICOM blobs
	// whose pixel data we only describe.
	ASCII string
}

// luminance ramp from dark to light.
const asciiRamp = " .:-=+*#%@"

// Render builds a preview of the blob for the review screen. cols bounds the
// character width of the ASCII rendering; terminal cells are roughly twice as
// tall as wide, so rows are halved to keep the aspect.
func Render(data []byte, contentType string, cols int) (*Preview, error) {
	if cols <= 0 {
		cols = 40
	}
	if contentType == TypeDICOM {
		return renderDICOM(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	p := &Preview{Width: bounds.Dx(), Height: bounds.Dy()}
	if p.Width == 0 || p.Height == 0 {
		return p, nil
	}

	rows := cols * p.Height / p.Width / 2
	if rows < 1 {
		rows = 1
	}
	small := image.NewGray(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, bounds, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g := small.GrayAt(x, y).Y
			sb.WriteByte(asciiRamp[int(g)*(len(asciiRamp)-1)/255])
		}
		if y < rows-1 {
			sb.WriteByte('\n')
		}
	}
	p.ASCII = sb.String()
	return p, nil
}

// renderDICOM reports the matrix size from the dataset headers.
func renderDICOM(data []byte) (*Preview, error) {
	ds, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return nil, fmt.Errorf("parsing DICOM: %w", err)
	}

	p := &Preview{}
	if elem, err := ds.FindElementByTag(tag.Rows); err == nil {
		p.Height = elementInt(elem.Value.GetValue())
	}
	if elem, err := ds.FindElementByTag(tag.Columns); err == nil {
		p.Width = elementInt(elem.Value.GetValue())
	}
	return p, nil
}

// elementInt extracts a scalar from the untyped value shapes the DICOM
// library returns for numeric tags.
func elementInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case []int:
		if len(t) > 0 {
			return t[0]
		}
	}
	return 0
}
