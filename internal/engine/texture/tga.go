// Package texture decodes footprint source images (TGA, PNG, JPEG, BMP,
// TIFF and WebP) for the canvas material path.
package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeRLE          = 10 // RLE compressed true-color
	TGATypeRLEGray      = 11 // RLE compressed grayscale
)

const (
	tgaHeaderSize            = 18
	tgaDescriptorTopToBottom = 0x20
)

// tgaHeader holds the fields of a TGA header the decoder uses.
type tgaHeader struct {
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func (h tgaHeader) gray() bool {
	return h.imageType == TGATypeGray || h.imageType == TGATypeRLEGray
}

func (h tgaHeader) rle() bool {
	return h.imageType == TGATypeRLE || h.imageType == TGATypeRLEGray
}

func parseTGAHeader(data []byte) (tgaHeader, int, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, 0, fmt.Errorf("TGA data too short")
	}
	if data[1] != 0 {
		return tgaHeader{}, 0, fmt.Errorf("color-mapped TGA not supported")
	}
	h := tgaHeader{
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&tgaDescriptorTopToBottom != 0,
	}
	switch h.imageType {
	case TGATypeUncompressed, TGATypeRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, 0, fmt.Errorf("unsupported TGA bit depth %d for true-color", h.bpp)
		}
	case TGATypeGray, TGATypeRLEGray:
		if h.bpp != 8 {
			return h, 0, fmt.Errorf("unsupported TGA bit depth %d for grayscale", h.bpp)
		}
	default:
		return h, 0, fmt.Errorf("unsupported TGA type %d", h.imageType)
	}
	if h.width == 0 || h.height == 0 {
		return h, 0, fmt.Errorf("empty TGA image %dx%d", h.width, h.height)
	}

	offset := tgaHeaderSize + int(data[0])
	if offset > len(data) {
		return h, 0, fmt.Errorf("TGA data truncated")
	}
	return h, offset, nil
}

// DecodeTGA decodes a TGA image. Grayscale files decode to *image.Gray,
// true-color files to *image.NRGBA.
func DecodeTGA(data []byte) (image.Image, error) {
	h, offset, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, h.width, h.height)
	var set func(x, y int, px []byte)
	var img image.Image
	if h.gray() {
		g := image.NewGray(bounds)
		set = func(x, y int, px []byte) { g.SetGray(x, y, color.Gray{Y: px[0]}) }
		img = g
	} else {
		n := image.NewNRGBA(bounds)
		set = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			n.SetNRGBA(x, y, color.NRGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		img = n
	}

	// put writes the i-th pixel in file order, flipping bottom-up files.
	put := func(i int, px []byte) {
		x, y := i%h.width, i/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		set(x, y, px)
	}

	pixels := data[offset:]
	bytesPerPixel := h.bpp / 8
	count := h.width * h.height
	if h.rle() {
		err = decodeTGARLE(pixels, count, bytesPerPixel, put)
	} else {
		if len(pixels) < count*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < count; i++ {
			put(i, pixels[i*bytesPerPixel:(i+1)*bytesPerPixel])
		}
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// decodeTGARLE expands run-length packets into count pixels.
func decodeTGARLE(data []byte, count, bytesPerPixel int, put func(int, []byte)) error {
	pixel := 0
	i := 0
	for pixel < count {
		if i >= len(data) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, count)
		}
		packet := data[i]
		i++
		n := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated n times
			if i+bytesPerPixel > len(data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, count)
			}
			px := data[i : i+bytesPerPixel]
			i += bytesPerPixel
			for j := 0; j < n && pixel < count; j++ {
				put(pixel, px)
				pixel++
			}
			continue
		}

		// Raw: n literal pixels
		for j := 0; j < n && pixel < count; j++ {
			if i+bytesPerPixel > len(data) {
				return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", pixel, count)
			}
			put(pixel, data[i:i+bytesPerPixel])
			i += bytesPerPixel
			pixel++
		}
	}
	return nil
}
