package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA image
// with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header needs %d bytes, got %d", tgaHeaderSize, len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	width       int
	height      int
	bpp         int
	topToBottom bool
	pixel       int
}

func (d *tgaDecoder) read() (color.RGBA, bool) {
	if d.pos+d.bpp > len(d.src) {
		return color.RGBA{}, false
	}
	p := d.src[d.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bpp == 4 {
		c.A = p[3]
	}
	d.pos += d.bpp
	return c, true
}

// put stores the next pixel in file order. TGA rows are bottom-up unless
// the descriptor says otherwise.
func (d *tgaDecoder) put(c color.RGBA) {
	x := d.pixel % d.width
	y := d.pixel / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.pixel++
}

func (d *tgaDecoder) raw() error {
	total := d.width * d.height
	if len(d.src) < total*d.bpp {
		return errTGATruncated
	}
	for d.pixel < total {
		c, _ := d.read()
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	total := d.width * d.height
	for d.pixel < total {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated.
			c, ok := d.read()
			if !ok {
				return errTGATruncated
			}
			for i := 0; i < count && d.pixel < total; i++ {
				d.put(c)
			}
			continue
		}

		for i := 0; i < count && d.pixel < total; i++ {
			c, ok := d.read()
			if !ok {
				return errTGATruncated
			}
			d.put(c)
		}
	}
	return nil
}
