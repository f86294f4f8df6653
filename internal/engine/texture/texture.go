// Package texture loads the globe's surface image. Files are decoded on
// the CPU into RGBA; uploading to the GPU is the renderer's job.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// Load reads an image file and converts it to RGBA.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes image data. name is only used to recognise TGA files,
// which carry no magic number.
func Decode(data []byte, name string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Fit scales img down so neither side exceeds maxSize, keeping the aspect
// ratio. Images that already fit are returned unchanged.
func Fit(img *image.RGBA, maxSize int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Palette of the generated fallback texture.
var (
	OceanColor     = color.RGBA{R: 18, G: 54, B: 110, A: 255}
	IceColor       = color.RGBA{R: 230, G: 238, B: 245, A: 255}
	GraticuleColor = color.RGBA{R: 90, G: 140, B: 200, A: 255}
)

// Procedural returns an equirectangular stand-in for a real earth image: a
// dark ocean with polar caps and a 30 degree graticule. It is used when no
// texture is configured or the configured file cannot be loaded.
func Procedural(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: OceanColor}, image.Point{}, draw.Src)

	// Caps cover latitudes above 75 degrees.
	capRows := height * 15 / 180
	draw.Draw(img, image.Rect(0, 0, width, capRows), &image.Uniform{C: IceColor}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, height-capRows, width, height), &image.Uniform{C: IceColor}, image.Point{}, draw.Src)

	for deg := 0; deg < 360; deg += 30 {
		x := deg * width / 360
		for y := capRows; y < height-capRows; y++ {
			img.SetRGBA(x, y, GraticuleColor)
		}
	}
	for deg := 30; deg < 180; deg += 30 {
		y := deg * height / 180
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, GraticuleColor)
		}
	}
	return img
}
