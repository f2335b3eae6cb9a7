package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canvas geometry, matching the fixed summary layout.
const (
	canvasWidth  = 800
	canvasHeight = 600

	titleFontSize = 40
	bodyFontSize  = 24
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// faces holds the parsed title and body font faces.
type faces struct {
	title font.Face
	body  font.Face
}

// newFaces parses the embedded Go Regular font at both sizes.
func newFaces() (*faces, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	title, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: titleFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create title face: %w", err)
	}

	body, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: bodyFontSize, DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create body face: %w", err)
	}

	return &faces{title: title, body: body}, nil
}

// newCanvas creates the black summary canvas.
func newCanvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

// drawText draws text with its baseline at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(white),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawTextCentered draws text horizontally centered with baseline at y.
func drawTextCentered(dst draw.Image, face font.Face, y int, text string) {
	width := font.MeasureString(face, text).Round()
	drawText(dst, face, (canvasWidth-width)/2, y, text)
}

// drawThumbnail copies a flag thumbnail onto the canvas at (x, y).
func drawThumbnail(dst draw.Image, thumb image.Image, x, y int) {
	r := image.Rect(x, y, x+thumb.Bounds().Dx(), y+thumb.Bounds().Dy())
	draw.Draw(dst, r, thumb, thumb.Bounds().Min, draw.Src)
}
