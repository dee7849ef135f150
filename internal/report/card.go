package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Summary card dimensions, the standard Open Graph size.
const (
	cardWidth  = 1200
	cardHeight = 630
)

// CardData carries the headline numbers drawn on the summary card.
type CardData struct {
	TheftCount int
	YearFrom   int
	YearTo     int
	PeakHour   int
	TopStreet  string
}

// GenerateCard renders a shareable summary image: a dark gradient
// background with the headline figures overlaid.
func GenerateCard(data CardData) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))

	// Dark blue vertical gradient.
	for y := 0; y < cardHeight; y++ {
		progress := float64(y) / float64(cardHeight)
		r := uint8(16 + progress*12)
		g := uint8(20 + progress*16)
		b := uint8(38 + progress*24)
		for x := 0; x < cardWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{200, 200, 200, 255}

	drawText(img, fmt.Sprintf("%d auto thefts, %d-%d", data.TheftCount, data.YearFrom, data.YearTo), 60, 240, white)
	drawText(img, fmt.Sprintf("Peak hour: %02d:00", data.PeakHour), 60, 300, lightGray)
	if data.TopStreet != "" {
		drawText(img, fmt.Sprintf("Worst street: %s", data.TopStreet), 60, 340, lightGray)
	}
	drawText(img, "where is it safe to park?", 60, cardHeight-60, lightGray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode summary card: %w", err)
	}
	return buf.Bytes(), nil
}

// drawText draws text at the given position with the bitmap face. The card
// carries a handful of short lines, so the fixed-width face is enough and
// spares us shipping font assets.
func drawText(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
