// Package render draws slide bitmaps into terminal cells.
//
// Each character cell carries two vertically stacked pixels using the
// upper-half-block glyph: the foreground colour paints the top pixel
// and the background colour the bottom one. A bitmap rendered for a
// pane of W x H cells must therefore be W x 2H pixels.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

const upperHalfBlock = "▀"

// CellSize converts a pane size in terminal cells into the pixel size
// a bitmap must be rasterized at to fill it.
func CellSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Bitmap renders an image as half-block rows. The image is sampled
// pixel for pixel; scaling to the pane size is the rasterizer's job.
func Bitmap(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.At(x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = img.At(x, y+1)
			}
			writeCell(&sb, top, bottom)
		}
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

// Blank renders a solid black pane, the audience view while blanked.
func Blank(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	row := "\x1b[38;2;0;0;0m\x1b[48;2;0;0;0m" +
		strings.Repeat(upperHalfBlock, cols) + "\x1b[0m"
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = row
	}
	return strings.Join(lines, "\n")
}

// writeCell emits one half-block cell with raw 24-bit colour codes.
// A full pane is on the order of 12k cells per frame.
func writeCell(sb *strings.Builder, top, bottom color.Color) {
	tr, tg, tb := rgb8(top)
	br, bg, bb := rgb8(bottom)
	fmt.Fprintf(sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
		tr, tg, tb, br, bg, bb, upperHalfBlock)
}

func rgb8(c color.Color) (r, g, b uint8) {
	r16, g16, b16, _ := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}
