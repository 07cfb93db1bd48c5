package plot

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// drawLine is Bresenham's line algorithm, endpoints included
func drawLine(img *image.RGBA, from, to image.Point, c color.Color) {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	err := dx + dy
	x, y := from.X, from.Y
	for {
		img.Set(x, y, c)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func fillCircle(img *image.RGBA, center image.Point, radius int, c color.Color) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				img.Set(center.X+x, center.Y+y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func drawAxes(img *image.RGBA, f frame) {
	axis := color.Black
	origin := image.Pt(f.area.Min.X, f.area.Max.Y-1)
	drawLine(img, origin, image.Pt(f.area.Max.X-1, origin.Y), axis)
	drawLine(img, origin, image.Pt(origin.X, f.area.Min.Y), axis)

	text := &font.Drawer{Dst: img, Src: image.NewUniform(axis), Face: basicfont.Face7x13}
	for i := 0; i < tickCount; i++ {
		share := float64(i) / float64(tickCount-1)

		x := f.project(share*f.maxX, 0)
		drawLine(img, x, image.Pt(x.X, x.Y+4), axis)
		label := fmt.Sprintf("%.0f", share*f.maxX)
		text.Dot = fixed.P(x.X-font.MeasureString(text.Face, label).Round()/2, x.Y+xLabelArea-2)
		text.DrawString(label)

		y := f.project(0, share*f.maxY)
		drawLine(img, y, image.Pt(y.X-4, y.Y), axis)
		label = fmt.Sprintf("%.3f", share*f.maxY)
		text.Dot = fixed.P(y.X-6-font.MeasureString(text.Face, label).Round(), y.Y+4)
		text.DrawString(label)
	}
}
