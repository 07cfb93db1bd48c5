// Package plot renders the average fitness of a run as a PNG chart.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/mazznoer/colorgrad"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/they4kman/gensolve/genetic"
)

const (
	xLabelArea  = 20
	yLabelArea  = 60
	captionArea = 30
	tickCount   = 5
	pointRadius = 5
	// the axes run this far past the largest sample on each side
	axisPadding = 3
)

var ErrNoSamples = errors.New("plot: no samples to draw")

type Options struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Margin  int    `toml:"margin"`
	Caption string `toml:"caption"`
	// Colors overrides the point gradient, as HTML colours. Empty means viridis.
	Colors []string `toml:"colors"`
	// Labels annotates every point with its coordinates
	Labels bool `toml:"labels"`
}

func DefaultOptions() Options {
	return Options{
		Width:   1200,
		Height:  1200,
		Margin:  12,
		Caption: "Gensolve plot",
		Labels:  true,
	}
}

func (o Options) gradient() (grad colorgrad.Gradient, err error) {
	if len(o.Colors) == 0 {
		return colorgrad.Viridis(), nil
	}
	grad, err = colorgrad.NewGradient().HtmlColors(o.Colors...).Build()
	if err != nil {
		err = fmt.Errorf("plot: gradient %v: %w", o.Colors, err)
	}
	return grad, err
}

// frame maps sample coordinates onto the plot area of the canvas
type frame struct {
	area       image.Rectangle
	maxX, maxY float64
}

func newFrame(samples []genetic.Sample, opts Options) frame {
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range samples {
		maxX = math.Max(maxX, float64(s.Iteration))
		maxY = math.Max(maxY, s.AvgFitness)
	}

	return frame{
		area: image.Rect(
			opts.Margin+yLabelArea,
			opts.Margin+captionArea,
			opts.Width-opts.Margin,
			opts.Height-opts.Margin-xLabelArea,
		),
		maxX: maxX + axisPadding,
		maxY: maxY + axisPadding,
	}
}

func (f frame) project(x, y float64) image.Point {
	return image.Point{
		X: f.area.Min.X + int(math.Round(x/f.maxX*float64(f.area.Dx()-1))),
		Y: f.area.Max.Y - 1 - int(math.Round(y/f.maxY*float64(f.area.Dy()-1))),
	}
}

// Draw renders the chart of samples onto a new image
func Draw(samples []genetic.Sample, opts Options) (*image.RGBA, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if opts.Width <= 2*opts.Margin+yLabelArea || opts.Height <= 2*opts.Margin+captionArea+xLabelArea {
		return nil, fmt.Errorf("plot: %dx%d canvas is too small", opts.Width, opts.Height)
	}

	grad, err := opts.gradient()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fill(img, img.Bounds(), color.White)

	f := newFrame(samples, opts)
	drawAxes(img, f)

	text := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: basicfont.Face7x13}
	captionWidth := font.MeasureString(text.Face, opts.Caption).Round()
	text.Dot = fixed.P((opts.Width-captionWidth)/2, opts.Margin+captionArea/2+5)
	text.DrawString(opts.Caption)

	line := color.RGBA{0, 0xb0, 0, 0xff}
	points := make([]image.Point, len(samples))
	for i, s := range samples {
		points[i] = f.project(float64(s.Iteration), s.AvgFitness)
		if i > 0 {
			drawLine(img, points[i-1], points[i], line)
		}
	}

	for i, p := range points {
		t := 0.0
		if len(points) > 1 {
			t = float64(i) / float64(len(points)-1)
		}
		fillCircle(img, p, pointRadius, grad.At(t))
	}

	if opts.Labels {
		for i, p := range points {
			text.Dot = fixed.P(p.X+10, p.Y)
			text.DrawString(fmt.Sprintf("(%d, %g)", samples[i].Iteration, samples[i].AvgFitness))
		}
	}

	return img, nil
}

func Render(w io.Writer, samples []genetic.Sample, opts Options) error {
	img, err := Draw(samples, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func WriteFile(path string, samples []genetic.Sample, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Render(file, samples, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
