// Package chart renders the two report images: the goal-progress bar and
// the avatar scatter plot.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/hucklog/hucklog/internal/domain/scoring"
	"github.com/hucklog/hucklog/pkg/logger"
)

const (
	progressWidth  = 800
	progressHeight = 220

	scatterWidth  = 800
	scatterHeight = 600
	scatterMargin = 80.0
	avatarSize    = 48

	tickCount = 5
)

// Point is one plotted member: workout points against throwing minutes,
// drawn as the member's avatar when one is available.
type Point struct {
	Label      string
	X          float64
	Y          float64
	AvatarPath string
}

// Scatter describes one scatter plot.
type Scatter struct {
	Title  string
	XLabel string
	YLabel string
	Points []Point
}

// Renderer draws report images to PNG files.
type Renderer struct {
	logger logger.Logger
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithLogger sets a custom logger for the renderer.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a chart renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	return r
}

// Progress renders the goal-progress bar for a scored result. The bar spans
// the result's display ceiling; the filled portion runs a red-to-green
// gradient and the remainder stays gray.
func (r *Renderer) Progress(path string, res scoring.Result) error {
	dc := gg.NewContext(progressWidth, progressHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	title := fmt.Sprintf("%s %s Progress", res.Title, res.MetricLabel)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(title, progressWidth/2, 40, 0.5, 0.5)

	const (
		barX = 50.0
		barY = 100.0
		barW = progressWidth - 2*barX
		barH = 50.0
	)

	dc.SetRGB(0.85, 0.85, 0.85)
	dc.DrawRectangle(barX, barY, barW, barH)
	dc.Fill()

	frac := res.Percent / res.MaxProgress
	frac = math.Min(math.Max(frac, 0), 1)
	if frac > 0 {
		grad := gg.NewLinearGradient(barX, 0, barX+barW, 0)
		grad.AddColorStop(0, gradientRed)
		grad.AddColorStop(0.4, gradientRed)
		grad.AddColorStop(0.8, gradientYellow)
		grad.AddColorStop(1, gradientGreen)
		dc.SetFillStyle(grad)
		dc.DrawRectangle(barX, barY, barW*frac, barH)
		dc.Fill()
	}

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(fmt.Sprintf("%d%%", int(res.Percent*100)), barX+barW*frac, barY-15, 0.5, 0.5)

	for i := 0; i <= tickCount; i++ {
		p := res.MaxProgress * float64(i) / tickCount
		x := barX + barW*float64(i)/tickCount
		dc.DrawLine(x, barY+barH, x, barY+barH+6)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%d%%", int(p*100)), x, barY+barH+20, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

// ScatterPlot renders the avatar scatter plot. Axis domains are padded ten
// percent past the largest value; members without a readable avatar fall
// back to a labeled dot.
func (r *Renderer) ScatterPlot(path string, sc Scatter) error {
	dc := gg.NewContext(scatterWidth, scatterHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(sc.Title, scatterWidth/2, 30, 0.5, 0.5)

	maxX, maxY := 0.0, 0.0
	for _, p := range sc.Points {
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if maxX == 0 {
		maxX = 1
	}
	if maxY == 0 {
		maxY = 1
	}
	maxX *= 1.1
	maxY *= 1.1

	plotW := scatterWidth - 2*scatterMargin
	plotH := scatterHeight - 2*scatterMargin
	toCanvas := func(p Point) (float64, float64) {
		x := scatterMargin + p.X/maxX*plotW
		y := scatterHeight - scatterMargin - p.Y/maxY*plotH
		return x, y
	}

	// Axes.
	dc.DrawLine(scatterMargin, scatterHeight-scatterMargin, scatterWidth-scatterMargin, scatterHeight-scatterMargin)
	dc.DrawLine(scatterMargin, scatterMargin, scatterMargin, scatterHeight-scatterMargin)
	dc.Stroke()

	for i := 0; i <= tickCount; i++ {
		fx := float64(i) / tickCount
		x := scatterMargin + fx*plotW
		y := scatterHeight - scatterMargin - fx*plotH
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", fx*maxX), x, scatterHeight-scatterMargin+20, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", fx*maxY), scatterMargin-25, y, 0.5, 0.5)
	}

	dc.DrawStringAnchored(sc.XLabel, scatterWidth/2, scatterHeight-scatterMargin+45, 0.5, 0.5)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, 25, scatterHeight/2)
	dc.DrawStringAnchored(sc.YLabel, 25, scatterHeight/2, 0.5, 0.5)
	dc.Pop()

	for _, p := range sc.Points {
		x, y := toCanvas(p)
		if avatar := loadThumb(p.AvatarPath); avatar != nil {
			dc.DrawImageAnchored(avatar, int(x), int(y), 0.5, 0.5)
			continue
		}
		dc.SetRGB(0.2, 0.4, 0.8)
		dc.DrawCircle(x, y, 6)
		dc.Fill()
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(p.Label, x, y-14, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

// loadThumb loads an avatar and scales it to the marker size; a missing or
// unreadable file yields nil.
func loadThumb(path string) image.Image {
	if path == "" {
		return nil
	}
	img, err := gg.LoadPNG(path)
	if err != nil {
		return nil
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil
	}
	dc := gg.NewContext(avatarSize, avatarSize)
	dc.Scale(avatarSize/float64(bounds.Dx()), avatarSize/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}

// Gradient stops for the progress bar fill.
var (
	gradientRed    = rgb(0.86, 0.20, 0.18)
	gradientYellow = rgb(0.95, 0.77, 0.06)
	gradientGreen  = rgb(0.22, 0.66, 0.33)
)

func rgb(r, g, b float64) color.Color {
	return color.RGBA{
		R: uint8(r * 255),
		G: uint8(g * 255),
		B: uint8(b * 255),
		A: 255,
	}
}
