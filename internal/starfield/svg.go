package starfield

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// svgScale maps percentage coordinates onto the integer SVG viewBox.
const svgScale = 10

const (
	particleRadius     = 2
	shootingStarRadius = 3
)

var edgeGradient = []svg.Offcolor{
	{Offset: 0, Color: "#60a5fa", Opacity: 0.6},
	{Offset: 50, Color: "#a78bfa", Opacity: 0.4},
	{Offset: 100, Color: "#22d3ee", Opacity: 0.3},
}

// RenderSVG draws scene as it looks t seconds after its phase began.
func RenderSVG(w io.Writer, scene Scene, t float64) {
	size := int(Canvas * svgScale)

	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, size, size)
	canvas.Title(fmt.Sprintf("starfield cycle %d (%s)", scene.Cycle, scene.Phase))
	canvas.Def()
	canvas.LinearGradient("constellationGradient", 0, 0, 100, 100, edgeGradient)
	canvas.Filter("glow")
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic", Result: "coloredBlur"}, 2, 2)
	canvas.FeMerge([]string{"coloredBlur", "SourceGraphic"})
	canvas.Fend()
	canvas.DefEnd()
	canvas.Rect(0, 0, size, size, "fill:#0b1120")

	canvas.Gid("dots")
	for _, d := range scene.Dots {
		opacity := clamp01(d.Opacity.At(t))
		r := int(math.Round(d.Size * d.Scale.At(t)))
		if r < 1 {
			r = 1
		}
		canvas.Circle(scaled(d.Point.X), scaled(d.Point.Y), r,
			fmt.Sprintf("fill:#ffffff;fill-opacity:%.2f", opacity))
	}
	canvas.Gend()

	canvas.Gid("particles")
	for _, p := range scene.Particles {
		at := Point{X: p.Point.X + p.OffsetX.At(t), Y: p.Point.Y + p.OffsetY.At(t)}
		canvas.Circle(scaled(at.X), scaled(at.Y), particleRadius,
			fmt.Sprintf("fill:#93c5fd;fill-opacity:%.2f", 0.6*clamp01(p.Opacity.At(t))))
	}
	canvas.Gend()

	canvas.Group(`id="edges"`, `filter="url(#glow)"`)
	for _, e := range scene.Edges {
		progress := clamp01(e.Progress.At(t))
		if progress == 0 {
			continue
		}
		end := Point{
			X: e.From.X + (e.To.X-e.From.X)*progress,
			Y: e.From.Y + (e.To.Y-e.From.Y)*progress,
		}
		canvas.Line(scaled(e.From.X), scaled(e.From.Y), scaled(end.X), scaled(end.Y),
			fmt.Sprintf("stroke:url(#constellationGradient);stroke-width:%.1f;stroke-opacity:%.2f",
				e.Width*2, clamp01(e.Opacity.At(t))))
	}
	canvas.Gend()

	canvas.Gid("stars")
	for _, s := range scene.Stars {
		r := int(math.Round(4 * s.Scale.At(t)))
		if r <= 0 {
			continue
		}
		canvas.Circle(scaled(s.Point.X), scaled(s.Point.Y), r,
			fmt.Sprintf("fill:#60a5fa;fill-opacity:%.2f", clamp01(s.Opacity.At(t))))
	}
	canvas.Gend()

	canvas.Gid("shooting-stars")
	for _, s := range scene.ShootingStars {
		r := int(math.Round(shootingStarRadius * s.Scale.At(t)))
		if r <= 0 {
			continue
		}
		at := Point{X: s.Point.X + s.OffsetX.At(t), Y: s.Point.Y + s.OffsetY.At(t)}
		canvas.Circle(scaled(at.X), scaled(at.Y), r,
			fmt.Sprintf("fill:#ffffff;fill-opacity:%.2f", clamp01(s.Opacity.At(t))), `filter="url(#glow)"`)
	}
	canvas.Gend()

	canvas.End()
}

func scaled(v float64) int {
	return int(math.Round(v * svgScale))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
