package starfield

import (
	"fmt"
	"math"
)

// Repeat modes understood by the page's animation runtime.
const (
	RepeatNone    = ""
	RepeatLoop    = "loop"
	RepeatReverse = "reverse"
)

// Tween describes one animated property: evenly spaced keyframe values played
// over Duration seconds after Delay seconds, optionally repeating forever.
type Tween struct {
	Values   []float64 `json:"values"`
	Duration float64   `json:"duration"`
	Delay    float64   `json:"delay"`
	Repeat   string    `json:"repeat,omitempty"`
	Ease     string    `json:"ease,omitempty"`
}

// At evaluates the tween t seconds after it was started.
func (tw Tween) At(t float64) float64 {
	switch len(tw.Values) {
	case 0:
		return 0
	case 1:
		return tw.Values[0]
	}

	t -= tw.Delay
	if t <= 0 {
		return tw.Values[0]
	}
	if tw.Duration <= 0 {
		return tw.Values[len(tw.Values)-1]
	}

	pos := t / tw.Duration
	switch tw.Repeat {
	case RepeatLoop:
		pos = pos - math.Floor(pos)
	case RepeatReverse:
		n := math.Floor(pos)
		pos = pos - n
		if int(n)%2 == 1 {
			pos = 1 - pos
		}
	default:
		if pos >= 1 {
			return tw.Final()
		}
	}

	segments := float64(len(tw.Values) - 1)
	scaled := pos * segments
	i := int(scaled)
	if i >= len(tw.Values)-1 {
		return tw.Values[len(tw.Values)-1]
	}
	frac := scaled - float64(i)
	return tw.Values[i] + (tw.Values[i+1]-tw.Values[i])*frac
}

// Final returns the value a one-shot tween settles on, or the first value of
// a repeating one.
func (tw Tween) Final() float64 {
	if len(tw.Values) == 0 {
		return 0
	}
	if tw.Repeat != RepeatNone {
		return tw.Values[0]
	}
	return tw.Values[len(tw.Values)-1]
}

type EdgeParams struct {
	Key      string  `json:"key"`
	Cluster  int     `json:"cluster"`
	Index    int     `json:"index"`
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	Progress Tween   `json:"progress"`
	Opacity  Tween   `json:"opacity"`
	Width    float64 `json:"width"`
}

type StarParams struct {
	Key     string `json:"key"`
	Cluster int    `json:"cluster"`
	Index   int    `json:"index"`
	Point   Point  `json:"point"`
	Opacity Tween  `json:"opacity"`
	Scale   Tween  `json:"scale"`
}

type DotParams struct {
	Key     string  `json:"key"`
	Point   Point   `json:"point"`
	Size    float64 `json:"size"`
	Opacity Tween   `json:"opacity"`
	Scale   Tween   `json:"scale"`
}

// ShootingStarParams and ParticleParams move by OffsetX/OffsetY canvas units
// relative to Point.
type ShootingStarParams struct {
	Key     string `json:"key"`
	Point   Point  `json:"point"`
	OffsetX Tween  `json:"offsetX"`
	OffsetY Tween  `json:"offsetY"`
	Opacity Tween  `json:"opacity"`
	Scale   Tween  `json:"scale"`
}

type ParticleParams struct {
	Key     string `json:"key"`
	Point   Point  `json:"point"`
	OffsetX Tween  `json:"offsetX"`
	OffsetY Tween  `json:"offsetY"`
	Opacity Tween  `json:"opacity"`
}

// Scene is everything a renderer needs to draw one frame.
type Scene struct {
	Phase         Phase                `json:"phase"`
	Cycle         int                  `json:"cycle"`
	Edges         []EdgeParams         `json:"edges"`
	Stars         []StarParams         `json:"stars"`
	Dots          []DotParams          `json:"dots"`
	ShootingStars []ShootingStarParams `json:"shootingStars"`
	Particles     []ParticleParams     `json:"particles"`
}

// edgeStyle holds the per-phase parameters for cluster lines and points.
type edgeStyle struct {
	progress      []float64
	opacity       []float64
	duration      float64
	clusterDelay  float64
	edgeDelay     float64
	opacityOffset float64
	opacityRepeat string
	opacityPeriod float64

	starOpacity []float64
	starScale   []float64
	starPeriod  float64
	starRepeat  string
	starDelay   float64
}

var phaseStyles = map[Phase]edgeStyle{
	PhaseDrawing: {
		progress:      []float64{0, 1},
		opacity:       []float64{0, 0.8},
		duration:      0.8,
		clusterDelay:  0.4,
		edgeDelay:     0.15,
		opacityOffset: 0.1,
		starOpacity:   []float64{0, 1},
		starScale:     []float64{0, 1},
		starPeriod:    0.5,
		starDelay:     0.1,
	},
	PhaseWaiting: {
		progress:      []float64{1},
		opacity:       []float64{0.8, 0.4, 0.8, 0.6},
		opacityRepeat: RepeatReverse,
		opacityPeriod: 4,
		starOpacity:   []float64{0.6, 1, 0.8, 1, 0.7},
		starScale:     []float64{0.8, 1.2, 1, 1.1, 0.9},
		starPeriod:    3,
		starRepeat:    RepeatReverse,
		starDelay:     0.2,
	},
	PhaseUndrawing: {
		progress:     []float64{1, 0},
		opacity:      []float64{0.8, 0},
		duration:     0.6,
		clusterDelay: 0.1,
		edgeDelay:    0.05,
		starOpacity:  []float64{1, 0},
		starScale:    []float64{1, 0},
		starPeriod:   0.4,
		starDelay:    0.05,
	},
}

const (
	edgeWidth = 1.5

	shootingStarDuration = 2.0
	shootingStarTravelX  = 40.0
	shootingStarTravelY  = 20.0
)

// Project maps a frame to per-element animation parameters. Keys embed the
// cycle so a new layout is always treated as freshly mounted.
func Project(f Frame) Scene {
	scene := Scene{
		Phase:         f.Phase,
		Cycle:         f.Cycle,
		Dots:          projectDots(f),
		ShootingStars: projectShootingStars(f),
		Particles:     projectParticles(f),
	}

	style, ok := phaseStyles[f.Phase]
	if !ok {
		return scene
	}

	for ci, cluster := range f.Layout.Clusters {
		for ei, edge := range cluster.Edges {
			if !validEdge(edge, len(cluster.Points)) {
				continue
			}
			delay := float64(ci)*style.clusterDelay + float64(ei)*style.edgeDelay
			period := style.duration
			if style.opacityPeriod > 0 {
				period = style.opacityPeriod
			}
			scene.Edges = append(scene.Edges, EdgeParams{
				Key:     fmt.Sprintf("edge-%d-%d-%d", f.Cycle, cluster.ID, ei),
				Cluster: cluster.ID,
				Index:   ei,
				From:    cluster.Points[edge[0]],
				To:      cluster.Points[edge[1]],
				Progress: Tween{
					Values:   style.progress,
					Duration: style.duration,
					Delay:    delay,
					Ease:     "easeInOut",
				},
				Opacity: Tween{
					Values:   style.opacity,
					Duration: period,
					Delay:    delay + style.opacityOffset,
					Repeat:   style.opacityRepeat,
				},
				Width: edgeWidth,
			})
		}

		for pi, p := range cluster.Points {
			delay := float64(ci)*style.clusterDelay + float64(pi)*style.starDelay
			scene.Stars = append(scene.Stars, StarParams{
				Key:     fmt.Sprintf("star-%d-%d-%d", f.Cycle, cluster.ID, pi),
				Cluster: cluster.ID,
				Index:   pi,
				Point:   p,
				Opacity: Tween{Values: style.starOpacity, Duration: style.starPeriod, Delay: delay, Repeat: style.starRepeat},
				Scale:   Tween{Values: style.starScale, Duration: style.starPeriod, Delay: delay, Repeat: style.starRepeat},
			})
		}
	}
	return scene
}

// projectDots derives the background pulse, which ignores the phase.
func projectDots(f Frame) []DotParams {
	dots := make([]DotParams, 0, len(f.Layout.Dots))
	for _, d := range f.Layout.Dots {
		dots = append(dots, DotParams{
			Key:   fmt.Sprintf("dot-%d-%d", f.Cycle, d.ID),
			Point: d.Point,
			Size:  d.Size,
			Opacity: Tween{
				Values:   []float64{0, d.Opacity, d.Opacity * 0.7, d.Opacity, 0},
				Duration: d.Duration,
				Delay:    d.Delay,
				Repeat:   RepeatLoop,
				Ease:     "easeInOut",
			},
			Scale: Tween{
				Values:   []float64{0, 1, 1.2, 1, 0},
				Duration: d.Duration,
				Delay:    d.Delay,
				Repeat:   RepeatLoop,
				Ease:     "easeInOut",
			},
		})
	}
	return dots
}

func projectShootingStars(f Frame) []ShootingStarParams {
	stars := make([]ShootingStarParams, 0, len(f.Layout.ShootingStars))
	for _, s := range f.Layout.ShootingStars {
		loop := func(values ...float64) Tween {
			return Tween{Values: values, Duration: shootingStarDuration, Delay: s.Delay, Repeat: RepeatLoop, Ease: "easeOut"}
		}
		stars = append(stars, ShootingStarParams{
			Key:     fmt.Sprintf("shooting-%d-%d", f.Cycle, s.ID),
			Point:   s.Start,
			OffsetX: loop(0, shootingStarTravelX/2, shootingStarTravelX),
			OffsetY: loop(0, shootingStarTravelY/2, shootingStarTravelY),
			Opacity: loop(0, 1, 0),
			Scale:   loop(0, 1, 0),
		})
	}
	return stars
}

func projectParticles(f Frame) []ParticleParams {
	particles := make([]ParticleParams, 0, len(f.Layout.Particles))
	for _, p := range f.Layout.Particles {
		loop := func(values ...float64) Tween {
			return Tween{Values: values, Duration: p.Duration, Delay: p.Delay, Repeat: RepeatLoop, Ease: "easeInOut"}
		}
		particles = append(particles, ParticleParams{
			Key:     fmt.Sprintf("particle-%d-%d", f.Cycle, p.ID),
			Point:   p.Point,
			OffsetX: loop(0, p.Drift.X, 0),
			OffsetY: loop(0, p.Drift.Y, 0),
			Opacity: loop(0.3, 0.8, 0.3),
		})
	}
	return particles
}

func validEdge(e [2]int, n int) bool {
	return e[0] >= 0 && e[0] < n && e[1] >= 0 && e[1] < n
}
