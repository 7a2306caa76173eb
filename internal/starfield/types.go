// Package starfield generates and animates the decorative constellation
// background shown behind the portfolio page.
//
// All coordinates are percentages of the viewport (0-100 on each axis) so a
// layout is independent of the client's pixel resolution.
package starfield

import "time"

// Canvas is the extent of the normalized coordinate space on both axes.
const Canvas = 100.0

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add translates p by the given offset.
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the top-left corner of r.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Contains reports whether p lies inside r grown by margin on every side.
func (r Rect) Contains(p Point, margin float64) bool {
	return p.X >= r.X-margin && p.X <= r.X+r.Width+margin &&
		p.Y >= r.Y-margin && p.Y <= r.Y+r.Height+margin
}

// Dot is one twinkling background star.
type Dot struct {
	ID int `json:"id"`
	Point
	Size     float64 `json:"size"`
	Opacity  float64 `json:"opacity"`
	Duration float64 `json:"duration"` // seconds
	Delay    float64 `json:"delay"`    // seconds
}

// ShootingStar streaks diagonally down-right from Start on a loop.
type ShootingStar struct {
	ID    int     `json:"id"`
	Start Point   `json:"start"`
	Delay float64 `json:"delay"` // seconds
}

// Particle drifts up and sideways by Drift and back again.
type Particle struct {
	ID int `json:"id"`
	Point
	Drift    Point   `json:"drift"`
	Duration float64 `json:"duration"` // seconds
	Delay    float64 `json:"delay"`    // seconds
}

// Template is a hand-authored constellation shape in local coordinates.
type Template struct {
	Name   string   `json:"name"`
	Points []Point  `json:"points"`
	Edges  [][2]int `json:"edges"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Placement records which path of the placement search produced a cluster.
type Placement string

const (
	PlacementGrid    Placement = "grid"
	PlacementCorner  Placement = "corner"
	PlacementDefault Placement = "default"
)

// PlacedCluster is a template instantiated at a screen region.
type PlacedCluster struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Points    []Point   `json:"points"`
	Edges     [][2]int  `json:"edges"`
	Region    Rect      `json:"region"`
	Placement Placement `json:"placement"`
}

// Layout is the output of one generation pass. It is never mutated after
// creation; a new pass replaces it wholesale.
type Layout struct {
	Clusters      []PlacedCluster `json:"clusters"`
	Dots          []Dot           `json:"dots"`
	ShootingStars []ShootingStar  `json:"shootingStars"`
	Particles     []Particle      `json:"particles"`
}

type Phase string

const (
	PhaseDrawing       Phase = "drawing"
	PhaseWaiting       Phase = "waiting"
	PhaseUndrawing     Phase = "undrawing"
	PhaseRepositioning Phase = "repositioning"
)

// State is everything the phase controller owns.
type State struct {
	Phase  Phase
	Cycle  int
	Layout Layout
}

// Frame is a read-only snapshot of the controller handed to renderers.
type Frame struct {
	Phase     Phase     `json:"phase"`
	Cycle     int       `json:"cycle"`
	Layout    Layout    `json:"layout"`
	EnteredAt time.Time `json:"enteredAt"`
}
