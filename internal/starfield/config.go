package starfield

import (
	"math"
	"time"
)

const (
	defaultDotCount           = 150
	defaultMargin             = 15.0
	defaultBufferMargin       = 8.0
	defaultGridStep           = 25.0
	defaultMaxAttempts        = 50
	defaultDotRetries         = 25
	defaultDotExclusionMargin = 3.0
	defaultShootingStarCount  = 3
	defaultParticleCount      = 40

	// minGridStep bounds the number of grid origins to roughly 100x100.
	minGridStep = 1.0

	defaultDrawingDuration   = 3000 * time.Millisecond
	defaultWaitingDuration   = 5000 * time.Millisecond
	defaultUndrawingDuration = 2000 * time.Millisecond
)

// PhaseDurations holds how long each timed phase lasts before the next
// transition. Repositioning is always instantaneous.
type PhaseDurations struct {
	Drawing   time.Duration
	Waiting   time.Duration
	Undrawing time.Duration
}

// For returns the duration of phase p.
func (d PhaseDurations) For(p Phase) time.Duration {
	switch p {
	case PhaseDrawing:
		return d.Drawing
	case PhaseWaiting:
		return d.Waiting
	case PhaseUndrawing:
		return d.Undrawing
	default:
		return 0
	}
}

// Config controls layout generation and animation timing.
type Config struct {
	DotCount  int
	Templates []Template

	// Margin insets grid origins and fallback corners from the canvas edge.
	Margin float64
	// BufferMargin is the minimum gap required between two cluster regions.
	BufferMargin float64
	GridStep     float64
	// MaxAttempts bounds how many shuffled grid origins are tried per template.
	MaxAttempts int

	ExclusionEnabled   bool
	DotRetries         int
	DotExclusionMargin float64

	ShootingStarCount int
	ParticleCount     int

	Phases PhaseDurations
}

// DefaultConfig returns the configuration the site ships with.
func DefaultConfig() Config {
	return Config{
		DotCount:           defaultDotCount,
		Templates:          DefaultTemplates(),
		Margin:             defaultMargin,
		BufferMargin:       defaultBufferMargin,
		GridStep:           defaultGridStep,
		MaxAttempts:        defaultMaxAttempts,
		ExclusionEnabled:   true,
		DotRetries:         defaultDotRetries,
		DotExclusionMargin: defaultDotExclusionMargin,
		ShootingStarCount:  defaultShootingStarCount,
		ParticleCount:      defaultParticleCount,
		Phases: PhaseDurations{
			Drawing:   defaultDrawingDuration,
			Waiting:   defaultWaitingDuration,
			Undrawing: defaultUndrawingDuration,
		},
	}
}

// normalized replaces unusable zero, negative or non-finite values with
// defaults. A nil template list stays nil: generating no clusters is valid.
func (c Config) normalized() Config {
	if c.DotCount < 0 {
		c.DotCount = 0
	}
	if !finite(c.Margin) || c.Margin < 0 || c.Margin >= Canvas/2 {
		c.Margin = defaultMargin
	}
	if !finite(c.BufferMargin) {
		c.BufferMargin = defaultBufferMargin
	}
	if c.BufferMargin < 0 {
		c.BufferMargin = 0
	}
	if !finite(c.GridStep) || c.GridStep <= 0 {
		c.GridStep = defaultGridStep
	}
	if c.GridStep < minGridStep {
		c.GridStep = minGridStep
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.DotRetries < 0 {
		c.DotRetries = 0
	}
	if !finite(c.DotExclusionMargin) {
		c.DotExclusionMargin = defaultDotExclusionMargin
	}
	if c.DotExclusionMargin < 0 {
		c.DotExclusionMargin = 0
	}
	if c.ShootingStarCount < 0 {
		c.ShootingStarCount = 0
	}
	if c.ParticleCount < 0 {
		c.ParticleCount = 0
	}
	if c.Phases.Drawing <= 0 {
		c.Phases.Drawing = defaultDrawingDuration
	}
	if c.Phases.Waiting <= 0 {
		c.Phases.Waiting = defaultWaitingDuration
	}
	if c.Phases.Undrawing <= 0 {
		c.Phases.Undrawing = defaultUndrawingDuration
	}
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
