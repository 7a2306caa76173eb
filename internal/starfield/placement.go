package starfield

import "math/rand"

const (
	dotMinSize     = 1.0
	dotMaxSize     = 4.0
	dotMinOpacity  = 0.3
	dotMaxOpacity  = 1.0
	dotMinDuration = 2.0
	dotMaxDuration = 5.0
	dotMaxDelay    = 2.0

	shootingStarMaxY     = 50.0
	shootingStarStagger  = 8.0
	shootingStarMaxDelay = 5.0

	particleMaxDriftX   = 1.5
	particleDriftY      = -4.0
	particleMinDuration = 4.0
	particleMaxDuration = 8.0
	particleMaxDelay    = 3.0
)

// Generate produces a complete layout for one animation cycle. It only
// consumes rng and never fails; an infeasible layout degrades to overlap.
func Generate(cfg Config, rng *rand.Rand) Layout {
	cfg = cfg.normalized()
	clusters := PlaceClusters(cfg.Templates, cfg, rng)
	return Layout{
		Clusters:      clusters,
		Dots:          ScatterDots(clusters, cfg, rng),
		ShootingStars: launchShootingStars(cfg.ShootingStarCount, rng),
		Particles:     scatterParticles(cfg.ParticleCount, rng),
	}
}

// PlaceClusters places one cluster per template, in template order, so that
// regions keep at least cfg.BufferMargin apart whenever that is achievable.
func PlaceClusters(templates []Template, cfg Config, rng *rand.Rand) []PlacedCluster {
	cfg = cfg.normalized()

	origins := gridOrigins(cfg.Margin, cfg.GridStep)
	rng.Shuffle(len(origins), func(i, j int) {
		origins[i], origins[j] = origins[j], origins[i]
	})

	placed := make([]PlacedCluster, 0, len(templates))
	accepted := make([]Rect, 0, len(templates))

	for id, tpl := range templates {
		region, how := findRegion(tpl, origins, accepted, cfg)
		accepted = append(accepted, region)
		placed = append(placed, instantiate(id, tpl, region, how))
	}
	return placed
}

// findRegion tries the shuffled grid first, then the four corners, and as a
// last resort returns the top-left corner even though it overlaps.
func findRegion(tpl Template, origins []Point, accepted []Rect, cfg Config) (Rect, Placement) {
	attempts := 0
	for _, origin := range origins {
		if attempts >= cfg.MaxAttempts {
			break
		}
		attempts++

		candidate := Rect{X: origin.X, Y: origin.Y, Width: tpl.Width, Height: tpl.Height}
		if !insideCanvas(candidate) {
			continue
		}
		if !overlapsAny(candidate, accepted, cfg.BufferMargin) {
			return candidate, PlacementGrid
		}
	}

	for _, origin := range cornerOrigins(tpl, cfg.Margin) {
		candidate := Rect{X: origin.X, Y: origin.Y, Width: tpl.Width, Height: tpl.Height}
		if insideCanvas(candidate) && !overlapsAny(candidate, accepted, cfg.BufferMargin) {
			return candidate, PlacementCorner
		}
	}

	return Rect{X: cfg.Margin, Y: cfg.Margin, Width: tpl.Width, Height: tpl.Height}, PlacementDefault
}

// gridOrigins lists candidate origins spaced by step and inset by margin.
func gridOrigins(margin, step float64) []Point {
	var axis []float64
	for v := margin; v <= Canvas-margin; v += step {
		axis = append(axis, v)
	}
	origins := make([]Point, 0, len(axis)*len(axis))
	for _, y := range axis {
		for _, x := range axis {
			origins = append(origins, Point{X: x, Y: y})
		}
	}
	return origins
}

// cornerOrigins returns top-left, top-right, bottom-left and bottom-right
// origins for tpl, each inset by margin.
func cornerOrigins(tpl Template, margin float64) []Point {
	right := Canvas - margin - tpl.Width
	bottom := Canvas - margin - tpl.Height
	return []Point{
		{X: margin, Y: margin},
		{X: right, Y: margin},
		{X: margin, Y: bottom},
		{X: right, Y: bottom},
	}
}

func insideCanvas(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= Canvas && r.Y+r.Height <= Canvas
}

// regionsOverlap is an AABB test: a and b are apart only if the gap between
// them on at least one axis is at least buffer.
func regionsOverlap(a, b Rect, buffer float64) bool {
	return a.X < b.X+b.Width+buffer &&
		b.X < a.X+a.Width+buffer &&
		a.Y < b.Y+b.Height+buffer &&
		b.Y < a.Y+a.Height+buffer
}

func overlapsAny(candidate Rect, accepted []Rect, buffer float64) bool {
	for _, r := range accepted {
		if regionsOverlap(candidate, r, buffer) {
			return true
		}
	}
	return false
}

// instantiate translates the template's points into the region. Edges index
// points and are therefore copied unchanged.
func instantiate(id int, tpl Template, region Rect, how Placement) PlacedCluster {
	origin := region.Origin()
	points := make([]Point, len(tpl.Points))
	for i, p := range tpl.Points {
		points[i] = p.Add(origin)
	}
	edges := make([][2]int, len(tpl.Edges))
	copy(edges, tpl.Edges)

	return PlacedCluster{
		ID:        id,
		Name:      tpl.Name,
		Points:    points,
		Edges:     edges,
		Region:    region,
		Placement: how,
	}
}

// ScatterDots places cfg.DotCount background dots. With exclusion enabled a
// dot landing inside a cluster region is resampled up to cfg.DotRetries
// times; the final candidate is kept regardless.
func ScatterDots(clusters []PlacedCluster, cfg Config, rng *rand.Rand) []Dot {
	cfg = cfg.normalized()

	dots := make([]Dot, 0, cfg.DotCount)
	for i := 0; i < cfg.DotCount; i++ {
		pos := randomPoint(rng)
		if cfg.ExclusionEnabled {
			for retry := 0; retry < cfg.DotRetries && insideAnyCluster(pos, clusters, cfg.DotExclusionMargin); retry++ {
				pos = randomPoint(rng)
			}
		}

		dots = append(dots, Dot{
			ID:       i,
			Point:    pos,
			Size:     between(rng, dotMinSize, dotMaxSize),
			Opacity:  between(rng, dotMinOpacity, dotMaxOpacity),
			Duration: between(rng, dotMinDuration, dotMaxDuration),
			Delay:    rng.Float64() * dotMaxDelay,
		})
	}
	return dots
}

// launchShootingStars staggers n streaks roughly eight seconds apart, all
// starting in the upper half of the canvas.
func launchShootingStars(n int, rng *rand.Rand) []ShootingStar {
	stars := make([]ShootingStar, 0, n)
	for i := 0; i < n; i++ {
		stars = append(stars, ShootingStar{
			ID:    i,
			Start: Point{X: rng.Float64() * Canvas, Y: rng.Float64() * shootingStarMaxY},
			Delay: float64(i)*shootingStarStagger + rng.Float64()*shootingStarMaxDelay,
		})
	}
	return stars
}

func scatterParticles(n int, rng *rand.Rand) []Particle {
	particles := make([]Particle, 0, n)
	for i := 0; i < n; i++ {
		particles = append(particles, Particle{
			ID:       i,
			Point:    randomPoint(rng),
			Drift:    Point{X: between(rng, -particleMaxDriftX, particleMaxDriftX), Y: particleDriftY},
			Duration: between(rng, particleMinDuration, particleMaxDuration),
			Delay:    rng.Float64() * particleMaxDelay,
		})
	}
	return particles
}

func insideAnyCluster(p Point, clusters []PlacedCluster, margin float64) bool {
	for _, c := range clusters {
		if c.Region.Contains(p, margin) {
			return true
		}
	}
	return false
}

func randomPoint(rng *rand.Rand) Point {
	return Point{X: rng.Float64() * Canvas, Y: rng.Float64() * Canvas}
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
