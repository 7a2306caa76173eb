package starfield

import (
	"math/rand"
	"sync"
	"time"

	"github.com/spenceriam/portfolio/internal/logutil"
)

// Controller drives the drawing, waiting, undrawing, repositioning loop.
// It owns the current State and at most one pending timer.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	clock   Clock
	rng     *rand.Rand
	state   State
	frame   Frame
	timer   Timer
	seq     uint64
	running bool

	subs    map[int]chan Frame
	nextSub int

	onTransition []func(from, to Phase)
}

// NewController builds a stopped controller. rng is used exclusively by the
// controller from now on.
func NewController(cfg Config, clock Clock, rng *rand.Rand) *Controller {
	if clock == nil {
		clock = SystemClock()
	}
	cfg = cfg.normalized()
	return &Controller{
		cfg:   cfg,
		clock: clock,
		rng:   rng,
		state: State{Phase: PhaseDrawing},
		frame: Frame{Phase: PhaseDrawing},
		subs:  make(map[int]chan Frame),
	}
}

// Config returns the normalized configuration in use.
func (c *Controller) Config() Config {
	return c.cfg
}

// OnTransition registers fn to be called after every phase change, including
// the instantaneous pass through repositioning. Register before Start.
func (c *Controller) OnTransition(fn func(from, to Phase)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTransition = append(c.onTransition, fn)
}

// Start generates the initial layout, enters drawing and schedules the first
// transition. Calling Start on a running controller does nothing.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.state = State{Phase: PhaseDrawing, Cycle: c.state.Cycle, Layout: c.generate()}
	c.enterLocked()
	c.mu.Unlock()

	logutil.Debugf("starfield: started with %d clusters, %d dots", len(c.cfg.Templates), c.cfg.DotCount)
}

// Stop cancels the pending timer and closes every subscription. A timer
// callback already in flight observes the stop and does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.clearTimerLocked()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	logutil.Debugf("starfield: stopped at cycle %d in %s", c.state.Cycle, c.state.Phase)
}

// Now reads the controller's clock; use it to age a Frame's EnteredAt.
func (c *Controller) Now() time.Time {
	return c.clock.Now()
}

// Running reports whether the loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Snapshot returns the current frame. Layout slices are shared but never
// mutated, so the frame is safe to read after the call returns.
func (c *Controller) Snapshot() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Subscribe returns a channel receiving the newest frame after each
// transition, plus a function that ends the subscription. Slow readers only
// ever see the latest frame. The channel is closed on cancel or Stop.
func (c *Controller) Subscribe() (<-chan Frame, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Frame, 1)
	if !c.running {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			close(sub)
			delete(c.subs, id)
		}
	}
	return ch, cancel
}

func (c *Controller) generate() Layout {
	return Generate(c.cfg, c.rng)
}

// fire handles the timer scheduled for token seq.
func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if !c.running || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	var transitions [][2]Phase
	from := c.state.Phase
	c.state = Advance(c.state, c.generate)
	transitions = append(transitions, [2]Phase{from, c.state.Phase})

	// Repositioning has no duration: regenerate and move on to drawing before
	// anyone can observe the intermediate state.
	if c.state.Phase == PhaseRepositioning {
		c.state = Advance(c.state, c.generate)
		transitions = append(transitions, [2]Phase{PhaseRepositioning, c.state.Phase})
	}

	c.enterLocked()
	hooks := c.onTransition
	cycle := c.state.Cycle
	c.mu.Unlock()

	for _, t := range transitions {
		logutil.Debugf("starfield: %s -> %s (cycle %d)", t[0], t[1], cycle)
		for _, fn := range hooks {
			fn(t[0], t[1])
		}
	}
}

// enterLocked publishes the current state and schedules the single timer for
// the phase just entered.
func (c *Controller) enterLocked() {
	c.clearTimerLocked()

	c.frame = Frame{
		Phase:     c.state.Phase,
		Cycle:     c.state.Cycle,
		Layout:    c.state.Layout,
		EnteredAt: c.clock.Now(),
	}
	c.publishLocked()

	seq := c.seq
	c.timer = c.clock.AfterFunc(c.cfg.Phases.For(c.state.Phase), func() {
		c.fire(seq)
	})
}

// clearTimerLocked stops any pending timer and invalidates its callback.
func (c *Controller) clearTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.seq++
}

func (c *Controller) publishLocked() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.frame
	}
}
