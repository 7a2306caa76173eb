package starfield

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestController(t *testing.T) (*Controller, *FakeClock) {
	t.Helper()
	clock := NewFakeClock(testEpoch)
	cfg := DefaultConfig()
	cfg.DotCount = 20
	ctrl := NewController(cfg, clock, rand.New(rand.NewSource(1)))
	t.Cleanup(ctrl.Stop)
	return ctrl, clock
}

func TestAdvanceFollowsFixedCycle(t *testing.T) {
	generated := 0
	gen := func() Layout {
		generated++
		return Layout{Dots: []Dot{{ID: generated}}}
	}

	s := State{Phase: PhaseDrawing}
	want := []Phase{PhaseWaiting, PhaseUndrawing, PhaseRepositioning, PhaseDrawing, PhaseWaiting}
	for i, phase := range want {
		s = Advance(s, gen)
		if s.Phase != phase {
			t.Fatalf("step %d: expected %s, got %s", i, phase, s.Phase)
		}
	}

	if s.Cycle != 1 {
		t.Fatalf("expected cycle 1, got %d", s.Cycle)
	}
	if generated != 1 {
		t.Fatalf("expected exactly one regeneration, got %d", generated)
	}
	if len(s.Layout.Dots) != 1 || s.Layout.Dots[0].ID != 1 {
		t.Fatalf("expected the regenerated layout to be kept, got %+v", s.Layout)
	}
}

func TestControllerPhaseSequence(t *testing.T) {
	ctrl, clock := newTestController(t)

	var visited []Phase
	ctrl.OnTransition(func(from, to Phase) {
		visited = append(visited, to)
	})
	ctrl.Start()

	if got := ctrl.Snapshot().Phase; got != PhaseDrawing {
		t.Fatalf("expected to start in drawing, got %s", got)
	}

	for _, step := range []time.Duration{3000 * time.Millisecond, 5000 * time.Millisecond, 2000 * time.Millisecond, 0} {
		clock.Advance(step)
	}

	want := []Phase{PhaseWaiting, PhaseUndrawing, PhaseRepositioning, PhaseDrawing}
	if !reflect.DeepEqual(visited, want) {
		t.Fatalf("expected transitions %v, got %v", want, visited)
	}

	frame := ctrl.Snapshot()
	if frame.Phase != PhaseDrawing {
		t.Fatalf("expected to be back in drawing, got %s", frame.Phase)
	}
	if frame.Cycle != 1 {
		t.Fatalf("expected cycle counter 1, got %d", frame.Cycle)
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected exactly one pending timer, got %d", clock.Pending())
	}
}

func TestControllerWaitsFullPhaseDuration(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	clock.Advance(2999 * time.Millisecond)
	if got := ctrl.Snapshot().Phase; got != PhaseDrawing {
		t.Fatalf("expected drawing before 3000ms, got %s", got)
	}

	clock.Advance(time.Millisecond)
	frame := ctrl.Snapshot()
	if frame.Phase != PhaseWaiting {
		t.Fatalf("expected waiting at 3000ms, got %s", frame.Phase)
	}
	if !frame.EnteredAt.Equal(testEpoch.Add(3 * time.Second)) {
		t.Fatalf("expected waiting to start at +3s, got %v", frame.EnteredAt.Sub(testEpoch))
	}
}

func TestControllerRepositionReplacesLayout(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	before := ctrl.Snapshot()
	clock.Advance(10 * time.Second)
	after := ctrl.Snapshot()

	if after.Cycle != before.Cycle+1 {
		t.Fatalf("expected cycle to advance by one, got %d -> %d", before.Cycle, after.Cycle)
	}
	if len(after.Layout.Dots) != 20 || len(after.Layout.Clusters) != 4 {
		t.Fatalf("expected a full new layout, got %d dots %d clusters", len(after.Layout.Dots), len(after.Layout.Clusters))
	}
	if &before.Layout.Dots[0] == &after.Layout.Dots[0] {
		t.Fatalf("expected the dot slice to be replaced")
	}
	if &before.Layout.Clusters[0] == &after.Layout.Clusters[0] {
		t.Fatalf("expected the cluster slice to be replaced")
	}
}

func TestControllerKeepsSingleTimerAcrossCycles(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	for i := 0; i < 40; i++ {
		clock.Advance(500 * time.Millisecond)
		if clock.Pending() != 1 {
			t.Fatalf("after %v expected one pending timer, got %d", time.Duration(i+1)*500*time.Millisecond, clock.Pending())
		}
	}
	if got := ctrl.Snapshot().Cycle; got != 2 {
		t.Fatalf("expected two completed cycles after 20s, got %d", got)
	}
}

func TestControllerStopClearsPendingTimer(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	clock.Advance(4 * time.Second)
	ctrl.Stop()

	if clock.Pending() != 0 {
		t.Fatalf("expected no pending timers after stop, got %d", clock.Pending())
	}
	if ctrl.Running() {
		t.Fatalf("expected controller to report stopped")
	}

	phase := ctrl.Snapshot().Phase
	clock.Advance(time.Minute)
	if got := ctrl.Snapshot().Phase; got != phase {
		t.Fatalf("expected phase to stay %s after stop, got %s", phase, got)
	}
}

func TestControllerIgnoresStaleCallback(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	ctrl.mu.Lock()
	stale := ctrl.seq - 1
	ctrl.mu.Unlock()

	ctrl.fire(stale)
	if got := ctrl.Snapshot().Phase; got != PhaseDrawing {
		t.Fatalf("expected stale callback to be ignored, got %s", got)
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected the live timer to remain, got %d pending", clock.Pending())
	}
}

func TestControllerStartIsIdempotent(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()
	first := ctrl.Snapshot()
	ctrl.Start()

	if clock.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", clock.Pending())
	}
	if !reflect.DeepEqual(first, ctrl.Snapshot()) {
		t.Fatalf("expected a second Start to leave the frame untouched")
	}
}

func TestControllerSubscribeReceivesTransitions(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()

	frames, cancel := ctrl.Subscribe()
	defer cancel()

	clock.Advance(3 * time.Second)
	select {
	case f := <-frames:
		if f.Phase != PhaseWaiting {
			t.Fatalf("expected waiting frame, got %s", f.Phase)
		}
	default:
		t.Fatalf("expected a frame after the transition")
	}

	// Two transitions without reading keep only the newest frame.
	clock.Advance(5 * time.Second)
	clock.Advance(2 * time.Second)
	f := <-frames
	if f.Phase != PhaseDrawing || f.Cycle != 1 {
		t.Fatalf("expected latest frame drawing/1, got %s/%d", f.Phase, f.Cycle)
	}
	select {
	case extra := <-frames:
		t.Fatalf("expected no backlog, got %s", extra.Phase)
	default:
	}
}

func TestControllerStopClosesSubscriptions(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctrl.Start()

	frames, cancel := ctrl.Subscribe()
	ctrl.Stop()
	cancel()

	for range frames {
	}
}

func TestControllerSubscribeBeforeStartIsClosed(t *testing.T) {
	ctrl, _ := newTestController(t)
	frames, cancel := ctrl.Subscribe()
	defer cancel()

	if _, ok := <-frames; ok {
		t.Fatalf("expected a closed channel for a stopped controller")
	}
}

func TestControllerRestartsAfterStop(t *testing.T) {
	ctrl, clock := newTestController(t)
	ctrl.Start()
	clock.Advance(10 * time.Second)
	ctrl.Stop()

	ctrl.Start()
	frame := ctrl.Snapshot()
	if frame.Phase != PhaseDrawing {
		t.Fatalf("expected restart in drawing, got %s", frame.Phase)
	}
	if frame.Cycle != 1 {
		t.Fatalf("expected cycle counter to survive restart, got %d", frame.Cycle)
	}
	if clock.Pending() != 1 {
		t.Fatalf("expected one pending timer after restart, got %d", clock.Pending())
	}
}

func TestNewControllerNormalizesConfig(t *testing.T) {
	ctrl := NewController(Config{DotCount: 5}, NewFakeClock(testEpoch), rand.New(rand.NewSource(1)))
	cfg := ctrl.Config()
	if cfg.Phases.Drawing != defaultDrawingDuration || cfg.GridStep != defaultGridStep {
		t.Fatalf("expected defaults to fill zero values, got %+v", cfg)
	}

	ctrl = NewController(Config{Margin: math.NaN(), BufferMargin: math.Inf(1), GridStep: math.NaN()}, NewFakeClock(testEpoch), rand.New(rand.NewSource(1)))
	cfg = ctrl.Config()
	if cfg.Margin != defaultMargin || cfg.BufferMargin != defaultBufferMargin || cfg.GridStep != defaultGridStep {
		t.Fatalf("expected non-finite lengths to fall back to defaults, got %+v", cfg)
	}
}
