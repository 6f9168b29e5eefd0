package kiln

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animation cycles through clip rectangles of a sprite sheet, holding each
// clip for a fixed number of ticks.
type Animation struct {
	Sheet         *Renderable
	Clips         []Rect
	TicksPerFrame int
	Loop          bool

	tick int
	Done bool
}

// NewAnimation creates a looping animation.
func NewAnimation(sheet *Renderable, clips []Rect, ticksPerFrame int) *Animation {
	if ticksPerFrame < 1 {
		ticksPerFrame = 1
	}
	return &Animation{Sheet: sheet, Clips: clips, TicksPerFrame: ticksPerFrame, Loop: true}
}

// Frame returns the index of the current clip.
func (a *Animation) Frame() int {
	if len(a.Clips) == 0 {
		return 0
	}
	return min(a.tick/a.ticksPerFrame(), len(a.Clips)-1)
}

func (a *Animation) ticksPerFrame() int {
	return max(a.TicksPerFrame, 1)
}

// Tick advances the animation by one tick.
func (a *Animation) Tick() {
	if a.Done || len(a.Clips) == 0 {
		return
	}
	tpf := a.ticksPerFrame()
	a.tick++
	if a.tick/tpf >= len(a.Clips) {
		if a.Loop {
			a.tick = 0
		} else {
			a.tick = len(a.Clips)*tpf - 1
			a.Done = true
		}
	}
}

// Render draws the current clip at pos.
func (a *Animation) Render(dst Presenter, pos Point) error {
	if len(a.Clips) == 0 {
		return nil
	}
	clip := a.Clips[a.Frame()]
	return a.Sheet.Render(dst, pos, &clip)
}

// AlphaFade tweens a Renderable's alpha modulation. Call Update(dt) each
// frame; there is no global animation manager.
type AlphaFade struct {
	tween  *gween.Tween
	target *Renderable
	Done   bool
}

// FadeAlpha creates a fade from the target's current alpha to `to` over
// duration seconds.
func FadeAlpha(r *Renderable, to uint8, duration float32, fn ease.TweenFunc) *AlphaFade {
	return &AlphaFade{
		tween:  gween.New(float32(r.mod.A), float32(to), duration, fn),
		target: r,
	}
}

// Update advances the fade by dt seconds and applies the value.
func (f *AlphaFade) Update(dt float32) {
	if f.Done {
		return
	}
	val, finished := f.tween.Update(dt)
	f.target.SetAlphaModulation(toChannel(val))
	f.Done = finished
}

// ColorFade tweens the three color modulation channels of a Renderable.
type ColorFade struct {
	tweens [3]*gween.Tween
	target *Renderable
	Done   bool
}

// FadeColor creates a fade from the target's current color modulation to
// (r, g, b) over duration seconds.
func FadeColor(target *Renderable, r, g, b uint8, duration float32, fn ease.TweenFunc) *ColorFade {
	m := target.mod
	return &ColorFade{
		tweens: [3]*gween.Tween{
			gween.New(float32(m.R), float32(r), duration, fn),
			gween.New(float32(m.G), float32(g), duration, fn),
			gween.New(float32(m.B), float32(b), duration, fn),
		},
		target: target,
	}
}

// Update advances the fade by dt seconds and applies the values.
func (f *ColorFade) Update(dt float32) {
	if f.Done {
		return
	}
	var vals [3]uint8
	allDone := true
	for i, tw := range f.tweens {
		v, finished := tw.Update(dt)
		vals[i] = toChannel(v)
		if !finished {
			allDone = false
		}
	}
	f.target.SetColorModulation(vals[0], vals[1], vals[2])
	f.Done = allDone
}

func toChannel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
