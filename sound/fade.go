package sound

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// VolumeFade tweens a Stream's volume from the controlling goroutine. Call
// Update(dt) once per frame.
type VolumeFade struct {
	tween  *gween.Tween
	target *Stream
	// PauseAtEnd pauses the stream when a fade finishes at volume 0.
	PauseAtEnd bool
	Done       bool
}

// FadeVolume creates a fade from the stream's current volume to `to` over
// duration seconds.
func FadeVolume(s *Stream, to float32, duration float32, fn ease.TweenFunc) *VolumeFade {
	return &VolumeFade{
		tween:  gween.New(s.Volume(), to, duration, fn),
		target: s,
	}
}

// Update advances the fade by dt seconds and applies the value.
func (f *VolumeFade) Update(dt float32) {
	if f.Done {
		return
	}
	val, finished := f.tween.Update(dt)
	f.target.SetVolume(val)
	f.Done = finished
	if finished && f.PauseAtEnd && f.target.Volume() == 0 {
		f.target.Pause()
	}
}
