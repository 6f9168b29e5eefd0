package kiln

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay renders FPS, TPS and the previous frame's draw count into a
// small cached image, redrawn about twice a second.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	dirty   bool
}

const overlayInterval = 0.5

func newStatsOverlay() *statsOverlay {
	// 120x48 fits three lines of debug text.
	return &statsOverlay{img: ebiten.NewImage(120, 48), dirty: true}
}

// tick advances the refresh timer by dt seconds.
func (o *statsOverlay) tick(dt float64) {
	o.elapsed += dt
	if o.elapsed >= overlayInterval {
		o.elapsed = 0
		o.dirty = true
	}
}

func (o *statsOverlay) draw(screen *ebiten.Image, stats FrameStats) {
	if o.dirty {
		o.dirty = false
		o.img.Clear()
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ndraws: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), stats.LastDraws))
	}
	screen.DrawImage(o.img, nil)
}
