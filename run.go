package kiln

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Logger is the subset of a leveled logger the game loop reports through.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// RunConfig configures the window and frame loop created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	VSync         bool
	ClearColor    color.Color
	// ShowFPS overlays FPS, TPS and the previous frame's draw count.
	ShowFPS bool
	Logger  Logger
}

// Game drives a Presenter from Ebitengine's loop: Clear, the draw callback,
// then Present. It implements ebiten.Game.
type Game struct {
	cfg       RunConfig
	presenter *EbitenPresenter
	update    func() error
	draw      func(Backend) error
	log       Logger
	overlay   *statsOverlay
	err       error
	skipped   uint64
}

// NewGame creates a Game. update runs once per tick; draw issues the frame's
// draws. A *RenderError from draw is logged and the frame is skipped; any
// other error stops the loop.
func NewGame(cfg RunConfig, update func() error, draw func(Backend) error) *Game {
	if cfg.ClearColor == nil {
		cfg.ClearColor = color.White
	}
	log := cfg.Logger
	if log == nil {
		log = nopLogger{}
	}
	g := &Game{
		cfg:       cfg,
		presenter: NewEbitenPresenter(),
		update:    update,
		draw:      draw,
		log:       log,
	}
	if cfg.ShowFPS {
		g.overlay = newStatsOverlay()
	}
	return g
}

// Presenter returns the game's presenter, which is also the factory for
// textures that will be drawn by it.
func (g *Game) Presenter() *EbitenPresenter { return g.presenter }

// SkippedFrames returns how many frames were dropped because of render errors.
func (g *Game) SkippedFrames() uint64 { return g.skipped }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.overlay != nil {
		g.overlay.tick(1 / float64(ebiten.TPS()))
	}
	if g.update == nil {
		return nil
	}
	return g.update()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	p := g.presenter
	p.Begin(screen)
	p.Clear(g.cfg.ClearColor)
	if g.draw != nil {
		if err := g.draw(p); err != nil {
			if !IsRenderError(err) {
				g.err = err
			} else {
				g.skipped++
				g.log.Warnf("frame %d skipped: %v", p.Stats().Frames, err)
			}
		}
	}
	if err := p.Present(); err != nil {
		g.log.Warnf("present: %v", err)
	}
	if g.overlay != nil {
		g.overlay.draw(screen, p.Stats())
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens the window and blocks until the game ends. Returning
// ebiten.Termination from update ends the loop without an error.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetVsyncEnabled(g.cfg.VSync)
	g.log.Infof("starting %q at %dx%d", g.cfg.Title, g.cfg.Width, g.cfg.Height)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
