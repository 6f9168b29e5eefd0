// Command kiln-bake renders a tile field into its cache on the CPU and writes
// the result as WebP or PNG. With -frame it also renders one culled viewport
// at -offset, which is handy for checking a scroll position without a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/kiln"
	"github.com/phanxgames/kiln/assets"
	"github.com/phanxgames/kiln/internal/config"
	"github.com/phanxgames/kiln/internal/logger"
)

type options struct {
	configPath string
	out        string
	frame      string
	offsetX    int
	offsetY    int
	rows       int
	cols       int
	atlas      string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "kiln.yaml", "path to the YAML config")
	flag.StringVar(&o.out, "out", "field.webp", "output image (.webp or .png)")
	flag.StringVar(&o.frame, "frame", "", "optional viewport image rendered at -x,-y")
	flag.IntVar(&o.offsetX, "x", 0, "viewport offset x for -frame")
	flag.IntVar(&o.offsetY, "y", 0, "viewport offset y for -frame")
	flag.IntVar(&o.rows, "rows", 0, "override tilefield.rows")
	flag.IntVar(&o.cols, "cols", 0, "override tilefield.cols")
	flag.StringVar(&o.atlas, "atlas", "", "override tilefield.atlas")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()

	cfg, err := config.LoadConfig(o.configPath)
	log := logger.New(cfg.Log.Level)
	defer log.Close()
	if err != nil {
		log.Warnf("%v", err)
	}
	if o.rows > 0 {
		cfg.TileField.Rows = o.rows
	}
	if o.cols > 0 {
		cfg.TileField.Cols = o.cols
	}
	if o.atlas != "" {
		cfg.TileField.Atlas = o.atlas
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := bake(cfg, o, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func bake(cfg *config.Config, o options, log *logger.Logger) error {
	key, err := cfg.ChromaKey()
	if err != nil {
		return err
	}
	p := kiln.NewSoftwarePresenter(cfg.Window.Width, cfg.Window.Height)

	atlas, err := assets.LoadRenderable(p, cfg.TileField.Atlas, key)
	if err != nil {
		return fmt.Errorf("load atlas: %w", err)
	}
	defer atlas.Close()

	field, err := kiln.BuildTileField(atlas, cfg.TileFieldConfig())
	if err != nil {
		return err
	}
	defer field.Close()

	start := time.Now()
	cache, err := field.NewCache(p)
	if err != nil {
		return err
	}
	if err := field.BakeToCache(p, cache); err != nil {
		return err
	}
	b := field.Bounds()
	log.Infof("baked %d tiles (%dx%d px) in %v", field.Len(), b.Width, b.Height, time.Since(start).Round(time.Millisecond))

	img, err := cache.Image()
	if err != nil {
		return err
	}
	if err := kiln.SaveImage(o.out, img); err != nil {
		return err
	}
	log.Infof("wrote %s (%d chunks)", o.out, cache.Chunks())

	if o.frame == "" {
		return nil
	}
	bg, err := cfg.ClearColor()
	if err != nil {
		return err
	}
	p.Clear(bg)
	n, err := field.RenderViewport(p, kiln.Point{X: o.offsetX, Y: o.offsetY}, false)
	if err != nil {
		return err
	}
	if err := p.Present(); err != nil {
		return err
	}
	if err := kiln.SaveImage(o.frame, p.Frame()); err != nil {
		return err
	}
	log.Infof("wrote %s (%d tiles drawn)", o.frame, n)
	return nil
}
