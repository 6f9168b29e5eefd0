// Package kiln is a small real-time 2D compositor for [Ebitengine]: modulated,
// rotated and flipped sprites, large tile fields with viewport culling or a
// baked cache, and (in package sound) PCM streams pulled by the audio device.
//
// # Frame loop
//
// Rendering is single-threaded: clear, draw, present. [Run] opens a window and
// drives a [Game] that does exactly that with an [EbitenPresenter]:
//
//	game := kiln.NewGame(kiln.RunConfig{Title: "demo", Width: 640, Height: 480},
//		nil,
//		func(p kiln.Backend) error {
//			return hero.Render(p, kiln.Point{X: 100, Y: 50}, nil)
//		})
//	if err := kiln.Run(game); err != nil {
//		log.Fatal(err)
//	}
//
// [SoftwarePresenter] implements the same [Presenter] interface on the CPU for
// headless baking and pixel-exact comparisons.
//
// # Renderables
//
// A [Renderable] owns a reference-counted [Texture] and the color, alpha and
// blend state of its next draw:
//
//	hero, err := kiln.NewRenderable(game.Presenter(), img, &color.RGBA{0, 255, 255, 255})
//	hero.SetAlphaModulation(128)
//	hero.SetBlendMode(kiln.BlendAdditive)
//	hero.RenderTransformed(p, pos, nil, 30, nil, kiln.FlipHorizontal)
//
// # Tile fields
//
// A [TileField] is a fixed grid of clips into one atlas. [TileField.RenderViewport]
// draws only the tiles inside the viewport padded by one tile;
// [TileField.BakeToCache] flattens the whole field into a [TileCache] that
// [TileField.RenderCache] blits with a single draw, or one draw per chunk
// when the field is larger than the backend's biggest target. The cache is
// never invalidated automatically.
//
// [Ebitengine]: https://ebitengine.org
package kiln
