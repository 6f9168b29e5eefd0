package kiln

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"
)

func TestEncodeImagePNG(t *testing.T) {
	img := gridAtlas(2, 2, 3, 3)
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, ".PNG"); err != nil {
		t.Fatal(err)
	}
	got, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
}

func TestEncodeImageWebPLossless(t *testing.T) {
	img := gridAtlas(2, 2, 3, 3)
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, ".webp"); err != nil {
		t.Fatal(err)
	}
	got, err := webp.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			r1, g1, b1, a1 := got.At(x, y).RGBA()
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) changed after webp round trip", x, y)
			}
		}
	}
}

func TestEncodeImageUnknownFormat(t *testing.T) {
	if err := EncodeImage(&bytes.Buffer{}, gridAtlas(1, 1, 1, 1), ".gif"); err == nil {
		t.Error("gif accepted")
	}
}

func TestSaveTexture(t *testing.T) {
	p := NewSoftwarePresenter(1, 1)
	tex, _ := p.NewTexture(gridAtlas(2, 1, 4, 4))
	path := filepath.Join(t.TempDir(), "out", "field.png")
	if err := SaveTexture(path, tex); err != nil {
		t.Fatalf("SaveTexture: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("saved size = %v, want 8x4", b)
	}

	tex.Release()
	if err := SaveTexture(path, tex); err == nil {
		t.Error("saving a released texture succeeded")
	}
}
