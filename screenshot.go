package kiln

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// SaveTexture writes the texture's pixels to path. The format follows the
// extension: .webp (lossless) or .png.
func SaveTexture(path string, tex *Texture) error {
	img, err := tex.Image()
	if err != nil {
		return fmt.Errorf("kiln: snapshot %s: %w", path, err)
	}
	return SaveImage(path, img)
}

// SaveImage encodes img to path as WebP or PNG depending on the extension.
func SaveImage(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("kiln: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kiln: create %s: %w", path, err)
	}
	if err := EncodeImage(f, img, filepath.Ext(path)); err != nil {
		f.Close()
		return fmt.Errorf("kiln: encode %s: %w", path, err)
	}
	return f.Close()
}

// EncodeImage writes img in the format named by ext (".webp" or ".png").
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".png", "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
