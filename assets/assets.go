// Package assets loads images and sounds from disk into kiln resources.
// Every failure is a *kiln.ResourceError carrying the offending path.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/phanxgames/kiln"
	"github.com/phanxgames/kiln/sound"
)

// decoders selects a decoder by file extension. TGA has no magic number,
// so sniffing cannot be trusted once it is registered.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// DecodeImage reads and decodes a PNG, JPEG, BMP, WebP or TGA file.
func DecodeImage(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &kiln.ResourceError{Op: "read image", Path: path, Err: err}
	}
	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, &kiln.ResourceError{Op: "decode image", Path: path, Err: fmt.Errorf("unsupported image format %q", filepath.Ext(path))}
	}
	img, err := dec(bytes.NewReader(raw))
	if err != nil {
		return nil, &kiln.ResourceError{Op: "decode image", Path: path, Err: err}
	}
	return img, nil
}

// DecodeAudio reads a sound file's raw bytes for sound.Load.
func DecodeAudio(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &kiln.ResourceError{Op: "read audio", Path: path, Err: err}
	}
	return raw, nil
}

// LoadRenderable decodes the image at path and uploads it through f. A
// non-nil key is made transparent.
func LoadRenderable(f kiln.TextureFactory, path string, key *color.RGBA) (*kiln.Renderable, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	r, err := kiln.NewRenderable(f, img, key)
	if err != nil {
		var re *kiln.ResourceError
		if errors.As(err, &re) && re.Path == "" {
			re.Path = path
		}
		return nil, err
	}
	return r, nil
}

// LoadStream reads the WAV file at path and converts it into dev.
func LoadStream(path string, dev sound.Format) (*sound.Stream, error) {
	raw, err := DecodeAudio(path)
	if err != nil {
		return nil, err
	}
	s, err := sound.Load(raw, dev)
	if err != nil {
		return nil, &kiln.ResourceError{Op: "load sound", Path: path, Err: err}
	}
	return s, nil
}

// LoadStreams loads every path independently. Streams that load are
// returned keyed by path even when others fail; the failures are joined into
// the returned error.
func LoadStreams(paths []string, dev sound.Format) (map[string]*sound.Stream, error) {
	out := make(map[string]*sound.Stream, len(paths))
	var errs []error
	for _, p := range paths {
		s, err := LoadStream(p, dev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[p] = s
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("assets: %d of %d sounds failed: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return out, nil
}
