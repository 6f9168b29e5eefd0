package sound

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Ebitengine allows one audio context per process, and it cannot be closed.
// Later devices reuse it when the rate matches.
var (
	ebitenCtxMu sync.Mutex
	ebitenCtx   *audio.Context
)

func ebitenContext(rate int) (*audio.Context, error) {
	ebitenCtxMu.Lock()
	defer ebitenCtxMu.Unlock()
	if ebitenCtx == nil {
		ebitenCtx = audio.NewContext(rate)
		return ebitenCtx, nil
	}
	if ebitenCtx.SampleRate() != rate {
		return nil, &AudioFormatError{Reason: fmt.Sprintf("ebiten audio context already runs at %d Hz, not %d", ebitenCtx.SampleRate(), rate)}
	}
	return ebitenCtx, nil
}

// ebitenBackend plays each voice through its own Ebitengine player. The
// mixing happens inside Ebitengine.
type ebitenBackend struct {
	ctx    *audio.Context
	format Format
}

func newEbitenBackend(f Format) (*ebitenBackend, error) {
	ctx, err := ebitenContext(f.Freq)
	if err != nil {
		return nil, err
	}
	return &ebitenBackend{ctx: ctx, format: f}, nil
}

func (b *ebitenBackend) attach(d *Device, v *voice) error {
	r := &voiceReader{v: v, format: b.format}
	p, err := b.ctx.NewPlayer(r)
	if err != nil {
		return fmt.Errorf("sound: new ebiten player: %w", err)
	}
	p.SetBufferSize(time.Duration(d.cfg.BufferFrames) * time.Second / time.Duration(b.format.Freq))
	p.Play()
	v.player = p
	return nil
}

func (b *ebitenBackend) detach(v *voice) {
	if v.player != nil {
		v.player.Close()
		v.player = nil
	}
}

func (b *ebitenBackend) close() error { return nil }

// voiceReader adapts a stream to the 16-bit little-endian stereo byte stream
// an Ebitengine player reads. Non-playing streams read as silence without
// moving their cursor.
type voiceReader struct {
	v      *voice
	format Format
}

func (r *voiceReader) Read(p []byte) (int, error) {
	const outFrame = 4
	frames := len(p) / outFrame
	p = p[:frames*outFrame]

	s := r.v.stream
	if s.State() != Playing {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	f := r.format
	fs := f.FrameSize()
	chunk := len(r.v.scratch) / fs
	for done := 0; done < frames; {
		n := min(frames-done, chunk)
		buf := r.v.scratch[:n*fs]
		s.Pull(buf)
		for i := 0; i < n; i++ {
			left := toS16(buf, i*f.Channels, f.Encoding)
			right := left
			if f.Channels > 1 {
				right = toS16(buf, i*f.Channels+1, f.Encoding)
			}
			o := (done + i) * outFrame
			binary.LittleEndian.PutUint16(p[o:], uint16(left))
			binary.LittleEndian.PutUint16(p[o+2:], uint16(right))
		}
		done += n
	}
	return len(p), nil
}
