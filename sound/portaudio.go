package sound

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// portAudioBackend runs one default output stream whose callback mixes
// every voice through Device.Mix.
type portAudioBackend struct {
	stream *portaudio.Stream
}

func newPortAudioBackend(d *Device) (*portAudioBackend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sound: initialize portaudio: %w", err)
	}
	f := d.cfg.Format
	cb := func(out []int16, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		d.Mix(out, flags&portaudio.OutputUnderflow != 0)
	}
	s, err := portaudio.OpenDefaultStream(0, f.Channels, float64(f.Freq), d.cfg.BufferFrames, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sound: open portaudio stream: %w", err)
	}
	if err := s.Start(); err != nil {
		s.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("sound: start portaudio stream: %w", err)
	}
	return &portAudioBackend{stream: s}, nil
}

func (b *portAudioBackend) attach(*Device, *voice) error { return nil }
func (b *portAudioBackend) detach(*voice)                {}

func (b *portAudioBackend) close() error {
	err := b.stream.Stop()
	if cerr := b.stream.Close(); err == nil {
		err = cerr
	}
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
