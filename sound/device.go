package sound

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Backend names accepted by DeviceConfig.Backend.
const (
	BackendEbiten    = "ebiten"
	BackendPortAudio = "portaudio"
	// BackendNull opens no hardware; the owner drives Device.Mix directly.
	BackendNull = "null"
)

// Logger receives device telemetry. It is never called from the audio
// callback.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// DeviceConfig describes the playback device to open.
type DeviceConfig struct {
	Backend string
	Format  Format
	// BufferFrames is the callback buffer size in frames. Zero means 1024.
	BufferFrames int
	// MonitorInterval is how often underruns are checked. Zero means 1s.
	MonitorInterval time.Duration
	Logger          Logger
	// OnUnderrun, if set, receives each warning from the monitor goroutine.
	OnUnderrun func(*UnderrunWarning)
}

// voice is a stream attached to a device, with scratch space the audio
// thread converts into.
type voice struct {
	stream  *Stream
	scratch []byte
	player  voicePlayer
}

type voicePlayer interface {
	Close() error
}

type backend interface {
	// attach prepares per-voice resources before the voice is published.
	attach(d *Device, v *voice) error
	// detach releases them after the voice is unpublished.
	detach(v *voice)
	close() error
}

var deviceOpen atomic.Bool

// Device is the process-wide audio output. Streams are attached as voices;
// the audio thread pulls every Playing voice on each callback.
type Device struct {
	cfg     DeviceConfig
	backend backend
	log     Logger

	mu     sync.Mutex // serializes Attach, Detach and Close
	voices atomic.Pointer[[]*voice]
	closed atomic.Bool

	underruns atomic.Uint64
	reported  uint64

	done chan struct{}
	wg   sync.WaitGroup
}

// OpenDevice opens the configured backend. Only one device may be open per
// process; a second call returns ErrDeviceOpen until the first is closed.
func OpenDevice(cfg DeviceConfig) (*Device, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	if cfg.BufferFrames <= 0 {
		cfg.BufferFrames = 1024
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = time.Second
	}
	if !deviceOpen.CompareAndSwap(false, true) {
		return nil, ErrDeviceOpen
	}

	d := &Device{
		cfg:  cfg,
		log:  cfg.Logger,
		done: make(chan struct{}),
	}
	if d.log == nil {
		d.log = nopLogger{}
	}
	empty := []*voice{}
	d.voices.Store(&empty)

	var err error
	switch strings.ToLower(cfg.Backend) {
	case "", BackendEbiten:
		d.backend, err = newEbitenBackend(cfg.Format)
	case BackendPortAudio:
		d.backend, err = newPortAudioBackend(d)
	case BackendNull:
		d.backend = nullBackend{}
	default:
		err = fmt.Errorf("sound: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		deviceOpen.Store(false)
		return nil, err
	}

	d.wg.Add(1)
	go d.monitor()
	d.log.Infof("sound: opened %s device (%s, %d frames)", backendName(cfg.Backend), cfg.Format, cfg.BufferFrames)
	return d, nil
}

func backendName(s string) string {
	if s == "" {
		return BackendEbiten
	}
	return strings.ToLower(s)
}

// Format returns the device sample format.
func (d *Device) Format() Format { return d.cfg.Format }

// Voices returns the number of attached streams.
func (d *Device) Voices() int { return len(*d.voices.Load()) }

// Underruns returns the total number of underruns the backend reported.
func (d *Device) Underruns() uint64 { return d.underruns.Load() }

// Attach makes s audible whenever it is Playing. The stream must already be
// in the device format. Attaching a stream twice is a no-op.
func (d *Device) Attach(s *Stream) error {
	if s.Format() != d.cfg.Format {
		return &AudioFormatError{Reason: fmt.Sprintf("stream format %s does not match device %s", s.Format(), d.cfg.Format)}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return ErrDeviceClosed
	}
	cur := *d.voices.Load()
	for _, v := range cur {
		if v.stream == s {
			return nil
		}
	}

	v := &voice{
		stream:  s,
		scratch: make([]byte, d.cfg.BufferFrames*d.cfg.Format.FrameSize()),
	}
	if err := d.backend.attach(d, v); err != nil {
		return err
	}
	next := make([]*voice, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, v)
	d.voices.Store(&next)
	return nil
}

// Detach removes s from the device. It reports whether s was attached.
func (d *Device) Detach(s *Stream) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := *d.voices.Load()
	for i, v := range cur {
		if v.stream != s {
			continue
		}
		next := make([]*voice, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		d.voices.Store(&next)
		d.backend.detach(v)
		return true
	}
	return false
}

// DetachFinished removes every voice whose stream has played to the end and
// stopped. It returns the number removed.
func (d *Device) DetachFinished() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := *d.voices.Load()
	next := make([]*voice, 0, len(cur))
	var gone []*voice
	for _, v := range cur {
		if v.stream.State() == Stopped && v.stream.Exhausted() {
			gone = append(gone, v)
			continue
		}
		next = append(next, v)
	}
	if len(gone) == 0 {
		return 0
	}
	d.voices.Store(&next)
	for _, v := range gone {
		d.backend.detach(v)
	}
	return len(gone)
}

// Mix pulls every Playing voice into out as interleaved 16-bit samples with
// the device channel count, summing with saturation. underflow records a
// backend-reported underrun. Mix runs on the audio thread and does not
// allocate or lock.
func (d *Device) Mix(out []int16, underflow bool) {
	if underflow {
		d.underruns.Add(1)
	}
	for i := range out {
		out[i] = 0
	}
	enc := d.cfg.Format.Encoding
	width := enc.Width()
	for _, v := range *d.voices.Load() {
		if v.stream.State() != Playing {
			continue
		}
		n := len(out)
		if n*width > len(v.scratch) {
			n = len(v.scratch) / width
		}
		v.stream.Pull(v.scratch[:n*width])
		for i := 0; i < n; i++ {
			out[i] = addSat16(out[i], toS16(v.scratch, i, enc))
		}
	}
}

func addSat16(a, b int16) int16 {
	s := int32(a) + int32(b)
	switch {
	case s > 32767:
		return 32767
	case s < -32768:
		return -32768
	}
	return int16(s)
}

func (d *Device) monitor() {
	defer d.wg.Done()
	t := time.NewTicker(d.cfg.MonitorInterval)
	defer t.Stop()
	for {
		select {
		case <-d.done:
			d.checkUnderruns()
			return
		case <-t.C:
			d.checkUnderruns()
		}
	}
}

func (d *Device) checkUnderruns() {
	total := d.underruns.Load()
	if total == d.reported {
		return
	}
	w := &UnderrunWarning{Count: total - d.reported, Total: total}
	d.reported = total
	d.log.Warnf("%v", w)
	if d.cfg.OnUnderrun != nil {
		d.cfg.OnUnderrun(w)
	}
}

// Close detaches every voice, stops the backend and frees the process-wide
// device slot. Streams stay valid and may be attached to a later device.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed.Swap(true) {
		d.mu.Unlock()
		return nil
	}
	cur := *d.voices.Load()
	empty := []*voice{}
	d.voices.Store(&empty)
	for _, v := range cur {
		d.backend.detach(v)
	}
	err := d.backend.close()
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
	deviceOpen.Store(false)
	if err != nil {
		return fmt.Errorf("sound: close %s backend: %w", backendName(d.cfg.Backend), err)
	}
	return nil
}

type nullBackend struct{}

func (nullBackend) attach(*Device, *voice) error { return nil }
func (nullBackend) detach(*voice)                {}
func (nullBackend) close() error                 { return nil }
