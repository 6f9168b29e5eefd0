package sound

import (
	"fmt"
	"strings"
)

// Encoding is the sample representation in a PCM buffer.
type Encoding uint8

const (
	U8    Encoding = iota // unsigned 8-bit, silence 0x80
	S8                    // signed 8-bit, silence 0
	S16LE                 // signed 16-bit little endian, silence 0
)

// ParseEncoding maps a config string ("u8", "s8", "s16") to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u8":
		return U8, nil
	case "s8":
		return S8, nil
	case "s16", "s16le":
		return S16LE, nil
	}
	return 0, fmt.Errorf("sound: unknown encoding %q", s)
}

func (e Encoding) String() string {
	switch e {
	case U8:
		return "u8"
	case S8:
		return "s8"
	case S16LE:
		return "s16le"
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

// Width returns the bytes per sample.
func (e Encoding) Width() int {
	if e == S16LE {
		return 2
	}
	return 1
}

// Format is the layout of the samples a device consumes.
type Format struct {
	Channels int
	Freq     int // frames per second
	Encoding Encoding
}

// FormatMono8 is the classic 44.1 kHz unsigned 8-bit mono device format.
var FormatMono8 = Format{Channels: 1, Freq: 44100, Encoding: U8}

// FormatStereo16 matches Ebitengine's native player format at 44.1 kHz.
var FormatStereo16 = Format{Channels: 2, Freq: 44100, Encoding: S16LE}

// Validate reports whether the format can be produced by Load.
func (f Format) Validate() error {
	if f.Channels < 1 || f.Channels > 8 {
		return &AudioFormatError{Reason: fmt.Sprintf("device channels %d out of range 1-8", f.Channels)}
	}
	if f.Freq < 1000 || f.Freq > 384000 {
		return &AudioFormatError{Reason: fmt.Sprintf("device frequency %d out of range", f.Freq)}
	}
	if f.Encoding > S16LE {
		return &AudioFormatError{Reason: fmt.Sprintf("device encoding %v unsupported", f.Encoding)}
	}
	return nil
}

// SampleWidth returns bytes per sample.
func (f Format) SampleWidth() int { return f.Encoding.Width() }

// FrameSize returns bytes per frame (one sample for every channel).
func (f Format) FrameSize() int { return f.Channels * f.Encoding.Width() }

// Silence returns the byte value that encodes silence. For 16-bit formats
// both bytes of a silent sample are this value.
func (f Format) Silence() byte {
	if f.Encoding == U8 {
		return 0x80
	}
	return 0
}

// BytesPerSecond returns the data rate of the format.
func (f Format) BytesPerSecond() int { return f.Freq * f.FrameSize() }

func (f Format) String() string {
	return fmt.Sprintf("%s %dch %dHz", f.Encoding, f.Channels, f.Freq)
}
