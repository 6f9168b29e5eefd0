package sound

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// pcmSubFormatTail is bytes 2..15 of every KSDATAFORMAT_SUBTYPE GUID; the
// leading two bytes carry the plain format tag.
var pcmSubFormatTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// Load parses a RIFF/WAVE buffer and converts its samples once into the
// device format dev. The returned stream starts Stopped at cursor 0 with
// volume 1.
//
// A malformed container yields a *DecodeError. A well-formed file whose
// samples are not integer PCM with 8, 16, 24 or 32 bits and 1 to 8 channels,
// or an unsupported dev, yields an *AudioFormatError. PCM may be tagged
// plainly or as WAVE_FORMAT_EXTENSIBLE with a PCM sub-format.
func Load(raw []byte, dev Format) (*Stream, error) {
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, &DecodeError{Reason: "missing RIFF/WAVE header"}
	}

	d := wav.NewDecoder(bytes.NewReader(raw))
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, &DecodeError{Reason: "read fmt chunk", Err: err}
	}
	if d.SampleRate == 0 || d.NumChans == 0 {
		return nil, &DecodeError{Reason: "missing fmt chunk"}
	}
	tag := d.WavAudioFormat
	if tag == wavFormatExtensible {
		sub, err := extensibleSubFormat(raw)
		if err != nil {
			return nil, err
		}
		tag = sub
	}
	if tag != wavFormatPCM {
		return nil, &AudioFormatError{Reason: fmt.Sprintf("wav format tag %d is not integer PCM", tag)}
	}
	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, &AudioFormatError{Reason: fmt.Sprintf("%d-bit samples", d.BitDepth)}
	}
	if d.NumChans > 8 {
		return nil, &AudioFormatError{Reason: fmt.Sprintf("%d channels", d.NumChans)}
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, &DecodeError{Reason: "read data chunk", Err: err}
	}
	if buf == nil || buf.Format == nil {
		return nil, &DecodeError{Reason: "missing data chunk"}
	}

	return NewStream(convert(fromIntBuffer(buf, int(d.BitDepth)), dev), dev), nil
}

func fromIntBuffer(buf *audio.IntBuffer, depth int) pcm {
	return pcm{
		data:     buf.Data,
		channels: buf.Format.NumChannels,
		rate:     buf.Format.SampleRate,
		depth:    depth,
	}
}

// extensibleSubFormat returns the format tag embedded in the SubFormat GUID
// of a WAVE_FORMAT_EXTENSIBLE fmt chunk. The decoder skips the extension
// bytes, so the chunk is located in raw directly.
func extensibleSubFormat(raw []byte) (uint16, error) {
	for off := 12; off+8 <= len(raw); {
		id := string(raw[off : off+4])
		size := int(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		body := raw[off+8:]
		if id == "fmt " {
			if size < 40 || len(body) < 40 {
				return 0, &DecodeError{Reason: "truncated extensible fmt chunk"}
			}
			guid := body[24:40]
			if !bytes.Equal(guid[2:], pcmSubFormatTail) {
				return 0, &AudioFormatError{Reason: "unknown extensible sub-format"}
			}
			return binary.LittleEndian.Uint16(guid[:2]), nil
		}
		if size < 0 || size > len(body) {
			break
		}
		off += 8 + size + size&1
	}
	return 0, &DecodeError{Reason: "missing fmt chunk"}
}
