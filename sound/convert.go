package sound

import (
	"encoding/binary"
	"math"
)

// pcm is decoded integer PCM as returned by the wav decoder. 8-bit data is
// unsigned; wider depths are signed.
type pcm struct {
	data     []int
	channels int
	rate     int
	depth    int
}

func (p pcm) frames() int { return len(p.data) / p.channels }

// sample returns frame f, channel c normalized to [-1,1).
func (p pcm) sample(f, c int) float64 {
	v := p.data[f*p.channels+c]
	switch p.depth {
	case 8:
		return float64(v-128) / 128
	case 16:
		return float64(v) / 32768
	case 24:
		return float64(v) / 8388608
	default:
		return float64(v) / 2147483648
	}
}

// channel maps source frame f onto destination channel c of an n-channel
// layout. Down to mono averages every source channel; mono up copies the one
// channel; other layouts wrap.
func (p pcm) channel(f, c, n int) float64 {
	switch {
	case p.channels == n:
		return p.sample(f, c)
	case p.channels == 1:
		return p.sample(f, 0)
	case n == 1:
		var sum float64
		for i := 0; i < p.channels; i++ {
			sum += p.sample(f, i)
		}
		return sum / float64(p.channels)
	default:
		return p.sample(f, c%p.channels)
	}
}

// convert remaps channels, resamples linearly and requantizes src into dev.
// When rate and channel count match, every sample maps to itself exactly.
func convert(src pcm, dev Format) []byte {
	inFrames := src.frames()
	if inFrames == 0 {
		return []byte{}
	}
	outFrames := inFrames
	if src.rate != dev.Freq {
		outFrames = int(int64(inFrames) * int64(dev.Freq) / int64(src.rate))
	}

	width := dev.SampleWidth()
	out := make([]byte, outFrames*dev.FrameSize())
	step := float64(src.rate) / float64(dev.Freq)
	o := 0
	for f := 0; f < outFrames; f++ {
		i0, frac := f, 0.0
		if src.rate != dev.Freq {
			pos := float64(f) * step
			i0 = int(pos)
			frac = pos - float64(i0)
		}
		i1 := i0 + 1
		if i1 >= inFrames {
			i1 = inFrames - 1
		}
		for c := 0; c < dev.Channels; c++ {
			v := src.channel(i0, c, dev.Channels)
			if frac != 0 {
				v += (src.channel(i1, c, dev.Channels) - v) * frac
			}
			quantize(out[o:o+width], v, dev.Encoding)
			o += width
		}
	}
	return out
}

func quantize(dst []byte, v float64, enc Encoding) {
	switch enc {
	case U8:
		dst[0] = byte(clampRound(v*128, -128, 127) + 128)
	case S8:
		dst[0] = byte(int8(clampRound(v*128, -128, 127)))
	case S16LE:
		binary.LittleEndian.PutUint16(dst, uint16(int16(clampRound(v*32768, -32768, 32767))))
	}
}

func clampRound(v, lo, hi float64) int {
	v = math.Round(v)
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int(v)
}

// toS16 returns sample i of device-format bytes b widened to 16 bits.
func toS16(b []byte, i int, enc Encoding) int16 {
	switch enc {
	case U8:
		return int16(int(b[i])-128) << 8
	case S8:
		return int16(int8(b[i])) << 8
	default:
		return int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
}
