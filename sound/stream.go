package sound

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// State is the playback state of a Stream.
type State int32

const (
	Stopped State = iota
	Playing
	Paused
	stateCount
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "invalid"
}

type event uint8

const (
	evResume event = iota
	evPause
	evEnd
	eventCount
)

// noTransition marks an event that leaves the state unchanged.
const noTransition State = -1

// transitions[state][event] is the next state.
var transitions = [stateCount][eventCount]State{
	Stopped: {evResume: Playing, evPause: noTransition, evEnd: noTransition},
	Playing: {evResume: noTransition, evPause: Paused, evEnd: Stopped},
	Paused:  {evResume: Playing, evPause: noTransition, evEnd: noTransition},
}

// Stream is one converted PCM buffer with its own cursor, volume and
// playback state. The buffer is immutable after Load. Cursor, volume and
// state are word-sized atomics: the controlling goroutine writes volume and
// state, the audio thread writes the cursor, and each side observes the
// other's latest value on its next access.
type Stream struct {
	data   []byte
	format Format

	cursor atomic.Int64  // byte offset, monotonic, <= len(data)
	volume atomic.Uint32 // math.Float32bits of a value in [0,1]
	state  atomic.Int32
}

// NewStream wraps PCM data already in format f. A trailing partial sample
// is dropped. data must not be modified afterwards.
func NewStream(data []byte, f Format) *Stream {
	if w := f.SampleWidth(); w > 1 {
		data = data[:len(data)-len(data)%w]
	}
	s := &Stream{data: data, format: f}
	s.volume.Store(math.Float32bits(1))
	return s
}

// Clone returns a stream sharing the same immutable buffer with a fresh
// cursor, the same volume, and Stopped state. Replaying a sound means
// cloning it.
func (s *Stream) Clone() *Stream {
	c := &Stream{data: s.data, format: s.format}
	c.volume.Store(s.volume.Load())
	return c
}

// Format returns the sample format of the buffer.
func (s *Stream) Format() Format { return s.format }

// Len returns the buffer length in bytes.
func (s *Stream) Len() int { return len(s.data) }

// Cursor returns the current byte offset.
func (s *Stream) Cursor() int { return int(s.cursor.Load()) }

// Exhausted reports whether the cursor has reached the end of the buffer.
func (s *Stream) Exhausted() bool { return s.cursor.Load() >= int64(len(s.data)) }

// Volume returns the volume scalar.
func (s *Stream) Volume() float32 { return math.Float32frombits(s.volume.Load()) }

// SetVolume sets the volume, clamped to [0,1].
func (s *Stream) SetVolume(v float32) {
	switch {
	case v != v || v < 0: // NaN or negative
		v = 0
	case v > 1:
		v = 1
	}
	s.volume.Store(math.Float32bits(v))
}

// State returns the playback state.
func (s *Stream) State() State { return State(s.state.Load()) }

// Resume starts or continues playback. It reports whether the state changed.
func (s *Stream) Resume() bool { return s.fire(evResume) }

// Pause suspends playback. An in-flight Pull completes; only later pulls are
// skipped. It reports whether the state changed.
func (s *Stream) Pause() bool { return s.fire(evPause) }

func (s *Stream) fire(ev event) bool {
	for {
		cur := State(s.state.Load())
		next := transitions[cur][ev]
		if next == noTransition {
			return false
		}
		if s.state.CompareAndSwap(int32(cur), int32(next)) {
			return true
		}
	}
}

// Pull fills out with the next samples in the stream's format and returns
// how many samples came from the buffer. Each slot is one sample; past the
// end of the buffer slots get the format's silence value. Samples are scaled
// by the volume around the silence midpoint. The cursor advances by the
// bytes consumed and never passes the end; reaching the end while Playing
// moves the stream to Stopped.
//
// Pull runs on the audio thread: it does not allocate, lock or block.
func (s *Stream) Pull(out []byte) int {
	vol := s.Volume()
	pos := int(s.cursor.Load())
	n := len(s.data)
	data := s.data
	real := 0

	switch s.format.Encoding {
	case U8:
		for i := range out {
			if pos < n {
				out[i] = scaleU8(data[pos], vol)
				pos++
				real++
			} else {
				out[i] = 0x80
			}
		}
	case S8:
		for i := range out {
			if pos < n {
				out[i] = byte(int8(float32(int8(data[pos])) * vol))
				pos++
				real++
			} else {
				out[i] = 0
			}
		}
	case S16LE:
		i := 0
		for ; i+1 < len(out); i += 2 {
			if pos+1 < n {
				v := int16(binary.LittleEndian.Uint16(data[pos:]))
				if vol != 1 {
					v = int16(float32(v) * vol)
				}
				binary.LittleEndian.PutUint16(out[i:], uint16(v))
				pos += 2
				real++
			} else {
				out[i], out[i+1] = 0, 0
				pos = n
			}
		}
		for ; i < len(out); i++ {
			out[i] = 0
		}
	default:
		for i := range out {
			out[i] = s.format.Silence()
		}
	}

	s.cursor.Store(int64(pos))
	if pos >= n {
		s.fire(evEnd)
	}
	return real
}

func scaleU8(b byte, vol float32) byte {
	if vol == 1 {
		return b
	}
	v := float32(int(b)-128)*vol + 128
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
