package sound

import (
	"bytes"
	"testing"

	"github.com/tanema/gween/ease"
)

func ramp(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func TestPullVolumeOneIsIdentity(t *testing.T) {
	for _, f := range []Format{FormatMono8, {Channels: 1, Freq: 44100, Encoding: S8}, FormatStereo16} {
		t.Run(f.String(), func(t *testing.T) {
			data := ramp(256)
			s := NewStream(data, f)
			s.Resume()
			out := make([]byte, len(data))
			s.Pull(out)
			if !bytes.Equal(out, data) {
				t.Errorf("Pull at volume 1 changed samples")
			}
		})
	}
}

func TestPullVolumeZeroIsSilence(t *testing.T) {
	for _, f := range []Format{FormatMono8, {Channels: 1, Freq: 44100, Encoding: S8}, FormatStereo16} {
		t.Run(f.String(), func(t *testing.T) {
			s := NewStream(ramp(256), f)
			s.SetVolume(0)
			out := make([]byte, 256)
			s.Pull(out)
			want := bytes.Repeat([]byte{f.Silence()}, 256)
			if !bytes.Equal(out, want) {
				t.Errorf("Pull at volume 0 = %v, want silence", out[:8])
			}
		})
	}
}

func TestPullHalfVolumeU8(t *testing.T) {
	s := NewStream([]byte{0x00, 0x80, 0xFF}, FormatMono8)
	s.SetVolume(0.5)
	out := make([]byte, 3)
	s.Pull(out)
	want := []byte{0x40, 0x80, 0xBF}
	if !bytes.Equal(out, want) {
		t.Errorf("Pull = %#v, want %#v", out, want)
	}
}

func TestPullTailIsSilence(t *testing.T) {
	// One second of 44.1 kHz mono with the cursor 100 bytes from the end.
	data := bytes.Repeat([]byte{0xC8}, 44100)
	s := NewStream(data, FormatMono8)
	s.Resume()
	s.cursor.Store(44000)

	out := make([]byte, 512)
	real := s.Pull(out)
	if real != 100 {
		t.Errorf("real samples = %d, want 100", real)
	}
	for i, b := range out {
		want := byte(0xC8)
		if i >= 100 {
			want = 0x80
		}
		if b != want {
			t.Fatalf("out[%d] = %#x, want %#x", i, b, want)
		}
	}
	if s.Cursor() != 44100 {
		t.Errorf("Cursor = %d, want 44100", s.Cursor())
	}
	if s.State() != Stopped {
		t.Errorf("State = %v, want stopped", s.State())
	}
}

func TestPullTailS16OddLength(t *testing.T) {
	s := NewStream(s16Bytes(1000), FormatStereo16)
	out := []byte{9, 9, 9, 9, 9}
	if real := s.Pull(out); real != 1 {
		t.Errorf("real = %d, want 1", real)
	}
	want := append(s16Bytes(1000), 0, 0, 0)
	if !bytes.Equal(out, want) {
		t.Errorf("out = %v, want %v", out, want)
	}
}

func TestOddLengthS16DataReachesEnd(t *testing.T) {
	mono16 := Format{Channels: 1, Freq: 44100, Encoding: S16LE}
	s := NewStream([]byte{1, 2, 3}, mono16)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want the partial sample dropped", s.Len())
	}
	s.Resume()
	real := 0
	for i := 0; i < 3; i++ {
		real += s.Pull(make([]byte, 8))
	}
	if real != 1 {
		t.Errorf("real samples = %d, want 1", real)
	}
	if !s.Exhausted() || s.State() != Stopped {
		t.Errorf("cursor %d of %d, state %v; want exhausted and stopped", s.Cursor(), s.Len(), s.State())
	}
}

func TestCursorMonotonicAndClamped(t *testing.T) {
	s := NewStream(ramp(1000), FormatMono8)
	s.Resume()
	prev := 0
	for _, n := range []int{0, 1, 7, 0, 300, 512, 4096, 0, 3} {
		s.Pull(make([]byte, n))
		c := s.Cursor()
		if c < prev {
			t.Fatalf("cursor went back from %d to %d", prev, c)
		}
		if c > s.Len() {
			t.Fatalf("cursor %d past end %d", c, s.Len())
		}
		prev = c
	}
	if !s.Exhausted() {
		t.Error("stream not exhausted")
	}
}

func TestStateTransitions(t *testing.T) {
	s := NewStream(ramp(4), FormatMono8)
	steps := []struct {
		name    string
		op      func() bool
		changed bool
		want    State
	}{
		{"pause stopped", s.Pause, false, Stopped},
		{"resume stopped", s.Resume, true, Playing},
		{"resume playing", s.Resume, false, Playing},
		{"pause playing", s.Pause, true, Paused},
		{"pause paused", s.Pause, false, Paused},
		{"resume paused", s.Resume, true, Playing},
	}
	for _, st := range steps {
		if got := st.op(); got != st.changed {
			t.Errorf("%s: changed = %v, want %v", st.name, got, st.changed)
		}
		if got := s.State(); got != st.want {
			t.Errorf("%s: state = %v, want %v", st.name, got, st.want)
		}
	}

	s.Pull(make([]byte, 8))
	if s.State() != Stopped {
		t.Errorf("after end: state = %v, want stopped", s.State())
	}
	// An exhausted stream resumed stays silent and stops on the next pull.
	s.Resume()
	out := make([]byte, 4)
	if real := s.Pull(out); real != 0 {
		t.Errorf("exhausted pull real = %d, want 0", real)
	}
	if s.State() != Stopped {
		t.Errorf("state = %v, want stopped", s.State())
	}
}

func TestPausedAtEndStaysPaused(t *testing.T) {
	s := NewStream(ramp(4), FormatMono8)
	s.Resume()
	s.Pause()
	s.Pull(make([]byte, 8))
	if s.State() != Paused {
		t.Errorf("state = %v, want paused", s.State())
	}
}

func TestSetVolumeClamps(t *testing.T) {
	s := NewStream(nil, FormatMono8)
	tests := []struct {
		in, want float32
	}{
		{-1, 0}, {0.25, 0.25}, {1, 1}, {3, 1},
	}
	for _, tt := range tests {
		s.SetVolume(tt.in)
		if got := s.Volume(); got != tt.want {
			t.Errorf("SetVolume(%v): Volume = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	s := NewStream(ramp(10), FormatMono8)
	s.SetVolume(0.5)
	s.Resume()
	s.Pull(make([]byte, 20))

	c := s.Clone()
	if c.Cursor() != 0 || c.State() != Stopped || c.Volume() != 0.5 {
		t.Errorf("clone cursor %d state %v volume %v", c.Cursor(), c.State(), c.Volume())
	}
	if &c.data[0] != &s.data[0] {
		t.Error("clone copied the buffer")
	}
	if s.Cursor() != 10 {
		t.Errorf("original cursor = %d, want 10", s.Cursor())
	}
}

func TestPullDoesNotAllocate(t *testing.T) {
	s := NewStream(bytes.Repeat([]byte{0x90}, 1<<20), FormatMono8)
	s.SetVolume(0.7)
	s.Resume()
	out := make([]byte, 512)
	allocs := testing.AllocsPerRun(100, func() {
		s.Pull(out)
	})
	if allocs != 0 {
		t.Errorf("Pull allocates %v times per call", allocs)
	}
}

func TestVolumeFade(t *testing.T) {
	s := NewStream(ramp(4), FormatMono8)
	s.Resume()
	f := FadeVolume(s, 0, 1, ease.Linear)
	f.PauseAtEnd = true

	f.Update(0.5)
	if v := s.Volume(); v < 0.49 || v > 0.51 {
		t.Errorf("mid-fade volume = %v, want ~0.5", v)
	}
	f.Update(0.5)
	if !f.Done {
		t.Error("fade not done")
	}
	if s.Volume() != 0 {
		t.Errorf("volume = %v, want 0", s.Volume())
	}
	if s.State() != Paused {
		t.Errorf("state = %v, want paused", s.State())
	}
}

func BenchmarkPull(b *testing.B) {
	s := NewStream(bytes.Repeat(s16Bytes(1200, -1200), 1<<18), FormatStereo16)
	s.SetVolume(0.8)
	out := make([]byte, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if s.Exhausted() {
			s.cursor.Store(0)
		}
		s.Pull(out)
	}
}
