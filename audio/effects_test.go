package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to exhaustion and returns the sample count and peak amplitude
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for guard := 0; guard < 10000; guard++ {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never finished")
	return 0, 0
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(48000)
	n, peak := drain(t, NewOscillator(440, 100*time.Millisecond, WaveSine, rate))
	if n != rate.N(100*time.Millisecond) {
		t.Errorf("oscillator produced %d samples, want %d", n, rate.N(100*time.Millisecond))
	}
	if peak < 0.9 || peak > 1.0001 {
		t.Errorf("sine peak %f", peak)
	}
}

func TestEnvelopeShapesEdges(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := NewEnvelope(NewOscillator(0, time.Second, WaveSquare, rate), time.Second, 100*time.Millisecond, 100*time.Millisecond, rate)

	buf := make([][2]float64, 1000)
	n, _ := s.Stream(buf)
	if n != 1000 {
		t.Fatalf("streamed %d samples", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("attack starts at %f, want 0", buf[0][0])
	}
	if buf[500][0] != 1 {
		t.Errorf("sustain at %f, want 1", buf[500][0])
	}
	if buf[999][0] > 0.02 {
		t.Errorf("release ends at %f", buf[999][0])
	}
}

func TestSoundEffectsAreFiniteAndAudible(t *testing.T) {
	tests := []struct {
		name string
		s    beep.Streamer
		max  time.Duration
	}{
		{"click", CreateClickSound(sampleRate, 1), ClickDuration},
		{"win", CreateWinSound(sampleRate, 1), ChimeNote1Duration + ChimeNote2Duration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, peak := drain(t, tt.s)
			if n == 0 || n > sampleRate.N(tt.max) {
				t.Errorf("%d samples, want 1..%d", n, sampleRate.N(tt.max))
			}
			if peak == 0 {
				t.Error("silent effect")
			}
		})
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(t, CreateWinSound(sampleRate, 0))
	if peak != 0 {
		t.Errorf("zero volume peak %f", peak)
	}
}
