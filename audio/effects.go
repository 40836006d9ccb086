package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
)

// Click timing, one per slice boundary passing the needle
const (
	ClickDuration = 18 * time.Millisecond
	ClickAttack   = 1 * time.Millisecond
	ClickRelease  = 15 * time.Millisecond
	ClickFreq     = 1900.0
)

// Win chime timing, a rising major third
const (
	ChimeNote1Duration = 140 * time.Millisecond
	ChimeNote2Duration = 520 * time.Millisecond
	ChimeAttack        = 5 * time.Millisecond
	ChimeNote1Release  = 60 * time.Millisecond
	ChimeNote2Release  = 420 * time.Millisecond
	ChimeNote1Freq     = 1046.50 // C6
	ChimeNote2Freq     = 1318.51 // E6
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator that stops after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.duration {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.duration {
			return i, true
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1.0
			if o.phase >= 0.5 {
				val = -1.0
			}
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// NewEnvelope shapes s over duration with the given attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total {
		rel = total - att
	}
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: total - rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		samples[i][0] *= e.gain()
		samples[i][1] *= e.gain()
		e.position++
	}
	return n, ok
}

func (e *envelope) gain() float64 {
	switch {
	case e.attack > 0 && e.position < e.attack:
		return float64(e.position) / float64(e.attack)
	case e.release > 0 && e.position >= e.releaseStart:
		return float64(e.total-e.position) / float64(e.release)
	default:
		return 1
	}
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales linearly; math.Log2(0) is -Inf so zero volume is silenced instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateClickSound generates the ratchet tick heard as a boundary passes the needle
func CreateClickSound(rate beep.SampleRate, vol float64) beep.Streamer {
	osc := NewOscillator(ClickFreq, ClickDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, ClickDuration, ClickAttack, ClickRelease, rate)
	return newVolume(shaped, vol*0.35)
}

// CreateWinSound generates the two-note chime played when the wheel settles
func CreateWinSound(rate beep.SampleRate, vol float64) beep.Streamer {
	n1 := NewOscillator(ChimeNote1Freq, ChimeNote1Duration, WaveTriangle, rate)
	n1Shaped := NewEnvelope(n1, ChimeNote1Duration, ChimeAttack, ChimeNote1Release, rate)

	n2 := NewOscillator(ChimeNote2Freq, ChimeNote2Duration, WaveSine, rate)
	n2Shaped := NewEnvelope(n2, ChimeNote2Duration, ChimeAttack, ChimeNote2Release, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), vol)
}
