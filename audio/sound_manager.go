// Package audio plays the wheel's ratchet clicks and win chime through the beep speaker.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/prize-wheel/config"
)

const sampleRate = beep.SampleRate(48000)

// MinClickGap keeps fast spins from stacking clicks into a buzz
const MinClickGap = 30 * time.Millisecond

// SoundManager owns the speaker and a shared mixer
// Methods are no-ops until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
	lastClick   time.Time
	now         func() time.Time
}

// NewSoundManager creates a manager from the audio config section
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		now:     time.Now,
	}
}

// Initialize opens the speaker; disabled managers stay silent without error
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.enabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops playback and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Clear()
	sm.mixer.Clear()
	speaker.Close()
	sm.initialized = false
}

// Active reports whether sounds will reach the speaker
func (sm *SoundManager) Active() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// PlayClick queues a ratchet click, dropping it if the previous one is too recent
func (sm *SoundManager) PlayClick() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	now := sm.now()
	if now.Sub(sm.lastClick) < MinClickGap {
		return
	}
	sm.lastClick = now
	sm.add(CreateClickSound(sampleRate, sm.volume))
}

// PlayWin queues the settle chime
func (sm *SoundManager) PlayWin() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.add(CreateWinSound(sampleRate, sm.volume))
}

// add hands a streamer to the mixer under the speaker lock
func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
