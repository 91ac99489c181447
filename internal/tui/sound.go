package tui

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tones for log events.
const (
	toneDetonate = 220.0
	toneDamage   = 110.0
	toneUnlock   = 660.0
)

// sound plays short sine tones. A failed speaker init leaves it silent.
type sound struct {
	enabled bool
}

// newSound always returns a usable sound; on error it is silent.
func newSound(enabled bool) (*sound, error) {
	s := &sound{}
	if !enabled {
		return s, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return s, fmt.Errorf("speaker init: %w", err)
	}
	s.enabled = true
	return s, nil
}

func (s *sound) tone(freq float64, d time.Duration) {
	if !s.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (s *sound) close() {
	if s.enabled {
		speaker.Close()
		s.enabled = false
	}
}
