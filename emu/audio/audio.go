// Package audio sounds the buzzer through the beep speaker.
package audio

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const SampleRate = beep.SampleRate(44100)

// Beeper plays a square wave while active.
type Beeper struct {
	ctrl *beep.Ctrl
}

// New opens the speaker and starts a paused tone at toneHz. volume is the
// amplitude, 0 to 1.
func New(toneHz, volume float64) (*Beeper, error) {
	if toneHz <= 0 || toneHz >= float64(SampleRate)/2 {
		return nil, fmt.Errorf("tone %vHz out of range", toneHz)
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/30)); err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	ctrl := &beep.Ctrl{
		Streamer: newSquare(SampleRate, toneHz, volume),
		Paused:   true,
	}
	speaker.Play(ctrl)
	return &Beeper{ctrl: ctrl}, nil
}

func (b *Beeper) SetActive(on bool) {
	speaker.Lock()
	b.ctrl.Paused = !on
	speaker.Unlock()
}

// Nop is a silent buzzer for when audio is muted or unavailable.
type Nop struct{}

func (Nop) SetActive(bool) {}

// square is an endless square wave.
type square struct {
	phase  float64 // 0 <= phase < 1
	step   float64
	volume float64
}

func newSquare(sr beep.SampleRate, toneHz, volume float64) *square {
	return &square{
		step:   toneHz / float64(sr),
		volume: volume,
	}
}

func (s *square) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := s.volume
		if s.phase >= 0.5 {
			v = -v
		}
		samples[i][0] = v
		samples[i][1] = v
		s.phase += s.step
		if s.phase >= 1 {
			s.phase--
		}
	}
	return len(samples), true
}

func (s *square) Err() error {
	return nil
}
