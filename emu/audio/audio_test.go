package audio

import (
	"testing"

	"github.com/faiface/beep"
)

func TestSquare(t *testing.T) {
	// 4 samples per period
	s := newSquare(beep.SampleRate(400), 100, 0.5)
	samples := make([][2]float64, 8)
	n, ok := s.Stream(samples)
	if n != len(samples) || !ok {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	want := []float64{0.5, 0.5, -0.5, -0.5, 0.5, 0.5, -0.5, -0.5}
	for i, w := range want {
		if samples[i][0] != w || samples[i][1] != w {
			t.Errorf("sample %d (got %v, but want %v on both channels)", i, samples[i], w)
		}
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestSquare_pausedByCtrl(t *testing.T) {
	ctrl := &beep.Ctrl{Streamer: newSquare(SampleRate, 440, 1), Paused: true}
	samples := make([][2]float64, 16)
	for i := range samples {
		samples[i] = [2]float64{9, 9}
	}
	ctrl.Stream(samples)
	for i, s := range samples {
		if s != [2]float64{} {
			t.Fatalf("sample %d should be silent while paused, got %v", i, s)
		}
	}
}

func TestNew_invalidTone(t *testing.T) {
	if _, err := New(0, 0.2); err == nil {
		t.Errorf("New() should reject a zero tone")
	}
	if _, err := New(float64(SampleRate), 0.2); err == nil {
		t.Errorf("New() should reject a tone above the Nyquist frequency")
	}
}
