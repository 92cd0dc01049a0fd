package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"github.com/Faultbox/plush-configurator/internal/config"
)

func writeWAV(t *testing.T, rate beep.SampleRate, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "click.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Silence(samples), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol float64
		min float64
		max float64
	}{
		{1.0, -1, 1},     // Full volume should be ~0dB
		{0.5, -8, -4},    // Half volume should be around -6dB
		{0.25, -14, -10}, // Quarter volume should be around -12dB
		{0.0, -200, -90}, // Zero volume should be very negative
	}

	for _, tt := range tests {
		db := volumeToDb(tt.vol)
		if db < tt.min || db > tt.max {
			t.Errorf("volumeToDb(%f) = %f, want between %f and %f", tt.vol, db, tt.min, tt.max)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, tt := range tests {
		got := clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNewPlayer(t *testing.T) {
	p := New()
	if p.Volume() != 1.0 {
		t.Errorf("default volume = %f, want 1.0", p.Volume())
	}
	if p.Muted() {
		t.Error("new player is muted")
	}
	if p.IsInitialized() {
		t.Error("new player is initialized")
	}
	if p.ClickLength() != 0 {
		t.Errorf("ClickLength() = %d, want 0", p.ClickLength())
	}
}

func TestSetVolume(t *testing.T) {
	p := New()

	p.SetVolume(0.5)
	if p.Volume() != 0.5 {
		t.Errorf("volume = %f, want 0.5", p.Volume())
	}

	p.SetVolume(2.0)
	if p.Volume() != 1.0 {
		t.Errorf("volume = %f, want 1.0 (clamped)", p.Volume())
	}

	p.SetVolume(-1.0)
	if p.Volume() != 0.0 {
		t.Errorf("volume = %f, want 0.0 (clamped)", p.Volume())
	}
}

func TestLoadClickResamples(t *testing.T) {
	path := writeWAV(t, DefaultSampleRate/2, 1000)

	p := New()
	if err := p.LoadClickFile(path); err != nil {
		t.Fatalf("LoadClickFile: %v", err)
	}
	// Half the sample rate doubles the length at the speaker rate.
	if n := p.ClickLength(); n < 1900 || n > 2100 {
		t.Errorf("ClickLength() = %d, want about 2000", n)
	}
}

func TestLoadClickRejectsGarbage(t *testing.T) {
	p := New()
	if err := p.LoadClick(bytes.NewReader([]byte("not a wav file"))); err == nil {
		t.Error("expected decode error")
	}
	if p.ClickLength() != 0 {
		t.Error("failed load replaced the click")
	}
}

func TestClickWithoutSpeakerIsSilent(t *testing.T) {
	p := New()
	if err := p.LoadClickFile(writeWAV(t, DefaultSampleRate, 100)); err != nil {
		t.Fatal(err)
	}
	p.Click()
	if err := p.play(); err != ErrNotInitialized {
		t.Errorf("play() = %v, want ErrNotInitialized", err)
	}
}

func TestFromConfig(t *testing.T) {
	path := writeWAV(t, DefaultSampleRate, 100)
	dir, file := filepath.Split(path)

	p := FromConfig(config.AudioConfig{ClickSound: file, Volume: 0.4, Muted: true}, dir)
	if p.Volume() != float64(float32(0.4)) {
		t.Errorf("volume = %f", p.Volume())
	}
	if !p.Muted() {
		t.Error("expected muted")
	}
	if p.ClickLength() != 100 {
		t.Errorf("ClickLength() = %d, want 100", p.ClickLength())
	}

	missing := FromConfig(config.AudioConfig{ClickSound: "nope.wav", Volume: 1}, t.TempDir())
	if missing.ClickLength() != 0 {
		t.Error("missing file produced a click")
	}
}
