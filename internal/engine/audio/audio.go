// Package audio plays the short click that confirms a control press.
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/plush-configurator/internal/config"
	"github.com/Faultbox/plush-configurator/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when the speaker has not been opened.
var ErrNotInitialized = errors.New("audio not initialized")

// Player decodes the click sample once and mixes a fresh copy of it into the
// speaker on every press, so rapid clicks overlap instead of cutting off.
type Player struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate

	click *beep.Buffer

	// Volume settings (0.0 to 1.0)
	volume float64
	muted  bool

	mixer *beep.Mixer
	log   *zap.Logger
}

// New creates a player with full volume and no click sample.
func New() *Player {
	return &Player{
		sampleRate: DefaultSampleRate,
		volume:     1.0,
		mixer:      &beep.Mixer{},
		log:        logger.Named("audio"),
	}
}

// FromConfig creates a player with the configured volume and loads the click
// sample relative to baseDir. A missing sample is logged and leaves the
// player silent.
func FromConfig(cfg config.AudioConfig, baseDir string) *Player {
	p := New()
	p.SetVolume(float64(cfg.Volume))
	p.SetMuted(cfg.Muted)
	if cfg.ClickSound == "" {
		return p
	}
	path := cfg.ClickSound
	if baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if err := p.LoadClickFile(path); err != nil {
		p.log.Warn("click sound unavailable", zap.String("path", path), zap.Error(err))
	}
	return p
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(p.mixer)

	p.initialized = true
	return nil
}

// Close shuts down the audio system.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	p.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (p *Player) IsInitialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// SetVolume sets the click volume (0.0 to 1.0).
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp(vol, 0, 1)
}

// Volume returns the click volume.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// SetMuted silences or restores the click.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// Muted reports whether the click is silenced.
func (p *Player) Muted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.muted
}

// volumeToDb converts a 0-1 volume to decibel scale.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LoadClickFile decodes a WAV file as the click sample.
func (p *Player) LoadClickFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.LoadClick(f)
}

// LoadClick decodes WAV data as the click sample, resampled to the speaker
// rate and held in memory.
func (p *Player) LoadClick(r io.Reader) error {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	streamer, format, err := wav.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	var resampled beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: p.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(resampled)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	p.click = buf
	p.log.Debug("click loaded", zap.Int("samples", buf.Len()))
	return nil
}

// ClickLength returns the click sample length in samples, 0 when none is
// loaded.
func (p *Player) ClickLength() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.click == nil {
		return 0
	}
	return p.click.Len()
}

// Click plays the click sample. It does nothing when muted, silent, not
// initialized or without a sample.
func (p *Player) Click() {
	if err := p.play(); err != nil && !errors.Is(err, ErrNotInitialized) {
		p.log.Debug("click skipped", zap.Error(err))
	}
}

func (p *Player) play() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.initialized {
		return ErrNotInitialized
	}
	if p.click == nil || p.muted || p.volume <= 0 {
		return nil
	}

	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: p.click.Streamer(0, p.click.Len()),
		Base:     2,
		Volume:   volumeToDb(p.volume) / 6, // dB to powers of two
	})
	speaker.Unlock()
	return nil
}
