// Package audio plays short synthesized tones for gameplay events.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/uts2120/game/internal/config"
	"github.com/uts2120/game/internal/core/event"
)

const (
	sampleRate     = beep.SampleRate(44100)
	bufferDuration = 100 * time.Millisecond
)

// Tones for gameplay events.
const (
	toneHit       = 880.0
	toneExplosion = 110.0
	tonePickUp    = 1320.0
	toneDamage    = 220.0
	toneLevel     = 660.0
)

// Player is a no-op when audio is disabled or the speaker failed to open.
type Player struct {
	rate    beep.SampleRate
	volume  float64
	enabled bool
	log     *zap.Logger
}

// New opens the speaker when cfg enables audio. Failure is not fatal; the
// game runs silent.
func New(cfg config.AudioConfig, log *zap.Logger) *Player {
	p := &Player{rate: sampleRate, volume: cfg.Volume, log: log}
	if !cfg.Enabled {
		return p
	}
	if err := speaker.Init(p.rate, p.rate.N(bufferDuration)); err != nil {
		log.Warn("audio init failed, running silent", zap.Error(err))
		return p
	}
	p.enabled = true
	log.Info("audio enabled", zap.Float64("volume", p.volume))
	return p
}

func (p *Player) Enabled() bool { return p.enabled }

// Blip plays a sine tone of freq Hz for d.
func (p *Player) Blip(freq float64, d time.Duration) {
	if !p.enabled {
		return
	}
	s, err := p.tone(freq, d)
	if err != nil {
		p.log.Debug("tone skipped", zap.Error(err))
		return
	}
	speaker.Play(s)
}

func (p *Player) tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(p.rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %.0f Hz: %w", freq, err)
	}
	return &effects.Gain{Streamer: beep.Take(p.rate.N(d), sine), Gain: p.volume - 1}, nil
}

// Subscribe plays tones for gameplay events on bus.
func (p *Player) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.AsteroidDestroyed) { p.Blip(toneExplosion, 80*time.Millisecond) })
	event.Subscribe(bus, func(event.EnemyDestroyed) { p.Blip(toneHit, 50*time.Millisecond) })
	event.Subscribe(bus, func(event.PickupCollected) { p.Blip(tonePickUp, 40*time.Millisecond) })
	event.Subscribe(bus, func(event.PlayerDamaged) { p.Blip(toneDamage, 60*time.Millisecond) })
	event.Subscribe(bus, func(event.PlayerDied) { p.Blip(toneExplosion, 300*time.Millisecond) })
	event.Subscribe(bus, func(event.LevelCompleted) { p.Blip(toneLevel, 200*time.Millisecond) })
}

// Close releases the speaker.
func (p *Player) Close() {
	if !p.enabled {
		return
	}
	p.enabled = false
	speaker.Close()
}
