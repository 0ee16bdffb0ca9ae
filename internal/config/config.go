package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

type Config struct {
	Game      GameConfig      `toml:"game"`
	Player    PlayerConfig    `toml:"player"`
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
	Scripting ScriptingConfig `toml:"scripting"`
	Data      DataConfig      `toml:"data"`
	Audio     AudioConfig     `toml:"audio"`
	Terminal  TerminalConfig  `toml:"terminal"`
}

type GameConfig struct {
	TickWait         time.Duration `toml:"tick_wait"` // sleep between ticks
	TiltSensitivity  float64       `toml:"tilt_sensitivity"`
	FramesAfterDeath int           `toml:"frames_after_death"`
	DelayAfterLevel  time.Duration `toml:"delay_after_level"`
	WorldWidth       float64       `toml:"world_width"`
	WorldHeight      float64       `toml:"world_height"`
	FirstLevel       string        `toml:"first_level"` // empty = first in the level table
	Seed             uint64        `toml:"seed"`        // 0 = time based
	Language         string        `toml:"language"`    // BCP 47 tag for menu text
}

type PlayerConfig struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	MaxHealth     int     `toml:"max_health"`
	LaserCooldown int     `toml:"laser_cooldown"` // ticks
	Friction      float64 `toml:"friction"`       // per-tick velocity multiplier
	MaxVelocityX  float64 `toml:"max_velocity_x"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = in-memory store
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DataConfig struct {
	Levels string `toml:"levels"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0..1
}

type TerminalConfig struct {
	Enabled  bool    `toml:"enabled"`
	TiltStep float64 `toml:"tilt_step"` // virtual accelerometer step per key press
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if c.Game.TickWait <= 0 {
		return errors.New("game.tick_wait must be positive")
	}
	if c.Game.FramesAfterDeath < 0 {
		return errors.New("game.frames_after_death must not be negative")
	}
	if c.Game.WorldWidth <= 0 || c.Game.WorldHeight <= 0 {
		return errors.New("game.world_width and game.world_height must be positive")
	}
	if _, err := language.Parse(c.Game.Language); err != nil {
		return fmt.Errorf("game.language: %w", err)
	}
	if c.Player.Friction <= 0 || c.Player.Friction > 1 {
		return fmt.Errorf("player.friction %v out of range (0, 1]", c.Player.Friction)
	}
	if c.Player.MaxHealth <= 0 {
		return errors.New("player.max_health must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume %v out of range [0, 1]", c.Audio.Volume)
	}
	return nil
}

// Tag returns the parsed menu language.
func (g GameConfig) Tag() language.Tag {
	tag, err := language.Parse(g.Language)
	if err != nil {
		return language.English
	}
	return tag
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			TickWait:         30 * time.Millisecond,
			TiltSensitivity:  2.0,
			FramesAfterDeath: 5,
			DelayAfterLevel:  1500 * time.Millisecond,
			WorldWidth:       80,
			WorldHeight:      48,
			Language:         "en",
		},
		Player: PlayerConfig{
			Width:         4,
			Height:        3,
			MaxHealth:     10,
			LaserCooldown: 8,
			Friction:      0.92,
			MaxVelocityX:  2.5,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Data: DataConfig{
			Levels: "data/levels.yaml",
		},
		Audio: AudioConfig{
			Volume: 0.3,
		},
		Terminal: TerminalConfig{
			Enabled:  true,
			TiltStep: 0.5,
		},
	}
}
