package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AsteroidTemplate holds static tuning for a level's asteroids.
type AsteroidTemplate struct {
	Size            float64 `yaml:"size"`
	Health          int     `yaml:"health"`
	Speed           float64 `yaml:"speed"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	DropChance      float64 `yaml:"drop_chance"`
}

// EnemyTemplate holds static tuning for a level's enemies.
type EnemyTemplate struct {
	Size            float64 `yaml:"size"`
	Health          int     `yaml:"health"`
	Speed           float64 `yaml:"speed"`
	Score           int     `yaml:"score"`
	CollisionDamage int     `yaml:"collision_damage"`
	FireCooldown    int     `yaml:"fire_cooldown"` // ticks
	ShotDamage      int     `yaml:"shot_damage"`
	ShotSpeed       float64 `yaml:"shot_speed"`
	Brain           string  `yaml:"brain"` // "script" or "chase"
}

// LevelTemplate is one stage: spawn quotas, cadence and entity tuning.
type LevelTemplate struct {
	ID            string           `yaml:"id"`
	Name          string           `yaml:"name"`
	Next          string           `yaml:"next"` // empty = last level
	Asteroids     int              `yaml:"asteroids"`
	Enemies       int              `yaml:"enemies"`
	SpawnInterval int              `yaml:"spawn_interval"` // ticks between spawns
	Asteroid      AsteroidTemplate `yaml:"asteroid"`
	Enemy         EnemyTemplate    `yaml:"enemy"`
}

type levelListFile struct {
	Levels []LevelTemplate `yaml:"levels"`
}

// LevelTable holds all level templates indexed by ID, in file order.
type LevelTable struct {
	levels map[string]*LevelTemplate
	order  []string
}

// LoadLevelTable loads level templates from a YAML file.
func LoadLevelTable(path string) (*LevelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level list: %w", err)
	}
	t, err := ParseLevelTable(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseLevelTable decodes and validates a level list.
func ParseLevelTable(raw []byte) (*LevelTable, error) {
	var f levelListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level list: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, errors.New("level list is empty")
	}
	t := &LevelTable{
		levels: make(map[string]*LevelTemplate, len(f.Levels)),
		order:  make([]string, 0, len(f.Levels)),
	}
	for i := range f.Levels {
		lv := &f.Levels[i]
		if lv.ID == "" {
			return nil, fmt.Errorf("level %d has no id", i)
		}
		if _, dup := t.levels[lv.ID]; dup {
			return nil, fmt.Errorf("duplicate level id %q", lv.ID)
		}
		if lv.Name == "" {
			lv.Name = lv.ID
		}
		if lv.SpawnInterval <= 0 {
			lv.SpawnInterval = 30
		}
		t.levels[lv.ID] = lv
		t.order = append(t.order, lv.ID)
	}
	for _, id := range t.order {
		lv := t.levels[id]
		if lv.Next == "" {
			continue
		}
		if _, ok := t.levels[lv.Next]; !ok {
			return nil, fmt.Errorf("level %q: next level %q not found", id, lv.Next)
		}
	}
	return t, nil
}

// Get returns a template by ID, or nil.
func (t *LevelTable) Get(id string) *LevelTemplate {
	return t.levels[id]
}

// First returns the first level in file order.
func (t *LevelTable) First() *LevelTemplate {
	return t.levels[t.order[0]]
}

func (t *LevelTable) Count() int {
	return len(t.levels)
}
