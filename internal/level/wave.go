// Package level turns YAML level templates into playable stages.
package level

import (
	"github.com/uts2120/game/internal/data"
	"github.com/uts2120/game/internal/input"
	"github.com/uts2120/game/internal/world"
)

// BrainFactory picks the enemy brain named in a template. Unknown names fall
// back to world.ChaseBrain.
type BrainFactory func(name string, speed float64) world.Brain

// Wave spawns a level's quota of asteroids and enemies at a fixed cadence
// and completes once everything has been spawned and cleared.
type Wave struct {
	tmpl   *data.LevelTemplate
	table  *data.LevelTable
	brains BrainFactory

	tick             int
	asteroidsSpawned int
	enemiesSpawned   int
	completed        bool
	lastTilt         input.TiltSample
	lastDelta        input.TiltDelta
}

// New builds the level for tmpl. table resolves the next level.
func New(tmpl *data.LevelTemplate, table *data.LevelTable, brains BrainFactory) *Wave {
	return &Wave{tmpl: tmpl, table: table, brains: brains}
}

// First builds the first level of table.
func First(table *data.LevelTable, brains BrainFactory) *Wave {
	return New(table.First(), table, brains)
}

func (w *Wave) Name() string { return w.tmpl.Name }

// ID is the template id.
func (w *Wave) ID() string { return w.tmpl.ID }

func (w *Wave) Initialize(g *world.Game) {
	w.tick = 0
	w.asteroidsSpawned = 0
	w.enemiesSpawned = 0
	w.completed = false
	g.NewBanner(w.tmpl.Name, 60)
}

// Update spawns one entity every SpawnInterval ticks, alternating enemies in
// among the asteroids until both quotas are met.
func (w *Wave) Update(g *world.Game) {
	w.tick++
	if w.tick%w.tmpl.SpawnInterval != 0 {
		return
	}
	spawnEnemy := w.enemiesSpawned < w.tmpl.Enemies &&
		(w.asteroidsSpawned >= w.tmpl.Asteroids || (w.asteroidsSpawned+1)%4 == 0)

	switch {
	case spawnEnemy:
		w.spawnEnemy(g)
	case w.asteroidsSpawned < w.tmpl.Asteroids:
		w.spawnAsteroid(g)
	}
}

func (w *Wave) spawnAsteroid(g *world.Game) {
	t := w.tmpl.Asteroid
	x := w.spawnX(g, t.Size)
	g.NewAsteroid(x, g.Bounds.Top-t.Size/2, world.AsteroidSpec{
		Size:            t.Size,
		Health:          t.Health,
		Speed:           t.Speed,
		Score:           t.Score,
		CollisionDamage: t.CollisionDamage,
		DropChance:      t.DropChance,
	})
	w.asteroidsSpawned++
}

func (w *Wave) spawnEnemy(g *world.Game) {
	t := w.tmpl.Enemy
	x := w.spawnX(g, t.Size)
	var brain world.Brain
	if w.brains != nil {
		brain = w.brains(t.Brain, t.Speed*4)
	}
	if brain == nil {
		brain = world.ChaseBrain{Speed: t.Speed * 4}
	}
	g.NewEnemy(x, g.Bounds.Top-t.Size/2, world.EnemySpec{
		Size:            t.Size,
		Health:          t.Health,
		Speed:           t.Speed,
		Score:           t.Score,
		CollisionDamage: t.CollisionDamage,
		FireCooldown:    t.FireCooldown,
		ShotDamage:      t.ShotDamage,
		ShotSpeed:       t.ShotSpeed,
	}, brain)
	w.enemiesSpawned++
}

func (w *Wave) spawnX(g *world.Game, size float64) float64 {
	span := g.Bounds.Width() - size
	if span <= 0 {
		return g.Bounds.CenterX()
	}
	return g.Bounds.Left + size/2 + g.Rand().Float64()*span
}

// IsComplete is true once both quotas are spawned and nothing hostile
// remains in play or in the pending queue.
func (w *Wave) IsComplete(g *world.Game) bool {
	if w.asteroidsSpawned < w.tmpl.Asteroids || w.enemiesSpawned < w.tmpl.Enemies {
		return false
	}
	if len(g.Asteroids()) > 0 || len(g.Enemies()) > 0 {
		return false
	}
	return g.PendingCount() == 0 && !g.Player().Dead
}

func (w *Wave) Complete(g *world.Game) {
	w.completed = true
	g.NewBanner(w.tmpl.Name+" complete", 45)
}

// NextLevel builds a fresh Wave for the template's successor.
func (w *Wave) NextLevel() world.Level {
	if w.tmpl.Next == "" || w.table == nil {
		return nil
	}
	next := w.table.Get(w.tmpl.Next)
	if next == nil {
		return nil
	}
	return New(next, w.table, w.brains)
}

// Tilt records the latest accelerometer reading for the debug overlay.
func (w *Wave) Tilt(raw input.TiltSample, d input.TiltDelta) {
	w.lastTilt = raw
	w.lastDelta = d
}

// LastTilt returns the last reading passed to Tilt.
func (w *Wave) LastTilt() (input.TiltSample, input.TiltDelta) {
	return w.lastTilt, w.lastDelta
}

// Spawned reports progress toward the quotas.
func (w *Wave) Spawned() (asteroids, enemies int) {
	return w.asteroidsSpawned, w.enemiesSpawned
}
