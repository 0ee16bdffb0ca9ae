package world

import (
	"math/rand/v2"

	"github.com/uts2120/game/internal/core/ecs"
	"github.com/uts2120/game/internal/core/event"
)

// Options configures a new session.
type Options struct {
	Bounds Rect
	Player PlayerSpec
	Seed   uint64
}

// Game is the session object: entity registry, score and the current level.
// Accessed only from the game loop goroutine, so no locks.
type Game struct {
	Bounds Rect
	Bus    *event.Bus

	// Started is set once the first level has been entered. Paused mirrors
	// the loop's pause flag so a restarted loop resumes in the same state.
	Started bool
	Paused  bool

	ids  *ecs.EntityPool
	rng  *rand.Rand
	seed uint64
	spec PlayerSpec

	player     *Player
	enemies    []*Enemy
	asteroids  []*Asteroid
	shots      []*Shot
	enemyShots []*EnemyShot
	pickUps    []*PickUp
	animations []*Animation
	pending    []Entity

	level Level

	score     int
	credits   int
	highScore int
	ticks     uint64
}

func NewGame(opts Options) *Game {
	if opts.Player == (PlayerSpec{}) {
		opts.Player = DefaultPlayerSpec
	}
	g := &Game{
		Bounds: opts.Bounds,
		Bus:    event.NewBus(),
		ids:    ecs.NewEntityPool(),
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		seed:   opts.Seed,
		spec:   opts.Player,
	}
	g.player = newPlayer(g, g.spec)
	g.player.id = g.ids.Create()

	event.Subscribe(g.Bus, func(e event.AsteroidDestroyed) { g.addScore(e.Score) })
	event.Subscribe(g.Bus, func(e event.EnemyDestroyed) { g.addScore(e.Score) })
	return g
}

// ── Accessors ────────────────────────────────────────────────────────

func (g *Game) Player() *Player          { return g.player }
func (g *Game) Enemies() []*Enemy        { return g.enemies }
func (g *Game) Asteroids() []*Asteroid   { return g.asteroids }
func (g *Game) LaserShots() []*Shot      { return g.shots }
func (g *Game) EnemyShots() []*EnemyShot { return g.enemyShots }
func (g *Game) PickUps() []*PickUp       { return g.pickUps }
func (g *Game) Animations() []*Animation { return g.animations }
func (g *Game) CurrentLevel() Level      { return g.level }
func (g *Game) Rand() *rand.Rand         { return g.rng }
func (g *Game) Ticks() uint64            { return g.ticks }
func (g *Game) Score() int               { return g.score }
func (g *Game) Credits() int             { return g.credits }
func (g *Game) HighScore() int           { return g.highScore }
func (g *Game) PendingCount() int        { return len(g.pending) }
func (g *Game) LiveEntities() int        { return g.ids.Live() }
func (g *Game) SetLevel(l Level)         { g.level = l }
func (g *Game) SetHighScore(score int)   { g.highScore = score }

// ── Score ────────────────────────────────────────────────────────────

func (g *Game) addScore(n int) {
	g.score += n
	g.credits += n
	if g.score > g.highScore {
		g.highScore = g.score
	}
}

func (g *Game) AddCredits(n int) {
	g.credits += n
}

// SpendCredits deducts n if the balance covers it.
func (g *Game) SpendCredits(n int) bool {
	if n < 0 || g.credits < n {
		return false
	}
	g.credits -= n
	return true
}

// DispatchEvents delivers last tick's events to subscribers.
func (g *Game) DispatchEvents() {
	g.Bus.SwapBuffers()
	g.Bus.DispatchAll()
}

// Update is the per-tick session update.
func (g *Game) Update() {
	g.ticks++
	if g.score > g.highScore {
		g.highScore = g.score
	}
}

// ── Pending + commit ─────────────────────────────────────────────────

// Add queues e for insertion at the next commit. Entities created while the
// collections are being iterated (enemy shots in the AI phase, pickups in
// physics) therefore never disturb that iteration.
func (g *Game) Add(e Entity) {
	g.pending = append(g.pending, e)
}

// AddEntitiesFromPending commits every queued entity.
func (g *Game) AddEntitiesFromPending() {
	for _, e := range g.pending {
		e.body().id = g.ids.Create()
		switch v := e.(type) {
		case *Enemy:
			g.enemies = append(g.enemies, v)
		case *Asteroid:
			g.asteroids = append(g.asteroids, v)
		case *Shot:
			g.shots = append(g.shots, v)
		case *EnemyShot:
			g.enemyShots = append(g.enemyShots, v)
		case *PickUp:
			g.pickUps = append(g.pickUps, v)
		case *Animation:
			g.animations = append(g.animations, v)
		}
	}
	clear(g.pending)
	g.pending = g.pending[:0]
}

// AddAnimation inserts an animation immediately. Only call it outside the
// animation phase.
func (g *Game) AddAnimation(a *Animation) {
	a.id = g.ids.Create()
	g.animations = append(g.animations, a)
}

// UpdateEntities updates every non-player entity and reaps the removed ones.
// Animations are advanced separately by the animation phase.
func (g *Game) UpdateEntities() {
	for _, e := range g.enemies {
		e.Update()
	}
	for _, a := range g.asteroids {
		a.Update()
	}
	for _, s := range g.shots {
		s.Update()
	}
	for _, s := range g.enemyShots {
		s.Update()
	}
	for _, p := range g.pickUps {
		p.Update()
	}
	g.enemies = reap(g, g.enemies)
	g.asteroids = reap(g, g.asteroids)
	g.shots = reap(g, g.shots)
	g.enemyShots = reap(g, g.enemyShots)
	g.pickUps = reap(g, g.pickUps)
}

// RemoveFinishedAnimations advances nothing; it drops animations whose
// completion condition holds and releases their ids.
func (g *Game) RemoveFinishedAnimations() {
	kept := g.animations[:0]
	for _, a := range g.animations {
		if a.Done() {
			g.ids.Destroy(a.id)
			continue
		}
		kept = append(kept, a)
	}
	clear(g.animations[len(kept):])
	g.animations = kept
}

func reap[T Entity](g *Game, list []T) []T {
	kept := list[:0]
	for _, e := range list {
		if e.Removed() {
			g.ids.Destroy(e.ID())
			continue
		}
		kept = append(kept, e)
	}
	clear(list[len(kept):])
	return kept
}

// ── Session lifecycle ────────────────────────────────────────────────

// GameReset starts a fresh session: new ship, no entities, zero score.
// The high score survives.
func (g *Game) GameReset() {
	g.clearEntities()
	g.ids.Reset()
	g.Bus.Reset()
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	g.player = newPlayer(g, g.spec)
	g.player.id = g.ids.Create()
	g.score = 0
	g.credits = 0
	g.level = nil
	g.Started = false
	g.Paused = false
}

// LevelReset clears the playfield and repairs the ship for a retry.
// Upgrades and credits are kept.
func (g *Game) LevelReset() {
	g.clearEntities()
	g.Bus.Reset()
	g.player.revive()
}

// LevelExit clears the playfield when leaving a completed level.
func (g *Game) LevelExit() {
	g.clearEntities()
	g.player.placeAtStart()
}

func (g *Game) clearEntities() {
	for _, list := range [][]Entity{
		entities(g.enemies), entities(g.asteroids), entities(g.shots),
		entities(g.enemyShots), entities(g.pickUps), entities(g.animations),
	} {
		for _, e := range list {
			g.ids.Destroy(e.ID())
		}
	}
	g.enemies = nil
	g.asteroids = nil
	g.shots = nil
	g.enemyShots = nil
	g.pickUps = nil
	g.animations = nil
	g.pending = nil
}

func entities[T Entity](list []T) []Entity {
	out := make([]Entity, len(list))
	for i, e := range list {
		out[i] = e
	}
	return out
}

// ── Spawning ─────────────────────────────────────────────────────────

func (g *Game) NewAsteroid(x, y float64, spec AsteroidSpec) *Asteroid {
	a := &Asteroid{g: g, Health: spec.Health, Spec: spec}
	a.X, a.Y, a.W, a.H = x, y, spec.Size, spec.Size
	a.VY = spec.Speed
	g.Add(a)
	return a
}

func (g *Game) NewEnemy(x, y float64, spec EnemySpec, brain Brain) *Enemy {
	e := &Enemy{g: g, Health: spec.Health, Spec: spec, brain: brain}
	e.X, e.Y, e.W, e.H = x, y, spec.Size, spec.Size
	e.VY = spec.Speed
	g.Add(e)
	return e
}

func (g *Game) NewShot(x, y, speed float64, damage int) *Shot {
	s := &Shot{g: g, Damage: damage}
	s.X, s.Y, s.W, s.H = x, y, 0.5, 1
	s.VY = -speed
	g.Add(s)
	return s
}

func (g *Game) NewEnemyShot(x, y, speed float64, damage int) *EnemyShot {
	s := &EnemyShot{g: g, Damage: damage}
	s.X, s.Y, s.W, s.H = x, y, 0.5, 1
	s.VY = speed
	g.Add(s)
	return s
}

func (g *Game) NewPickUp(x, y float64, kind PickUpKind) *PickUp {
	p := &PickUp{g: g, Type: kind}
	switch kind {
	case PickUpHealth:
		p.Amount = pickUpHealAmount
	default:
		p.Amount = pickUpCreditAmount
	}
	p.X, p.Y, p.W, p.H = x, y, pickUpSize, pickUpSize
	p.VY = pickUpFallSpeed
	g.Add(p)
	return p
}

// NewExplosion queues a gameplay explosion animation.
func (g *Game) NewExplosion(x, y, size float64) *Animation {
	a := &Animation{Style: AnimExplosion, Frames: 8}
	a.X, a.Y, a.W, a.H = x, y, size, size
	g.Add(a)
	return a
}

// NewText queues a floating text animation. UI text keeps moving while
// paused and is inserted immediately.
func (g *Game) NewText(x, y float64, label string, ui bool) *Animation {
	a := &Animation{Style: AnimText, Label: label, Frames: 20, UI: ui}
	a.X, a.Y, a.W, a.H = x, y, float64(len(label)), 1
	a.VY = -0.2
	if ui {
		g.AddAnimation(a)
	} else {
		g.Add(a)
	}
	return a
}

// NewBanner shows a UI banner across the playfield.
func (g *Game) NewBanner(label string, frames int) *Animation {
	a := &Animation{Style: AnimBanner, Label: label, Frames: frames, UI: true}
	a.X, a.Y = g.Bounds.CenterX(), g.Bounds.CenterY()
	a.W, a.H = float64(len(label)), 1
	g.AddAnimation(a)
	return a
}
