package world

import "github.com/uts2120/game/internal/core/event"

// EnemySpec describes one enemy type.
type EnemySpec struct {
	Size            float64
	Health          int
	Speed           float64 // downward drift per tick
	Score           int
	CollisionDamage int
	FireCooldown    int // ticks between shots
	ShotDamage      int
	ShotSpeed       float64
}

// Decision is what an enemy brain wants this tick.
type Decision struct {
	VX   float64
	Fire bool
}

// Brain decides enemy behaviour once per AI phase.
type Brain interface {
	Decide(e *Enemy, p *Player) Decision
}

// ChaseBrain drifts toward the player and fires when roughly above it.
type ChaseBrain struct {
	Speed float64
}

func (c ChaseBrain) Decide(e *Enemy, p *Player) Decision {
	if p == nil || p.Dead {
		return Decision{}
	}
	dx := p.X - e.X
	d := Decision{}
	switch {
	case dx > c.Speed:
		d.VX = c.Speed
	case dx < -c.Speed:
		d.VX = -c.Speed
	default:
		d.VX = dx
	}
	d.Fire = dx < e.W && dx > -e.W
	return d
}

type Enemy struct {
	Body
	g *Game

	Health int
	Spec   EnemySpec

	brain    Brain
	cooldown int
}

func (e *Enemy) Kind() Kind           { return KindEnemy }
func (e *Enemy) CollisionDamage() int { return e.Spec.CollisionDamage }

// Field returns the playfield bounds the enemy moves in.
func (e *Enemy) Field() Rect { return e.g.Bounds }

// Cooldown reports ticks left until the enemy may fire again.
func (e *Enemy) Cooldown() int { return e.cooldown }

// AI asks the brain for a decision and acts on it. Shots go through the
// pending queue and appear next tick.
func (e *Enemy) AI() {
	if e.remove || e.brain == nil {
		return
	}
	d := e.brain.Decide(e, e.g.player)
	e.VX = d.VX
	if d.Fire && e.cooldown == 0 && e.Spec.ShotDamage > 0 {
		e.g.NewEnemyShot(e.X, e.Y+e.H/2, e.Spec.ShotSpeed, e.Spec.ShotDamage)
		e.cooldown = e.Spec.FireCooldown
	}
}

func (e *Enemy) Update() {
	if e.cooldown > 0 {
		e.cooldown--
	}
	e.move()
	if e.outside(e.g.Bounds) && e.Y > e.g.Bounds.Bottom {
		e.remove = true
	}
}

func (e *Enemy) Damage(n int) {
	if e.remove {
		return
	}
	e.Health -= n
	if e.Health <= 0 {
		e.Destroy()
	}
}

// Destroy removes the enemy with an explosion. Only the first call scores.
func (e *Enemy) Destroy() {
	if e.remove {
		return
	}
	e.remove = true
	e.Health = 0
	e.g.NewExplosion(e.X, e.Y, e.W)
	event.Emit(e.g.Bus, event.EnemyDestroyed{EntityID: e.id, X: e.X, Y: e.Y, Score: e.Spec.Score})
}
