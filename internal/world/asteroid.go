package world

import "github.com/uts2120/game/internal/core/event"

// AsteroidSpec describes one asteroid type.
type AsteroidSpec struct {
	Size            float64
	Health          int
	Speed           float64
	Score           int
	CollisionDamage int
	DropChance      float64 // 0..1 chance to leave a pickup
}

type Asteroid struct {
	Body
	g *Game

	Health int
	Spec   AsteroidSpec
}

func (a *Asteroid) Kind() Kind           { return KindAsteroid }
func (a *Asteroid) CollisionDamage() int { return a.Spec.CollisionDamage }

func (a *Asteroid) Update() {
	a.move()
	if a.outside(a.g.Bounds) && a.Y > a.g.Bounds.Bottom {
		a.remove = true
	}
}

// DecHealth chips the asteroid; it breaks up at zero.
func (a *Asteroid) DecHealth(n int) {
	a.Health -= n
	if a.Health <= 0 {
		a.Destroy()
	}
}

func (a *Asteroid) Damage(n int) { a.DecHealth(n) }

// Destroy breaks the asteroid up, possibly leaving a pickup. Only the first
// call scores.
func (a *Asteroid) Destroy() {
	if a.remove {
		return
	}
	a.remove = true
	if a.Health > 0 {
		a.Health = 0
	}
	a.g.NewExplosion(a.X, a.Y, a.W)
	if a.Spec.DropChance > 0 && a.g.rng.Float64() < a.Spec.DropChance {
		kind := PickUpCredits
		if a.g.rng.IntN(3) == 0 {
			kind = PickUpHealth
		}
		a.g.NewPickUp(a.X, a.Y, kind)
	}
	event.Emit(a.g.Bus, event.AsteroidDestroyed{EntityID: a.id, X: a.X, Y: a.Y, Score: a.Spec.Score})
}
