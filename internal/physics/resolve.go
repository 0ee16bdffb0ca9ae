// Package physics is the per-tick collision pass over the entity registry.
package physics

import "github.com/uts2120/game/internal/world"

// Resolve runs one collision/physics pass and returns the lateral
// acceleration applied to the player.
//
// Order is fixed: tilt acceleration, laser shots against asteroids and
// enemies, enemy shots against the player and asteroids, pickups, then the
// player ramming asteroids and enemies. Every pair is tested; nothing exits
// early, so one shot may hit several targets in the same tick. Shots and
// targets marked for removal stay in the collections until the next reap.
func Resolve(g *world.Game, tiltDeltaX, sensitivity float64) float64 {
	player := g.Player()

	accelX := tiltDeltaX * sensitivity
	player.IncVelocityX(accelX)

	for _, shot := range g.LaserShots() {
		for _, a := range g.Asteroids() {
			if shot.Intersects(a.HitBox()) {
				shot.Hit(a)
			}
		}
		for _, e := range g.Enemies() {
			if shot.Intersects(e.HitBox()) {
				shot.Hit(e)
			}
		}
	}

	// An enemy shot already marked is still tested against the remaining
	// asteroids; the mark is idempotent and Destroy scores once.
	for _, shot := range g.EnemyShots() {
		if shot.Intersects(player.HitBox()) {
			player.Damage(shot.Damage)
			shot.SetRemove(true)
		}
		for _, a := range g.Asteroids() {
			if shot.Intersects(a.HitBox()) {
				a.DecHealth(shot.Damage)
				shot.SetRemove(true)
			}
		}
	}

	for _, p := range g.PickUps() {
		if p.Intersects(player.HitBox()) {
			p.PickUp()
		}
	}

	for _, a := range g.Asteroids() {
		if a.Intersects(player.HitBox()) {
			player.Collide(a)
		}
	}
	for _, e := range g.Enemies() {
		if e.Intersects(player.HitBox()) {
			player.Collide(e)
		}
	}

	return accelX
}
