package physics

import (
	"math"
	"testing"

	"github.com/uts2120/game/internal/world"
)

var field = world.Rect{Left: 0, Top: 0, Right: 80, Bottom: 48}

func newGame(t *testing.T) *world.Game {
	t.Helper()
	g := world.NewGame(world.Options{Bounds: field, Seed: 1})
	p := g.Player()
	p.X, p.Y = 40, 45
	return g
}

func rock(health, collision int) world.AsteroidSpec {
	return world.AsteroidSpec{Size: 4, Health: health, Speed: 0.1, Score: 10, CollisionDamage: collision}
}

func TestTiltAcceleration(t *testing.T) {
	g := newGame(t)
	p := g.Player()
	p.X, p.Y = 0, 0

	accel := Resolve(g, 0.1, 2.0)
	if math.Abs(accel-0.2) > 1e-9 {
		t.Fatalf("acceleration = %v, want 0.2", accel)
	}
	if math.Abs(p.VX-0.2) > 1e-9 {
		t.Fatalf("player VX = %v, want 0.2", p.VX)
	}

	Resolve(g, -0.1, 2.0)
	if math.Abs(p.VX) > 1e-9 {
		t.Fatalf("player VX = %v after opposite tilt, want 0", p.VX)
	}
}

func TestShotHitsEveryOverlappingAsteroid(t *testing.T) {
	g := newGame(t)
	a1 := g.NewAsteroid(10, 10, rock(2, 1))
	a2 := g.NewAsteroid(12, 10, rock(2, 1))
	shot := g.NewShot(11, 10, 1, 1)
	g.AddEntitiesFromPending()

	Resolve(g, 0, 2.0)

	if a1.Health != 1 || a2.Health != 1 {
		t.Fatalf("asteroid health = %d, %d; want 1, 1", a1.Health, a2.Health)
	}
	if !shot.Removed() {
		t.Fatal("shot not marked for removal")
	}
}

func TestShotHitsAsteroidAndEnemy(t *testing.T) {
	g := newGame(t)
	a := g.NewAsteroid(20, 10, rock(1, 1))
	e := g.NewEnemy(21, 10, world.EnemySpec{Size: 3, Health: 1, Score: 50}, nil)
	g.NewShot(20.5, 10, 1, 1)
	g.AddEntitiesFromPending()

	Resolve(g, 0, 2.0)

	if !a.Removed() || !e.Removed() {
		t.Fatalf("removed asteroid=%v enemy=%v, want both", a.Removed(), e.Removed())
	}
	g.DispatchEvents()
	if g.Score() != 60 {
		t.Fatalf("score = %d, want 60", g.Score())
	}
}

func TestEnemyShotHitsPlayerAndAsteroid(t *testing.T) {
	g := newGame(t)
	p := g.Player()
	// player box spans y 43.5..46.5, asteroid 41..43, shot 42.9..43.9
	a := g.NewAsteroid(40, 42, world.AsteroidSpec{Size: 2, Health: 3, CollisionDamage: 1})
	shot := g.NewEnemyShot(40, 43.4, 0, 2)
	g.AddEntitiesFromPending()

	if a.Intersects(p.HitBox()) {
		t.Fatal("test setup: asteroid must not touch the player")
	}

	Resolve(g, 0, 2.0)

	if p.Health != p.MaxHealth-2 {
		t.Fatalf("player health = %d, want %d", p.Health, p.MaxHealth-2)
	}
	if a.Health != 1 {
		t.Fatalf("asteroid health = %d, want 1", a.Health)
	}
	if !shot.Removed() {
		t.Fatal("enemy shot not marked for removal")
	}

	g.UpdateEntities()
	if n := len(g.EnemyShots()); n != 0 {
		t.Fatalf("enemy shots after reap = %d, want 0", n)
	}
}

func TestEnemyShotKeepsTestingAfterMark(t *testing.T) {
	g := newGame(t)
	a1 := g.NewAsteroid(10, 10, rock(1, 1))
	a2 := g.NewAsteroid(12, 10, rock(1, 1))
	g.NewEnemyShot(11, 10, 0, 1)
	g.AddEntitiesFromPending()

	Resolve(g, 0, 2.0)

	if !a1.Removed() || !a2.Removed() {
		t.Fatal("marked enemy shot must still be tested against later asteroids")
	}
	g.DispatchEvents()
	if g.Score() != 20 {
		t.Fatalf("score = %d, want 20", g.Score())
	}
}

func TestPickUpAndRamming(t *testing.T) {
	g := newGame(t)
	p := g.Player()
	p.Health = 5
	g.NewPickUp(40, 45, world.PickUpHealth)
	ast := g.NewAsteroid(41, 45, rock(5, 2))
	en := g.NewEnemy(39, 45, world.EnemySpec{Size: 2, Health: 5, CollisionDamage: 3}, nil)
	g.AddEntitiesFromPending()

	Resolve(g, 0, 2.0)

	// +3 heal, -2 asteroid ram, -3 enemy ram
	if p.Health != 3 {
		t.Fatalf("player health = %d, want 3", p.Health)
	}
	if !ast.Removed() || !en.Removed() {
		t.Fatal("rammed bodies not destroyed")
	}
}

func TestEdgeContactIsNotACollision(t *testing.T) {
	g := newGame(t)
	// asteroid box 10..14 and shot box 14..14.5 share only an edge
	a := g.NewAsteroid(12, 10, rock(1, 1))
	shot := g.NewShot(14.25, 10, 1, 1)
	g.AddEntitiesFromPending()

	Resolve(g, 0, 2.0)

	if a.Removed() || shot.Removed() {
		t.Fatal("touching edges counted as a hit")
	}
}
