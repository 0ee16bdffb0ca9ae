package world

import "github.com/uts2120/game/internal/core/ecs"

// Kind tags the entity variant.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindAsteroid
	KindShot
	KindEnemyShot
	KindPickUp
	KindAnimation
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindAsteroid:
		return "asteroid"
	case KindShot:
		return "shot"
	case KindEnemyShot:
		return "enemy_shot"
	case KindPickUp:
		return "pickup"
	case KindAnimation:
		return "animation"
	}
	return "unknown"
}

// Collidable has a hitbox that can be tested against another.
type Collidable interface {
	HitBox() Rect
	Intersects(r Rect) bool
}

// Updatable advances itself by one tick.
type Updatable interface {
	Update()
}

// Damageable takes hit-point damage.
type Damageable interface {
	Damage(n int)
}

// Rammer is something the player can fly into.
type Rammer interface {
	Collidable
	CollisionDamage() int
	Destroy()
}

// Entity is the closed set of things the registry holds.
type Entity interface {
	Collidable
	Updatable
	Kind() Kind
	ID() ecs.EntityID
	Removed() bool
	SetRemove(remove bool)
	body() *Body
}

// Body is the state shared by every entity: centre position, size,
// velocity and the removal mark.
type Body struct {
	id     ecs.EntityID
	X, Y   float64
	W, H   float64
	VX, VY float64
	remove bool
}

func (b *Body) ID() ecs.EntityID       { return b.id }
func (b *Body) HitBox() Rect           { return RectAt(b.X, b.Y, b.W, b.H) }
func (b *Body) Intersects(r Rect) bool { return b.HitBox().Intersects(r) }
func (b *Body) Removed() bool          { return b.remove }
func (b *Body) SetRemove(remove bool)  { b.remove = remove }
func (b *Body) body() *Body            { return b }

func (b *Body) move() {
	b.X += b.VX
	b.Y += b.VY
}

// outside reports whether the body has fully left bounds.
func (b *Body) outside(bounds Rect) bool {
	return !b.HitBox().Intersects(bounds)
}
