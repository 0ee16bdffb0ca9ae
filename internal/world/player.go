package world

import "github.com/uts2120/game/internal/core/event"

// PlayerSpec configures the ship at session start.
type PlayerSpec struct {
	Width, Height float64
	MaxHealth     int
	Friction      float64 // per-tick velocity multiplier, 0..1
	MaxVelocityX  float64
	LaserCooldown int // ticks between shots at speed level 1
}

// DefaultPlayerSpec is used when the config leaves the player section empty.
var DefaultPlayerSpec = PlayerSpec{
	Width:         4,
	Height:        3,
	MaxHealth:     10,
	Friction:      0.92,
	MaxVelocityX:  2.5,
	LaserCooldown: 8,
}

// Player is the ship. It is committed directly, never through pending.
type Player struct {
	Body
	g *Game

	Health    int
	MaxHealth int
	HullLevel int
	Dead      bool

	Laser *Laser

	spec     PlayerSpec
	cooldown int
	died     bool
}

func newPlayer(g *Game, spec PlayerSpec) *Player {
	p := &Player{
		g:         g,
		Health:    spec.MaxHealth,
		MaxHealth: spec.MaxHealth,
		HullLevel: 1,
		Laser:     NewLaser(spec.LaserCooldown),
		spec:      spec,
	}
	p.W, p.H = spec.Width, spec.Height
	p.placeAtStart()
	return p
}

func (p *Player) Kind() Kind { return KindPlayer }

func (p *Player) placeAtStart() {
	p.X = p.g.Bounds.CenterX()
	p.Y = p.g.Bounds.Bottom - p.H
	p.VX, p.VY = 0, 0
}

// IncVelocityX integrates an acceleration into the horizontal velocity.
func (p *Player) IncVelocityX(a float64) {
	p.VX += a
}

// Update applies friction and the velocity cap, moves the ship and keeps it
// inside the playfield.
func (p *Player) Update() {
	if p.cooldown > 0 {
		p.cooldown--
	}
	if p.Dead {
		return
	}
	p.VX *= p.spec.Friction
	if p.spec.MaxVelocityX > 0 {
		if p.VX > p.spec.MaxVelocityX {
			p.VX = p.spec.MaxVelocityX
		} else if p.VX < -p.spec.MaxVelocityX {
			p.VX = -p.spec.MaxVelocityX
		}
	}
	p.move()

	b := p.g.Bounds
	if p.X-p.W/2 < b.Left {
		p.X = b.Left + p.W/2
		p.VX = 0
	} else if p.X+p.W/2 > b.Right {
		p.X = b.Right - p.W/2
		p.VX = 0
	}
}

// Damage removes health; the ship is dead once health reaches zero.
func (p *Player) Damage(n int) {
	if p.Dead || n <= 0 {
		return
	}
	p.Health -= n
	if p.Health <= 0 {
		p.Health = 0
		p.Dead = true
	}
	event.Emit(p.g.Bus, event.PlayerDamaged{Amount: n, Health: p.Health})
}

// Heal restores health up to the maximum.
func (p *Player) Heal(n int) {
	if p.Dead {
		return
	}
	p.Health += n
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// Collide is the ram effect: the player takes the other body's collision
// damage and the other body is destroyed.
func (p *Player) Collide(other Rammer) {
	p.Damage(other.CollisionDamage())
	other.Destroy()
}

// Die is the one-time death callback: explosion and a PlayerDied event.
func (p *Player) Die() {
	if p.died {
		return
	}
	p.died = true
	p.g.NewExplosion(p.X, p.Y, p.W*2)
	event.Emit(p.g.Bus, event.PlayerDied{X: p.X, Y: p.Y})
}

// Fire launches a laser shot if the weapon has cooled down.
func (p *Player) Fire() bool {
	if p.Dead || p.cooldown > 0 {
		return false
	}
	p.g.NewShot(p.X, p.Y-p.H/2, p.Laser.ShotSpeed(), p.Laser.ShotDamage())
	p.cooldown = p.Laser.Cooldown()
	return true
}

// MaxHullLevel caps UpgradeHull.
const MaxHullLevel = 4

// UpgradeHull raises maximum health and repairs the ship. It returns false
// once the hull is fully upgraded.
func (p *Player) UpgradeHull() bool {
	if p.HullLevel >= MaxHullLevel {
		return false
	}
	p.HullLevel++
	p.MaxHealth += 2
	p.Health = p.MaxHealth
	return true
}

// revive restores the ship for a level restart.
func (p *Player) revive() {
	p.Dead = false
	p.died = false
	p.Health = p.MaxHealth
	p.cooldown = 0
	p.remove = false
	p.placeAtStart()
}

// Laser is the player's weapon.
type Laser struct {
	speedLevel   int
	damageLevel  int
	baseCooldown int
}

const (
	MaxLaserSpeedLevel  = 3
	MaxLaserDamageLevel = 3
)

func NewLaser(baseCooldown int) *Laser {
	if baseCooldown < 1 {
		baseCooldown = 1
	}
	return &Laser{speedLevel: 1, damageLevel: 1, baseCooldown: baseCooldown}
}

func (l *Laser) SpeedLevel() int  { return l.speedLevel }
func (l *Laser) DamageLevel() int { return l.damageLevel }

// ShotSpeed is the upward shot velocity in world units per tick.
func (l *Laser) ShotSpeed() float64 { return 1.0 + 0.5*float64(l.speedLevel-1) }

func (l *Laser) ShotDamage() int { return l.damageLevel }

// Cooldown shortens by a quarter per speed level.
func (l *Laser) Cooldown() int {
	c := l.baseCooldown - (l.baseCooldown/4)*(l.speedLevel-1)
	if c < 1 {
		return 1
	}
	return c
}

// UpgradeSpeed returns false once the maximum level is reached.
func (l *Laser) UpgradeSpeed() bool {
	if l.speedLevel >= MaxLaserSpeedLevel {
		return false
	}
	l.speedLevel++
	return true
}

func (l *Laser) UpgradeDamage() bool {
	if l.damageLevel >= MaxLaserDamageLevel {
		return false
	}
	l.damageLevel++
	return true
}
