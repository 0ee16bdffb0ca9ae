package world

// Shot is a player laser bolt travelling up.
type Shot struct {
	Body
	g *Game

	Damage int
}

func (s *Shot) Kind() Kind { return KindShot }

func (s *Shot) Update() {
	s.move()
	if s.outside(s.g.Bounds) {
		s.remove = true
	}
}

// Hit applies the shot's damage to target and marks the shot spent. A shot
// stays testable for the rest of the tick, so it can hit several targets.
func (s *Shot) Hit(target Damageable) {
	target.Damage(s.Damage)
	s.remove = true
}

// EnemyShot travels down toward the player.
type EnemyShot struct {
	Body
	g *Game

	Damage int
}

func (s *EnemyShot) Kind() Kind { return KindEnemyShot }

func (s *EnemyShot) Update() {
	s.move()
	if s.outside(s.g.Bounds) {
		s.remove = true
	}
}
