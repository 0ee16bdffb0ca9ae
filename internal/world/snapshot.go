package world

// Sprite is one drawable entity in a snapshot.
type Sprite struct {
	Kind  Kind
	Style AnimationStyle
	Box   Rect
	Label string
}

// Label is a piece of screen text, usually a menu button.
type Label struct {
	Box     Rect
	Text    string
	Enabled bool
}

// Snapshot is a copy of everything the presentation layer needs for one
// frame. It shares nothing with the live registry.
type Snapshot struct {
	Tick      uint64
	Bounds    Rect
	Sprites   []Sprite
	Health    int
	MaxHealth int
	Score     int
	HighScore int
	Credits   int
	Level     string
	Paused    bool
	Screen    string
	Title     string
	Overlay   []Label
}

// Snapshot copies the drawable state of the registry.
func (g *Game) Snapshot() Snapshot {
	n := 1 + len(g.enemies) + len(g.asteroids) + len(g.shots) +
		len(g.enemyShots) + len(g.pickUps) + len(g.animations)
	s := Snapshot{
		Tick:      g.ticks,
		Bounds:    g.Bounds,
		Sprites:   make([]Sprite, 0, n),
		Health:    g.player.Health,
		MaxHealth: g.player.MaxHealth,
		Score:     g.score,
		HighScore: g.highScore,
		Credits:   g.credits,
		Paused:    g.Paused,
	}
	if g.level != nil {
		s.Level = g.level.Name()
	}
	for _, a := range g.asteroids {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindAsteroid, Box: a.HitBox()})
	}
	for _, p := range g.pickUps {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindPickUp, Box: p.HitBox(), Label: p.Type.String()})
	}
	for _, e := range g.enemies {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindEnemy, Box: e.HitBox()})
	}
	for _, sh := range g.shots {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindShot, Box: sh.HitBox()})
	}
	for _, sh := range g.enemyShots {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindEnemyShot, Box: sh.HitBox()})
	}
	if !g.player.Dead {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindPlayer, Box: g.player.HitBox()})
	}
	for _, a := range g.animations {
		s.Sprites = append(s.Sprites, Sprite{Kind: KindAnimation, Style: a.Style, Box: a.HitBox(), Label: a.Label})
	}
	return s
}
