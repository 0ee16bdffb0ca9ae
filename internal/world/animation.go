package world

// AnimationStyle selects how the presentation layer shows an animation.
type AnimationStyle uint8

const (
	AnimExplosion AnimationStyle = iota
	AnimText
	AnimBanner
)

// Animation is a short-lived visual. UI animations keep running while the
// game is paused; gameplay ones freeze.
type Animation struct {
	Body

	Style  AnimationStyle
	Label  string
	Frame  int
	Frames int  // 0 means until removed
	UI     bool // progresses while paused
}

func (a *Animation) Kind() Kind { return KindAnimation }

// Update is the Updatable hook; animations advance in Animate instead.
func (a *Animation) Update() {}

// Animate advances one frame.
func (a *Animation) Animate() {
	a.Frame++
	a.move()
	if a.Style == AnimExplosion {
		a.W += 0.5
		a.H += 0.5
	}
}

// Done is the removal condition.
func (a *Animation) Done() bool {
	return a.remove || (a.Frames > 0 && a.Frame >= a.Frames)
}
