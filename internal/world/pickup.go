package world

import "github.com/uts2120/game/internal/core/event"

// PickUpKind selects the pickup effect.
type PickUpKind uint8

const (
	PickUpCredits PickUpKind = iota
	PickUpHealth
)

func (k PickUpKind) String() string {
	switch k {
	case PickUpCredits:
		return "credits"
	case PickUpHealth:
		return "health"
	}
	return "unknown"
}

const (
	pickUpCreditAmount = 25
	pickUpHealAmount   = 3
	pickUpFallSpeed    = 0.3
	pickUpSize         = 2.0
)

type PickUp struct {
	Body
	g *Game

	Type   PickUpKind
	Amount int
}

func (p *PickUp) Kind() Kind { return KindPickUp }

func (p *PickUp) Update() {
	p.move()
	if p.outside(p.g.Bounds) {
		p.remove = true
	}
}

// PickUp applies the effect to the player once.
func (p *PickUp) PickUp() {
	if p.remove {
		return
	}
	p.remove = true
	switch p.Type {
	case PickUpCredits:
		p.g.AddCredits(p.Amount)
	case PickUpHealth:
		p.g.player.Heal(p.Amount)
	}
	p.g.NewText(p.X, p.Y, "+"+p.Type.String(), false)
	event.Emit(p.g.Bus, event.PickupCollected{EntityID: p.id, Kind: p.Type.String(), Amount: p.Amount})
}
