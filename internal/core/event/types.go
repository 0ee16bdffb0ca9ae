package event

import "github.com/uts2120/game/internal/core/ecs"

// Gameplay events. Emitted by entities during a tick, dispatched next tick.

type AsteroidDestroyed struct {
	EntityID ecs.EntityID
	X, Y     float64
	Score    int
}

type EnemyDestroyed struct {
	EntityID ecs.EntityID
	X, Y     float64
	Score    int
}

type PlayerDamaged struct {
	Amount int
	Health int
}

type PickupCollected struct {
	EntityID ecs.EntityID
	Kind     string
	Amount   int
}

type PlayerDied struct {
	X, Y float64
}

type LevelCompleted struct {
	Level string
	Last  bool
}

type UpgradePurchased struct {
	Upgrade string
	Level   int
	Price   int
}
