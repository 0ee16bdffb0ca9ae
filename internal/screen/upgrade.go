package screen

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/uts2120/game/internal/core/event"
	"github.com/uts2120/game/internal/world"
)

// Upgrade kinds, also the keys the price formula is called with.
const (
	UpgradeLaserSpeed  = "laser_speed"
	UpgradeLaserDamage = "laser_damage"
	UpgradeHull        = "hull"
)

type upgradeItem struct {
	kind  string
	title string
	level func(p *world.Player) int
	apply func(p *world.Player) bool
}

var upgradeItems = []upgradeItem{
	{
		kind:  UpgradeLaserSpeed,
		title: "Cannon speed",
		level: func(p *world.Player) int { return p.Laser.SpeedLevel() },
		apply: func(p *world.Player) bool { return p.Laser.UpgradeSpeed() },
	},
	{
		kind:  UpgradeLaserDamage,
		title: "Cannon damage",
		level: func(p *world.Player) int { return p.Laser.DamageLevel() },
		apply: func(p *world.Player) bool { return p.Laser.UpgradeDamage() },
	},
	{
		kind:  UpgradeHull,
		title: "Hull",
		level: func(p *world.Player) int { return p.HullLevel },
		apply: func(p *world.Player) bool { return p.UpgradeHull() },
	},
}

// DefaultPrices is the built-in price table, used when no price formula is
// configured or the formula fails.
type DefaultPrices struct{}

func (DefaultPrices) UpgradePrice(kind string, level int) int {
	var table []int
	switch kind {
	case UpgradeLaserSpeed:
		table = []int{150, 300}
	case UpgradeLaserDamage:
		table = []int{200, 400}
	case UpgradeHull:
		table = []int{100, 200, 350}
	}
	if level < 1 || level > len(table) {
		return 0
	}
	return table[level-1]
}

// Upgrade is the shop reached from the level-complete menu. Each purchase
// spends credits and emits UpgradePurchased.
type Upgrade struct {
	*MenuScreen
}

func NewUpgrade() *Upgrade {
	return &Upgrade{MenuScreen: NewMenuScreen("upgrade", "Upgrades", 0)}
}

func (u *Upgrade) Enter(ctx Context) {
	u.ctx = ctx
	u.refresh()
	u.MenuScreen.Enter(ctx)
}

// refresh rebuilds labels and prices for the player's current levels.
func (u *Upgrade) refresh() {
	g := u.ctx.Ctl.Game()
	p := g.Player()
	pr := u.printer()

	buttons := make([]Button, 0, len(upgradeItems)+1)
	for _, it := range upgradeItems {
		lvl := it.level(p)
		price := u.price(it.kind, lvl)
		b := Button{}
		if price > 0 {
			b.Text = pr.Sprintf("%s (level %d): %d credits", it.title, lvl+1, price)
			b.Enabled = func(ctx Context) bool { return ctx.Ctl.Game().Credits() >= price }
			b.OnPress = func(Context) { u.buy(it) }
		} else {
			b.Text = pr.Sprintf("%s (max)", it.title)
			b.Enabled = func(Context) bool { return false }
		}
		buttons = append(buttons, b)
	}
	buttons = append(buttons, Button{Text: "Continue", OnPress: nextLevel})

	u.buttons = buttons
	u.title = pr.Sprintf("Upgrades: %d credits", g.Credits())
	if u.active {
		u.layout(g.Bounds)
	}
}

func (u *Upgrade) buy(it upgradeItem) {
	g := u.ctx.Ctl.Game()
	p := g.Player()
	lvl := it.level(p)
	price := u.price(it.kind, lvl)
	if price <= 0 {
		return
	}
	if !g.SpendCredits(price) {
		g.NewText(g.Bounds.CenterX(), g.Bounds.Top+4, "Not enough credits", true)
		return
	}
	if !it.apply(p) {
		g.AddCredits(price)
		return
	}
	u.ctx.logger().Info("upgrade purchased",
		zap.String("upgrade", it.kind),
		zap.Int("level", it.level(p)),
		zap.Int("price", price),
	)
	event.Emit(g.Bus, event.UpgradePurchased{Upgrade: it.kind, Level: it.level(p), Price: price})
	u.refresh()
}

func (u *Upgrade) price(kind string, level int) int {
	if u.ctx.Prices == nil {
		return DefaultPrices{}.UpgradePrice(kind, level)
	}
	return u.ctx.Prices.UpgradePrice(kind, level)
}

func (u *Upgrade) printer() *message.Printer {
	if u.ctx.Printer == nil {
		return message.NewPrinter(language.English)
	}
	return u.ctx.Printer
}
