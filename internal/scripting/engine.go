package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/uts2120/game/internal/world"
)

// Engine wraps a single gopher-lua VM holding the game's tuning formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// Core helpers first, then feature scripts that may use them.
	for _, sub := range []string{"core", "ai", "shop"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromSource creates an engine from inline Lua source.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// AIContext holds pre-packed data for one enemy decision.
type AIContext struct {
	X, Y        float64
	Health      int
	Cooldown    int // ticks until the enemy may fire
	PlayerX     float64
	PlayerY     float64
	PlayerDead  bool
	Speed       float64 // suggested horizontal speed
	FieldWidth  float64
	FieldHeight float64
}

// AIDecision is returned by the Lua enemy_ai function.
type AIDecision struct {
	VX   float64
	Fire bool
}

// EnemyAI calls Lua enemy_ai(ctx). ok is false when the function is
// missing, fails or returns something other than a table.
func (e *Engine) EnemyAI(ctx AIContext) (d AIDecision, ok bool) {
	fn := e.vm.GetGlobal("enemy_ai")
	if fn == lua.LNil {
		e.log.Error("lua function enemy_ai not found")
		return AIDecision{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("cooldown", lua.LNumber(ctx.Cooldown))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("field_width", lua.LNumber(ctx.FieldWidth))
	t.RawSetString("field_height", lua.LNumber(ctx.FieldHeight))

	player := e.vm.NewTable()
	player.RawSetString("x", lua.LNumber(ctx.PlayerX))
	player.RawSetString("y", lua.LNumber(ctx.PlayerY))
	player.RawSetString("dead", lua.LBool(ctx.PlayerDead))
	t.RawSetString("player", player)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua enemy_ai error", zap.Error(err))
		return AIDecision{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, isTable := result.(*lua.LTable)
	if !isTable {
		e.log.Error("lua enemy_ai returned non-table", zap.String("type", result.Type().String()))
		return AIDecision{}, false
	}

	return AIDecision{
		VX:   lFloat(rt, "vx"),
		Fire: lua.LVAsBool(rt.RawGetString("fire")),
	}, true
}

// UpgradePrice calls Lua upgrade_price(kind, level) for the price of buying
// the given upgrade at its current level. Zero means not for sale; negative
// prices clamp to zero. ok is false when the script could not answer.
func (e *Engine) UpgradePrice(kind string, level int) (price int, ok bool) {
	fn := e.vm.GetGlobal("upgrade_price")
	if fn == lua.LNil {
		e.log.Error("lua function upgrade_price not found")
		return 0, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(kind), lua.LNumber(level)); err != nil {
		e.log.Error("lua upgrade_price error", zap.String("kind", kind), zap.Error(err))
		return 0, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, isNumber := result.(lua.LNumber)
	if !isNumber {
		e.log.Error("lua upgrade_price returned non-number",
			zap.String("kind", kind),
			zap.String("type", result.Type().String()),
		)
		return 0, false
	}
	if n < 0 {
		return 0, true
	}
	return int(n), true
}

// PriceSource prices an upgrade at a level.
type PriceSource interface {
	UpgradePrice(kind string, level int) int
}

// Pricer adapts upgrade_price to a PriceSource, asking fallback whenever the
// script cannot answer.
func (e *Engine) Pricer(fallback PriceSource) PriceSource {
	return scriptPricer{eng: e, fallback: fallback}
}

type scriptPricer struct {
	eng      *Engine
	fallback PriceSource
}

func (p scriptPricer) UpgradePrice(kind string, level int) int {
	if price, ok := p.eng.UpgradePrice(kind, level); ok {
		return price
	}
	return p.fallback.UpgradePrice(kind, level)
}

// Brain adapts enemy_ai to world.Brain. When the script fails the enemy
// chases like world.ChaseBrain.
func (e *Engine) Brain(speed float64) world.Brain {
	return scriptBrain{eng: e, speed: speed, fallback: world.ChaseBrain{Speed: speed}}
}

type scriptBrain struct {
	eng      *Engine
	speed    float64
	fallback world.Brain
}

func (b scriptBrain) Decide(en *world.Enemy, p *world.Player) world.Decision {
	ctx := AIContext{
		X:        en.X,
		Y:        en.Y,
		Health:   en.Health,
		Cooldown: en.Cooldown(),
		Speed:    b.speed,
	}
	field := en.Field()
	ctx.FieldWidth, ctx.FieldHeight = field.Width(), field.Height()
	if p != nil {
		ctx.PlayerX, ctx.PlayerY, ctx.PlayerDead = p.X, p.Y, p.Dead
	}
	d, ok := b.eng.EnemyAI(ctx)
	if !ok {
		return b.fallback.Decide(en, p)
	}
	return world.Decision{VX: d.VX, Fire: d.Fire}
}

// --- Lua helpers ---

// lFloat reads a number field from a Lua table.
func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
