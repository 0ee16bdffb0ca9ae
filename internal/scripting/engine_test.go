package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/uts2120/game/internal/world"
)

func TestEnemyAIFromSource(t *testing.T) {
	e, err := NewEngineFromSource(`
function enemy_ai(ctx)
  return { vx = ctx.player.x - ctx.x, fire = ctx.cooldown == 0 }
end`, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngineFromSource: %v", err)
	}
	defer e.Close()

	d, ok := e.EnemyAI(AIContext{X: 10, PlayerX: 12.5})
	if !ok || d.VX != 2.5 || !d.Fire {
		t.Fatalf("decision = %+v (ok %v), want vx 2.5 and fire", d, ok)
	}
	d, _ = e.EnemyAI(AIContext{X: 10, PlayerX: 10, Cooldown: 3})
	if d.Fire {
		t.Fatal("fired while cooling down")
	}
}

func TestEnemyAIFallbacks(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing function", `x = 1`},
		{"runtime error", `function enemy_ai(ctx) error("boom") end`},
		{"non-table result", `function enemy_ai(ctx) return 7 end`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngineFromSource(tt.src, zap.NewNop())
			if err != nil {
				t.Fatalf("NewEngineFromSource: %v", err)
			}
			defer e.Close()
			if d, ok := e.EnemyAI(AIContext{X: 1, PlayerX: 5}); ok || d != (AIDecision{}) {
				t.Fatalf("decision = %+v (ok %v), want a failed call", d, ok)
			}

			// The brain chases instead of freezing the enemy.
			g := world.NewGame(world.Options{Bounds: world.Rect{Right: 80, Bottom: 48}, Seed: 1})
			brain := e.Brain(1)
			en := g.NewEnemy(10, 5, world.EnemySpec{Size: 2, Health: 1, Speed: 0.2}, brain)
			want := world.ChaseBrain{Speed: 1}.Decide(en, g.Player())
			if got := brain.Decide(en, g.Player()); got != want || got.VX == 0 {
				t.Fatalf("brain decision = %+v, want chase decision %+v", got, want)
			}
		})
	}
}

func TestUpgradePrice(t *testing.T) {
	e, err := NewEngineFromSource(`
function upgrade_price(kind, level)
  if kind == "laser_speed" then
    if level == 1 then return 150 end
    if level == 2 then return 300 end
  end
  if kind == "broken" then return -5 end
  return 0
end`, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngineFromSource: %v", err)
	}
	defer e.Close()

	tests := []struct {
		kind  string
		level int
		want  int
	}{
		{"laser_speed", 1, 150},
		{"laser_speed", 2, 300},
		{"laser_speed", 3, 0},
		{"broken", 1, 0},
		{"unknown", 1, 0},
	}
	for _, tt := range tests {
		got, ok := e.UpgradePrice(tt.kind, tt.level)
		if !ok || got != tt.want {
			t.Errorf("UpgradePrice(%q, %d) = %d (ok %v), want %d", tt.kind, tt.level, got, ok, tt.want)
		}
	}
}

type staticPrices map[string]int

func (s staticPrices) UpgradePrice(kind string, _ int) int { return s[kind] }

func TestPricerFallsBack(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"script answers", `function upgrade_price(kind, level) return 40 * level end`, 80},
		{"script says not for sale", `function upgrade_price(kind, level) return 0 end`, 0},
		{"missing function", `x = 1`, 150},
		{"runtime error", `function upgrade_price(kind, level) error("boom") end`, 150},
		{"non-number result", `function upgrade_price(kind, level) return "cheap" end`, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEngineFromSource(tt.src, zap.NewNop())
			if err != nil {
				t.Fatalf("NewEngineFromSource: %v", err)
			}
			defer e.Close()

			p := e.Pricer(staticPrices{"laser_speed": 150})
			if got := p.UpgradePrice("laser_speed", 2); got != tt.want {
				t.Fatalf("UpgradePrice = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewEngineLoadsDirectories(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "core", "util.lua"), `function double(v) return v * 2 end`)
	mustWrite(t, filepath.Join(dir, "shop", "price.lua"), `function upgrade_price(kind, level) return double(level) end`)
	mustWrite(t, filepath.Join(dir, "shop", "notes.txt"), `not lua`)

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if !e.Has("double") || !e.Has("upgrade_price") {
		t.Fatal("scripts not loaded")
	}
	if e.Has("enemy_ai") {
		t.Fatal("Has reported an undefined function")
	}
	if got, _ := e.UpgradePrice("hull", 4); got != 8 {
		t.Fatalf("UpgradePrice = %d, want 8", got)
	}
}

func TestNewEngineReportsBrokenScript(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "ai", "bad.lua"), `function enemy_ai(`)
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("syntax error not reported")
	}
}

func TestShippedScripts(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if got, _ := e.UpgradePrice("laser_speed", 1); got != 150 {
		t.Fatalf("laser_speed level 1 = %d, want 150", got)
	}
	if got, _ := e.UpgradePrice("laser_speed", 2); got != 300 {
		t.Fatalf("laser_speed level 2 = %d, want 300", got)
	}
	d, _ := e.EnemyAI(AIContext{X: 10, Y: 5, PlayerX: 10, PlayerY: 40, Speed: 1, FieldWidth: 80, FieldHeight: 48})
	if !d.Fire || d.VX != 0 {
		t.Fatalf("aligned enemy decision = %+v, want fire with no drift", d)
	}
}

func mustWrite(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
