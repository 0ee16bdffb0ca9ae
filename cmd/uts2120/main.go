package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/message"

	"github.com/uts2120/game/internal/audio"
	"github.com/uts2120/game/internal/config"
	"github.com/uts2120/game/internal/data"
	"github.com/uts2120/game/internal/engine"
	"github.com/uts2120/game/internal/level"
	"github.com/uts2120/game/internal/persist"
	"github.com/uts2120/game/internal/screen"
	"github.com/uts2120/game/internal/scripting"
	"github.com/uts2120/game/internal/term"
	"github.com/uts2120/game/internal/world"
)

const (
	defaultConfigPath = "config/game.toml"
	defaultLogFile    = "uts2120.log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := flag.String("config", defaultConfigPath, "path to the game config")
	flag.Parse()

	path := *cfgPath
	if p := os.Getenv("UTS2120_CONFIG"); p != "" && path == defaultConfigPath {
		path = p
	}
	var (
		cfg *config.Config
		err error
	)
	if path == defaultConfigPath {
		cfg, err = config.LoadOptional(path)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger. The terminal owns the tty, so logs go to a file.
	if cfg.Terminal.Enabled && cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("config loaded", zap.String("path", path))

	// 3. Persistence
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Level table and scripts
	table, err := data.LoadLevelTable(cfg.Data.Levels)
	if err != nil {
		return fmt.Errorf("load level table: %w", err)
	}
	log.Info("levels loaded", zap.Int("count", table.Count()))

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()

	brains := func(name string, speed float64) world.Brain {
		if name == "script" && lua.Has("enemy_ai") {
			return lua.Brain(speed)
		}
		return world.ChaseBrain{Speed: speed}
	}

	first := table.First()
	if cfg.Game.FirstLevel != "" {
		first = table.Get(cfg.Game.FirstLevel)
		if first == nil {
			return fmt.Errorf("first level %q not in %s", cfg.Game.FirstLevel, cfg.Data.Levels)
		}
	}

	// 5. Session
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	bounds := world.Rect{Right: cfg.Game.WorldWidth, Bottom: cfg.Game.WorldHeight}
	g := world.NewGame(world.Options{
		Bounds: bounds,
		Seed:   seed,
		Player: world.PlayerSpec{
			Width:         cfg.Player.Width,
			Height:        cfg.Player.Height,
			MaxHealth:     cfg.Player.MaxHealth,
			Friction:      cfg.Player.Friction,
			MaxVelocityX:  cfg.Player.MaxVelocityX,
			LaserCooldown: cfg.Player.LaserCooldown,
		},
	})

	player := audio.New(cfg.Audio, log)
	defer player.Close()
	player.Subscribe(g.Bus)

	opts := engine.Options{
		Game:             g,
		FirstLevel:       func() world.Level { return level.New(first, table, brains) },
		Store:            store,
		Log:              log,
		TickWait:         cfg.Game.TickWait,
		TiltSensitivity:  cfg.Game.TiltSensitivity,
		FramesAfterDeath: cfg.Game.FramesAfterDeath,
		DelayAfterLevel:  cfg.Game.DelayAfterLevel,
		Printer:          message.NewPrinter(cfg.Game.Tag()),
	}
	if lua.Has("upgrade_price") {
		opts.Prices = lua.Pricer(screen.DefaultPrices{})
	}

	// 6. Terminal frontend
	var (
		scr       tcell.Screen
		presenter *term.Presenter
	)
	if cfg.Terminal.Enabled {
		scr, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := scr.Init(); err != nil {
			return fmt.Errorf("terminal init: %w", err)
		}
		scr.EnableMouse()
		scr.HideCursor()
		presenter = term.NewPresenter(scr, log)
		defer presenter.Close()
		opts.Presenter = presenter
	}

	sched, err := engine.New(opts)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	// 7. Run until quit or signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sched.Start(ctx)
	if scr != nil {
		in := term.NewInput(scr, sched, bounds, cfg.Terminal.TiltStep, log)
		// Attached from the loop so startup does not clear the first sample.
		sched.Post(func() { sched.SetSensor(in) })
		go in.Run(ctx)
	}
	select {
	case sig := <-sigCh:
		log.Info("shutdown signal", zap.String("signal", sig.String()))
		sched.RequestStop()
	case <-sched.Done():
	}
	sched.Wait()

	// Final save; the loop has exited so this is the only writer.
	sched.OnPause()
	log.Info("bye",
		zap.Int("high_score", sched.HighScore()),
		zap.Uint64("dropped_frames", sched.DroppedFrames()),
	)
	return nil
}

// openStore connects to PostgreSQL when a DSN is configured, otherwise the
// high score lives in memory for this run only.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (engine.Store, func(), error) {
	if cfg.DSN == "" {
		log.Info("no database configured, high score kept in memory")
		return persist.NewMemoryStore(), func() {}, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(dbCtx, db.Pool, log); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return persist.NewPrefsRepo(db), db.Close, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
