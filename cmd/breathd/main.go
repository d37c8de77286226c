package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/breathing/internal/breath"
	"github.com/l1jgo/breathing/internal/config"
	"github.com/l1jgo/breathing/internal/core/event"
	coresys "github.com/l1jgo/breathing/internal/core/system"
	"github.com/l1jgo/breathing/internal/data"
	"github.com/l1jgo/breathing/internal/persist"
	"github.com/l1jgo/breathing/internal/scripting"
	"github.com/l1jgo/breathing/internal/system"
	"github.com/l1jgo/breathing/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              breathd  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        breath & drowning simulator        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/breathd.toml"
	if p := os.Getenv("BREATHD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Open storage and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeDB, err := openRepo(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB()
	fmt.Println()

	// 4. Load species and scenario
	printSection("data")

	species, err := data.LoadSpeciesTable(cfg.Simulation.SpeciesFile)
	if err != nil {
		return fmt.Errorf("load species: %w", err)
	}
	printStat("species", species.Count())

	scenario, err := data.LoadScenario(cfg.Simulation.ScenarioFile)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	printStat("scenario entities", len(scenario.Entities))
	printStat("scenario moves", len(scenario.Moves))

	var lua *scripting.Engine
	if cfg.Simulation.ScriptsDir != "" {
		lua, err = scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		printOK(fmt.Sprintf("Lua hooks loaded from %s", cfg.Simulation.ScriptsDir))
	}
	fmt.Println()

	// 5. Build the world. The game clock starts at wall time so stored
	// timestamps stay comparable across restarts.
	startMs := time.Now().UnixMilli()
	ws := world.NewState(world.NewGameClock(startMs), buildTerrain(scenario.Terrain))
	bus := event.NewBus()

	printSection("world")
	spawned, err := spawnEntities(ws, species, scenario.Entities)
	if err != nil {
		return err
	}
	printStat("entities", spawned)

	// 6. Create systems and register with runner
	persistSys := system.NewPersistenceSystem(ws, repo, log, cfg.Simulation.SaveIntervalTicks)
	restored, err := persistSys.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore breath states: %w", err)
	}
	printStat("restored breath states", restored)

	notifier := system.NewNotifier(ws, bus, persistSys)
	healthSys := system.NewHealthSystem(ws, bus, log)
	healthSys.SetNotifier(notifier)
	moveSys := system.NewMovementSystem(ws, bus, log)
	system.NewBreathTransitions(ws, bus, lua, notifier, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewClockSystem(ws.Clock))
	runner.Register(moveSys)
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewDrowningSystem(ws, lua, notifier, healthSys, log))
	runner.Register(healthSys)
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(ws.ECS, log))

	if cfg.Audit.Enabled {
		audit, err := persist.OpenAuditLog(cfg.Audit.Dir, cfg.Audit.Prefix, time.Now())
		if err != nil {
			return fmt.Errorf("audit log: %w", err)
		}
		defer func() {
			if err := audit.Close(); err != nil {
				log.Error("close audit log", zap.Error(err))
			}
		}()
		runner.Register(system.NewAuditSystem(bus, audit, log))
		printOK(fmt.Sprintf("audit log %s", audit.Path()))
	}

	for _, id := range ws.Bodies.IDs() {
		moveSys.Place(id)
	}
	for _, m := range scenario.Moves {
		moveSys.Schedule(system.Move{
			AtMs: startMs + m.AtMs,
			Key:  m.Key,
			Pos:  world.Vec3i{X: m.Pos[0], Y: m.Pos[1], Z: m.Pos[2]},
		})
	}
	fmt.Println()

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tickRate := cfg.Simulation.TickRate
	var tickC <-chan time.Time
	if cfg.Simulation.Realtime {
		ticker := time.NewTicker(tickRate)
		defer ticker.Stop()
		tickC = ticker.C
	}

	printSection("ready")
	printReady(fmt.Sprintf("game loop started (tick: %s, realtime: %t)", tickRate, cfg.Simulation.Realtime))
	if scenario.DurationMs > 0 {
		printReady(fmt.Sprintf("scenario ends after %s", time.Duration(scenario.DurationMs)*time.Millisecond))
	}
	fmt.Println()

	endMs := breath.Never
	if scenario.DurationMs > 0 {
		endMs = startMs + scenario.DurationMs
	}

	for ws.Clock.NowMs() < endMs {
		if tickC != nil {
			select {
			case <-tickC:
			case sig := <-shutdownCh:
				log.Info("shutdown signal received", zap.String("signal", sig.String()))
				return shutdown(bus, persistSys, ws, log)
			}
		} else {
			select {
			case sig := <-shutdownCh:
				log.Info("shutdown signal received", zap.String("signal", sig.String()))
				return shutdown(bus, persistSys, ws, log)
			default:
			}
		}
		runner.Tick(tickRate)
	}
	log.Info("scenario finished",
		zap.Uint64("ticks", runner.Ticks()),
		zap.Int64("elapsed_ms", ws.Clock.NowMs()-startMs),
	)
	return shutdown(bus, persistSys, ws, log)
}

// shutdown runs before the deferred audit log close, so the final tick's
// events still reach it.
func shutdown(bus *event.Bus, persistSys *system.PersistenceSystem, ws *world.State, log *zap.Logger) error {
	system.Shutdown(bus, persistSys, log)
	log.Info("server stopped",
		zap.Int("entities", ws.Count()),
		zap.Int("tracked", ws.Breath.Len()),
	)
	return nil
}

// openRepo connects the configured breath store and migrates its schema.
func openRepo(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (persist.BreathRepo, func(), error) {
	switch cfg.Driver {
	case "postgres":
		db, err := persist.NewDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		printOK("PostgreSQL connected")
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		return persist.NewPostgresBreathRepo(db), db.Close, nil

	case "sqlite":
		db, err := persist.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		printOK(fmt.Sprintf("SQLite opened at %s", cfg.Path))
		if err := persist.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Error("close sqlite", zap.Error(err))
			}
		}
		return persist.NewSQLiteBreathRepo(db), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

func buildTerrain(def data.TerrainDef) *world.Terrain {
	t := world.NewTerrain(breath.ParseMedium(def.Default))
	for _, f := range def.Fill {
		t.Fill(
			world.Vec3i{X: f.Min[0], Y: f.Min[1], Z: f.Min[2]},
			world.Vec3i{X: f.Max[0], Y: f.Max[1], Z: f.Max[2]},
			breath.Medium(f.Medium),
		)
	}
	return t
}

// spawnEntities creates every scenario entity. Only species that can drown
// get a Drowns component.
func spawnEntities(ws *world.State, species *data.SpeciesTable, defs []data.EntityDef) (int, error) {
	n := 0
	for _, def := range defs {
		sp := species.Get(def.Species)
		if sp == nil {
			return n, fmt.Errorf("entity %s: unknown species %q", def.Key, def.Species)
		}
		id, err := ws.Spawn(world.Body{
			Key:     def.Key,
			Species: sp.Name,
			Pos:     world.Vec3i{X: def.Pos[0], Y: def.Pos[1], Z: def.Pos[2]},
			Height:  sp.Height,
		}, sp.MaxHP)
		if err != nil {
			return n, err
		}
		if sp.CanDrown() {
			ws.Drowns.Set(id, &world.Drowns{Capacity: sp.Capacity(), Breathes: sp.Breathes})
		}
		n++
	}
	return n, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
