package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/ibexsim/colony/internal/config"
	"github.com/ibexsim/colony/internal/core/ecs"
	coresys "github.com/ibexsim/colony/internal/core/system"
	"github.com/ibexsim/colony/internal/data"
	"github.com/ibexsim/colony/internal/operation"
	"github.com/ibexsim/colony/internal/persist"
	"github.com/ibexsim/colony/internal/region"
	"github.com/ibexsim/colony/internal/scripting"
	"github.com/ibexsim/colony/internal/system"
	"github.com/ibexsim/colony/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var numbers = message.NewPrinter(language.English)

func printBanner(name string, runID uuid.UUID) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              ibex colony sim              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m %s \033[90m(%s)\033[0m\n\n", name, runID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := numbers.Sprintf("%d", count)
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

// ── Simulation ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/ibex.toml"
	if p := os.Getenv("IBEX_CONFIG"); p != "" {
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

	runID := uuid.New()
	log = log.With(zap.String("run", runID.String()))
	printBanner(cfg.Simulation.Name, runID)

	// 3. Optional stats database
	var statsRepo *persist.StatsRepo
	if cfg.Database.Enabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (schema version %d)", version))
		fmt.Println()

		statsRepo = persist.NewStatsRepo(db, runID)
	}

	// 4. Load scenario and scripts
	printSection("scenario")

	scenario, err := data.LoadScenario(cfg.Simulation.Scenario)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}

	engine, err := scripting.NewEngine(cfg.Simulation.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("spawn policy scripts loaded")

	ws := world.NewState(cfg.Spawn.SpawnTimePerPart)
	if err := bootstrap(ws, scenario); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	printStat("rooms", len(scenario.Rooms))
	printStat("spawns", scenario.SpawnCount())
	printStat("colonies", len(scenario.Colonies))
	printStat("scout targets", len(scenario.Scouts))
	printStat("entities", ws.EntityCount())
	fmt.Println()

	// 5. Build the tick pipeline
	deps := system.NewDeps(ws, log)
	deps.Policy = engine
	deps.MaxCascadeIterations = cfg.Cleanup.MaxCascadeIterations
	deps.SpawnSettings = system.SpawnSettings{
		TimePerPart:        cfg.Spawn.SpawnTimePerPart,
		RenewMinRoomEnergy: cfg.Spawn.RenewMinRoomEnergy,
		RenewTTLMargin:     cfg.Spawn.RenewTTLMargin,
	}
	if statsRepo != nil {
		deps.Stats = statsRepo
	}
	deps.StatsInterval = cfg.Stats.FlushInterval
	deps.StatsTimeout = cfg.Stats.WriteTimeout
	deps.StatsMaxPending = cfg.Stats.MaxPending

	runner := coresys.NewRunner()
	pipeline := system.RegisterAll(runner, deps)

	// 6. Start tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("tick loop started (tick: %s, systems: %d)", cfg.Simulation.TickRate, runner.Len()))
	if cfg.Simulation.MaxTicks > 0 {
		printReady(numbers.Sprintf("stopping after %d ticks", cfg.Simulation.MaxTicks))
	}
	fmt.Println()
	log.Info("simulation started", zap.Time("at", time.Unix(cfg.Simulation.StartTime, 0)), zap.Int("systems", runner.Len()))

	stop := func() {
		// deliver the last tick's events before the final flush
		deps.Bus.SwapBuffers()
		deps.Bus.DispatchAll()
		pipeline.Stats.Flush()
		printSummary(ws, pipeline.Stats)
	}

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
			ws.Advance()
			if cfg.Simulation.MaxTicks > 0 && ws.Tick() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached", zap.Uint32("ticks", ws.Tick()))
				stop()
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			stop()
			log.Info("simulation stopped")
			return nil
		}
	}
}

// bootstrap creates the scenario's rooms and facilities, then the top-level
// operations that drive everything else.
func bootstrap(ws *world.State, s *data.Scenario) error {
	rooms := make(map[string]ecs.EntityID, len(s.Rooms))
	for _, r := range s.Rooms {
		room := region.NewRoom(r.Name, r.EnergyCapacity)
		room.EnergyAvailable = r.EnergyAvailable
		room.StoredEnergy = r.StoredEnergy
		room.Income = r.Income
		id := ws.CreateRoom(room)
		for _, name := range r.Spawns {
			if _, err := ws.AddSpawner(id, name); err != nil {
				return fmt.Errorf("room %s: %w", r.Name, err)
			}
		}
		rooms[r.Name] = id
	}

	if len(s.Colonies) > 0 {
		colonies := make([]ecs.EntityID, 0, len(s.Colonies))
		for _, name := range s.Colonies {
			colonies = append(colonies, rooms[name])
		}
		ws.CreateOperation(operation.NewColonyOperation(colonies))
	}

	if len(s.Scouts) > 0 {
		targets := make([]operation.ScoutTarget, 0, len(s.Scouts))
		for _, sc := range s.Scouts {
			homes := make([]ecs.EntityID, 0, len(sc.Homes))
			for _, h := range sc.Homes {
				homes = append(homes, rooms[h])
			}
			targets = append(targets, operation.ScoutTarget{Room: sc.Target, Homes: homes, Urgency: sc.Urgency})
		}
		ws.CreateOperation(operation.NewScoutOperation(targets))
	}
	return nil
}

func printSummary(ws *world.State, stats *system.StatsSystem) {
	t := stats.Totals()
	fmt.Println()
	printSection("summary")
	printStat("ticks", int(ws.Tick()))
	printStat("entities alive", ws.EntityCount())
	printStat("components removed", ws.ComponentsRemoved())
	printStat("units spawned", t.Spawned)
	printStat("units renewed", t.Renewed)
	printStat("energy spent", int(t.EnergySpent))
	printStat("creeps deleted", t.CreepsDeleted)
	printStat("missions deleted", t.MissionsDeleted)
	printStat("operations deleted", t.OperationsDeleted)
	if t.CascadeCapReached {
		printStat("cascade limit hits", 1)
	}
	fmt.Println()
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
