package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/logging"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/sim"
	"go.uber.org/zap"
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

var printer = message.NewPrinter(language.English)

func printBanner(serverName string, matchID uuid.UUID) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Arena  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        headless combat simulation         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s \033[90m(match %s)\033[0m\n\n", serverName, matchID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
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
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	matchID := uuid.New()
	printBanner(cfg.Server.Name, matchID)

	// 3. Static data
	printSection("Data")
	abilities, err := data.LoadAbilityTable(cfg.Data.Abilities)
	if err != nil {
		return fmt.Errorf("load abilities: %w", err)
	}
	printStat("Abilities", abilities.Count())

	layout, err := data.LoadLayout(cfg.Data.Layout)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	printStat("Layout entries", layout.Count())

	var steps []sim.ScriptStep
	if cfg.Data.Script != "" {
		steps, err = sim.LoadScript(cfg.Data.Script)
		if err != nil {
			return fmt.Errorf("load command script: %w", err)
		}
		printStat("Scripted commands", len(steps))
	}

	// 4. Lua damage hook
	var scripts *scripting.Engine
	if cfg.Scripting.Enabled {
		scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer scripts.Close()
		printOK("Lua damage scripts loaded")
	}
	fmt.Println()

	var arena *sim.Simulation
	opts := sim.Options{
		Scripts: scripts,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// 5. Combat log
	if cfg.Database.Enabled {
		printSection("Combat log")
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
		printStat("Schema version", int(version))

		repo := persist.NewCombatLogRepo(db)
		if err := repo.StartMatch(ctx, persist.MatchInfo{
			ID:         matchID,
			ServerName: cfg.Server.Name,
			Layout:     cfg.Data.Layout,
			Structures: layout.Count(),
			StartedAt:  time.Now(),
		}); err != nil {
			return err
		}
		writer := persist.NewWriter(repo, matchID, cfg.CombatLog.QueueSize, cfg.CombatLog.WriteTimeout, log)
		writer.Start()
		defer func() {
			writer.Close()
			written, failed := writer.Stats()
			log.Info("combat log closed", zap.Int("rows", written), zap.Int("failed_batches", failed))
			endCtx, endCancel := context.WithTimeout(context.Background(), cfg.CombatLog.WriteTimeout)
			defer endCancel()
			var ticks uint64
			if arena != nil {
				ticks = arena.Seq()
			}
			if err := repo.EndMatch(endCtx, matchID, ticks, time.Now()); err != nil {
				log.Warn("end match", zap.Error(err))
			}
		}()
		opts.CombatLog = writer
		fmt.Println()
	}

	// 6. Frame log
	if cfg.Output.FrameLog != "" {
		f, err := os.Create(cfg.Output.FrameLog)
		if err != nil {
			return fmt.Errorf("frame log: %w", err)
		}
		defer f.Close()
		opts.Frames = f
	}

	arena, err = sim.New(cfg, abilities, layout, opts, log)
	if err != nil {
		return err
	}
	defer arena.Shutdown()
	script := sim.NewScript(steps)

	// 7. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Tick loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case now := <-ticker.C:
			if n := script.Feed(arena, arena.Seq()+1); n > 0 {
				log.Warn("command queue full, scripted commands dropped", zap.Int("dropped", n))
			}
			arena.Tick(now)
			if cfg.Simulation.MaxTicks > 0 && arena.Seq() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached",
					zap.Uint64("ticks", arena.Seq()),
					zap.Int("structures_left", arena.Structures().Len()),
				)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()), zap.Uint64("ticks", arena.Seq()))
			return nil
		}
	}
}
