// affect runs a scripted scenario through an affect agent: each event is
// appraised, the emotion decays toward the result, and an optional dashboard
// streams every step.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-affect/internal/config"
	"github.com/teslashibe/go-affect/internal/log"
	"github.com/teslashibe/go-affect/pkg/affect"
	"github.com/teslashibe/go-affect/pkg/journal"
	"github.com/teslashibe/go-affect/pkg/web"
)

// towerScenario is used when no scenario file is given: a robot finishes a
// cube tower with a friend, then the friend knocks it over.
const towerScenario = `
agent: cozmo
personality: OCEAn
initial: {x: -0.3, y: -0.2}
events:
  - name: tower finished
    context: social
    importance: 0.8
    condition: true
    resource_available: true
    object: {name: cube, familiarity: 0.5}
    total_progress: 1
    contribution: 1
  - name: tower knocked over
    context: social
    importance: -0.7
    suddenness: true
    object:
      name: friend
      living: true
      familiarity: 0.8
      agent_personality: {extraversion: true, agreeableness: true}
  - name: alone again
    context: individual
    importance: -0.2
    resource_available: true
    object: {name: room, familiarity: 1}
`

func main() {
	cfg := parseFlags()
	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("affect failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags loads env config and lets flags override it.
func parseFlags() config.Config {
	cfg := config.Load()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	scenario := flag.String("scenario", cfg.ScenarioPath, "Scenario YAML file (built-in tower scenario when empty)")
	port := flag.String("web", cfg.WebPort, "Dashboard port (disabled when empty)")
	journalPath := flag.String("journal", cfg.JournalPath, "SQLite journal file (disabled when empty)")
	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	cfg.ScenarioPath, cfg.WebPort, cfg.JournalPath = *scenario, *port, *journalPath
	return cfg
}

func loadScenario(path string) (*config.Scenario, error) {
	if path == "" {
		return config.ParseScenario([]byte(towerScenario))
	}
	return config.LoadScenario(path)
}

func run(ctx context.Context, cfg config.Config) error {
	sc, err := loadScenario(cfg.ScenarioPath)
	if err != nil {
		return err
	}

	steps := cfg.DecaySteps
	if sc.Steps > 0 {
		steps = sc.Steps
	}
	opts := []affect.Option{affect.WithDecay(cfg.DecayPeriod, steps)}

	var jr web.JournalReader
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, affect.WithRecorder(j))
		jr = j
		log.Info("journal enabled", "path", cfg.JournalPath)
	}

	agent := affect.NewAgent(sc.Agent, sc.Personality, sc.Initial, opts...)
	defer agent.Close()

	serveErr := make(chan error, 1)
	if cfg.WebPort != "" {
		srv := web.NewServer(cfg.WebPort, agent, jr)
		go func() { serveErr <- srv.Start(ctx) }()
	}

	start := agent.Snapshot()
	log.Info("agent ready",
		"agent", sc.Agent,
		"personality", sc.Personality.String(),
		"label", start.Label,
		"events", len(sc.Events))

	for i, se := range sc.Events {
		r, err := agent.React(ctx, se.Event, se.Context)
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i, se.Name, err)
		}
		fmt.Printf("%-20s %-10s -> %-10s dominant=%s\n", se.Name, se.Context, r.TargetLabel, r.Dominant)

		if err := agent.Emotion().Wait(ctx); err != nil {
			return err
		}
		snap := agent.Snapshot()
		fmt.Printf("%-20s settled at (%.2f, %.2f) %s\n", "", snap.X, snap.Y, snap.Label)
	}

	if cfg.WebPort == "" {
		return nil
	}

	log.Info("scenario finished, dashboard still serving; Ctrl-C to exit")
	select {
	case <-ctx.Done():
		return nil
	case err := <-serveErr:
		return err
	}
}
