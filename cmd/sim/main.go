package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/andrewstrauch/scarab-ai/prefabs"
	"github.com/andrewstrauch/scarab-ai/sim"
)

func main() {
	v := viper.New()
	v.SetDefault("ticks", 600)
	v.SetDefault("dt", 1.0/60.0)
	v.SetDefault("enemies", []string{"chase.yaml", "hybrid.yaml", "scripted.yaml"})
	v.SetDefault("target_x", 0.0)
	v.SetDefault("enemy_spacing", 80.0)
	v.SetDefault("watch", false)
	v.SetDefault("log_level", "info")

	v.SetConfigName("sim")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("sim")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "read config: %v\n", err)
			os.Exit(1)
		}
	}

	log := newLogger(v.GetString("log_level"))

	if err := run(v, log); err != nil {
		log.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	if v.GetBool("watch") {
		watchAndRerun(v, log)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// run plays one scenario: a stationary target with a line of enemies spread
// to its right, ticked at a fixed dt, logging every state transition.
func run(v *viper.Viper, log *slog.Logger) error {
	world := sim.NewWorld(log)
	world.SpawnTarget(v.GetFloat64("target_x"), -20)

	spacing := v.GetFloat64("enemy_spacing")
	for i, file := range v.GetStringSlice("enemies") {
		spec, err := prefabs.LoadControllerSpec(file)
		if err != nil {
			return err
		}
		x := v.GetFloat64("target_x") + spacing*float64(i+1)
		if _, err := world.SpawnEnemy(spec, x, -20); err != nil {
			return err
		}
	}

	dt := v.GetFloat64("dt")
	ticks := v.GetInt("ticks")
	lastState := make(map[*sim.Actor]string)

	for tick := 0; tick < ticks; tick++ {
		world.Step(dt)
		for _, actor := range world.Actors() {
			state, ok := world.AgentState(actor)
			if !ok || state == lastState[actor] {
				continue
			}
			x, _ := actor.Position()
			log.Info("transition",
				"tick", tick,
				"actor", actor.Name,
				"state", state,
				"x", fmt.Sprintf("%.1f", x))
			lastState[actor] = state
		}
	}

	for _, actor := range world.Actors() {
		state, _ := world.AgentState(actor)
		log.Info("final",
			"actor", actor.Name,
			"state", state,
			"attacks", actor.AttacksDone())
	}
	return nil
}

// watchAndRerun replays the scenario whenever a spec or script file changes.
func watchAndRerun(v *viper.Viper, log *slog.Logger) {
	watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
	if err != nil {
		log.Error("watch failed", "err", err)
		return
	}
	defer watcher.Close()

	log.Info("watching prefabs for changes")
	for {
		select {
		case path, ok := <-watcher.Events:
			if !ok {
				return
			}
			log.Info("prefab changed, rerunning", "path", path)
			if err := run(v, log); err != nil {
				log.Error("simulation failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watch error", "err", err)
		}
	}
}
