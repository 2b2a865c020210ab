package sim

import (
	"fmt"
	"log/slog"

	"github.com/jakecoffman/cp"

	"github.com/andrewstrauch/scarab-ai/ai"
	"github.com/andrewstrauch/scarab-ai/prefabs"
)

const (
	gravity     = 900.0
	groundY     = 0.0
	groundWidth = 4000.0
)

// World is a headless host harness: a chipmunk space, one tracked target and
// a set of AI-driven agents. It plays the engine's role from the controller's
// point of view: it steps physics and calls each controller's Update once per
// tick.
type World struct {
	space    *cp.Space
	registry *ai.Registry
	log      *slog.Logger

	target *Actor
	agents []*agent
}

type agent struct {
	actor *Actor
	ctrl  *ai.Controller
}

func NewWorld(log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	ground := cp.NewSegment(space.StaticBody, cp.Vector{X: -groundWidth, Y: groundY}, cp.Vector{X: groundWidth, Y: groundY}, 0)
	ground.SetFriction(1)
	ground.SetElasticity(0)
	space.AddShape(ground)

	return &World{
		space:    space,
		registry: ai.NewRegistry(),
		log:      log,
	}
}

// Registry exposes the world's state registry, mainly for tests.
func (w *World) Registry() *ai.Registry { return w.registry }

// SpawnTarget places the tracked target (the player stand-in). Agents spawned
// before any target exists simply perceive nothing until one appears.
func (w *World) SpawnTarget(x, y float64) *Actor {
	w.target = newActor(w.space, "target", x, y, 0, 0, 0)
	return w.target
}

// SpawnEnemy builds an actor plus its controller from an archetype spec and
// registers both with the world. Configuration problems surface here, during
// spawn, never mid-tick.
func (w *World) SpawnEnemy(spec prefabs.ControllerSpec, x, y float64) (*Actor, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	kind, err := kindFromSpec(spec.Kind)
	if err != nil {
		return nil, err
	}

	actor := newActor(w.space, spec.Name, x, y, spec.MoveSpeed, spec.JumpSpeed, spec.AttackCooldown)

	opts := []ai.Option{ai.WithLogger(w.log)}
	if kind == ai.KindScripted {
		src, err := prefabs.LoadScript(spec.Script)
		if err != nil {
			w.removeActor(actor)
			return nil, fmt.Errorf("sim: %s: load script: %w", spec.Name, err)
		}
		script, err := ai.NewScript(src)
		if err != nil {
			w.removeActor(actor)
			return nil, fmt.Errorf("sim: %s: %w", spec.Name, err)
		}
		opts = append(opts, ai.WithScript(script))
	}

	params := ai.Params{
		AlertDistance:  spec.AlertRange,
		AttackDistance: spec.AttackRange,
		AttacksEnabled: spec.AttacksEnabled,
		JumpInterval:   spec.JumpInterval,
	}
	if spec.RangedBand != nil {
		params.BandMin = spec.RangedBand.Min
		params.BandMax = spec.RangedBand.Max
	}

	ctrl, err := ai.NewController(kind, params, w.registry, &worldPerception{world: w, self: actor}, opts...)
	if err != nil {
		w.removeActor(actor)
		return nil, fmt.Errorf("sim: %s: %w", spec.Name, err)
	}
	ctrl.PossessMover(actor)

	w.agents = append(w.agents, &agent{actor: actor, ctrl: ctrl})
	return actor, nil
}

// Despawn tears an agent down: body out of the space, states out of the
// registry. No registry entries survive the actor.
func (w *World) Despawn(a *Actor) {
	for i, ag := range w.agents {
		if ag.actor != a {
			continue
		}
		ag.ctrl.Release()
		w.removeActor(a)
		w.agents = append(w.agents[:i], w.agents[i+1:]...)
		return
	}
}

// Step advances physics, actor timers and every controller by one fixed tick.
// Controller errors are surfaced on the diagnostic channel, not swallowed.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
	if w.target != nil {
		w.target.tick(dt)
	}
	for _, ag := range w.agents {
		ag.actor.tick(dt)
		if err := ag.ctrl.Update(dt); err != nil {
			w.log.Error("controller update failed",
				"actor", ag.actor.Name,
				"state", ag.ctrl.CurrentStateName(),
				"err", err)
		}
	}
}

// AgentState reports the controller state driving an actor, for overlays and
// the CLI transition log.
func (w *World) AgentState(a *Actor) (string, bool) {
	for _, ag := range w.agents {
		if ag.actor == a {
			return ag.ctrl.CurrentStateName(), true
		}
	}
	return "", false
}

// Actors returns the spawned AI actors in spawn order.
func (w *World) Actors() []*Actor {
	out := make([]*Actor, 0, len(w.agents))
	for _, ag := range w.agents {
		out = append(out, ag.actor)
	}
	return out
}

func (w *World) removeActor(a *Actor) {
	w.space.RemoveShape(a.shape)
	w.space.RemoveBody(a.body)
}

// worldPerception answers distance-to-target for one agent. A missing target
// reads as "nothing visible", never as an error.
type worldPerception struct {
	world *World
	self  *Actor
}

func (p *worldPerception) DistanceToTarget() (dx, dy float64, ok bool) {
	if p.world.target == nil {
		return 0, 0, false
	}
	tx, ty := p.world.target.Position()
	sx, sy := p.self.Position()
	return tx - sx, ty - sy, true
}

func kindFromSpec(kind string) (ai.Kind, error) {
	switch kind {
	case "chase":
		return ai.KindChase, nil
	case "kamikaze":
		return ai.KindKamikaze, nil
	case "ranged":
		return ai.KindRanged, nil
	case "hybrid":
		return ai.KindHybrid, nil
	case "scripted":
		return ai.KindScripted, nil
	default:
		return 0, fmt.Errorf("sim: unknown controller kind %q", kind)
	}
}
