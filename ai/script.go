package ai

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// The scripted archetype delegates all behavior and transition logic to an
// externally supplied tengo script. Scripts must define onEnter, update and
// onExit functions plus a `states` list, and may set `initial_state`:
//
//	states := ["watch", "strike"]
//	initial_state := "watch"
//	onEnter := func(engine, state, current) { ... }
//	update := func(engine, state, current) {
//	    if engine.in_attack_range() && engine.ready() {
//	        engine.transition("strike")
//	    }
//	}
//	onExit := func(engine, state, current) { ... }
const scriptLifecycleDispatch = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// Script is a compiled behavior script, loaded once per archetype and cloned
// per controller so script-local state never leaks between actors.
type Script struct {
	compiled *tengo.Compiled
	initial  string
	states   []string
}

// NewScript compiles behavior source. Compile or validation failures are
// registration-time errors; nothing here runs mid-tick.
func NewScript(src []byte) (*Script, error) {
	full := string(src) + "\n" + scriptLifecycleDispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile behavior script: %w", err)
	}

	// Run once with no phase selected so top-level declarations execute and
	// the state list becomes readable.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("ai: load behavior script: %w", err)
	}

	s := &Script{compiled: compiled}

	if v := compiled.Get("states"); v != nil {
		if arr, ok := v.Object().(*tengo.Array); ok {
			for _, item := range arr.Value {
				name := strings.TrimSpace(objectAsString(item))
				if name != "" {
					s.states = append(s.states, name)
				}
			}
		}
	}
	if len(s.states) == 0 {
		return nil, fmt.Errorf("ai: behavior script declares no states")
	}

	s.initial = s.states[0]
	if compiled.IsDefined("initial_state") {
		if name := strings.TrimSpace(compiled.Get("initial_state").String()); name != "" {
			s.initial = name
		}
	}

	found := false
	for _, name := range s.states {
		if name == s.initial {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("ai: initial state %q missing from script states %v", s.initial, s.states)
	}

	return s, nil
}

// States returns the state names the script declares.
func (s *Script) States() []string { return s.states }

// InitialState returns the state a scripted controller starts in.
func (s *Script) InitialState() string { return s.initial }

type scriptRuntime struct {
	compiled  *tengo.Compiled
	stateData *tengo.Map
	pending   string
	log       *slog.Logger
}

func newScriptRuntime(s *Script, log *slog.Logger) *scriptRuntime {
	return &scriptRuntime{
		compiled:  s.compiled.Clone(),
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
		log:       log,
	}
}

func (rt *scriptRuntime) runPhase(phase, current string, dt float64, engine *tengo.ImmutableMap) error {
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", current); err != nil {
		return err
	}
	if err := rt.compiled.Set("__dt", dt); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// takePending consumes the transition the script requested, if any.
func (rt *scriptRuntime) takePending() string {
	p := rt.pending
	rt.pending = ""
	return p
}

// scriptedState adapts the script runtime to the State interface. One shared
// instance is registered under every state name the script declares; Evaluate
// only relays the script's own transition request, so the script owns all
// transition logic.
type scriptedState struct {
	rt *scriptRuntime
}

func (s *scriptedState) Enter(c *Controller) {
	if err := s.rt.runPhase("enter", c.current, 0, buildScriptEngine(c, s.rt)); err != nil {
		s.rt.log.Error("script onEnter failed", "controller", c.id, "state", c.current, "err", err)
	}
}

func (s *scriptedState) Update(c *Controller, dt float64) {
	if err := s.rt.runPhase("update", c.current, dt, buildScriptEngine(c, s.rt)); err != nil {
		s.rt.log.Error("script update failed", "controller", c.id, "state", c.current, "err", err)
	}
}

func (s *scriptedState) Evaluate(c *Controller) string {
	return s.rt.takePending()
}

func (s *scriptedState) Exit(c *Controller) {
	if err := s.rt.runPhase("exit", c.current, 0, buildScriptEngine(c, s.rt)); err != nil {
		s.rt.log.Error("script onExit failed", "controller", c.id, "state", c.current, "err", err)
	}
}

// buildScriptEngine exposes the controller's perception and movement surface
// to the script for one phase call.
func buildScriptEngine(c *Controller, rt *scriptRuntime) *tengo.ImmutableMap {
	boolObj := func(v bool) tengo.Object {
		if v {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	}

	command := func(name string, fn func()) tengo.Object {
		return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			fn()
			return tengo.UndefinedValue, nil
		}}
	}

	query := func(name string, fn func() bool) tengo.Object {
		return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return boolObj(fn()), nil
		}}
	}

	values := map[string]tengo.Object{
		"move_left":       command("move_left", c.MoveLeft),
		"move_right":      command("move_right", c.MoveRight),
		"jump":            command("jump", c.Jump),
		"stop":            command("stop", c.HorizontalStop),
		"attack":          command("attack", c.PerformAttack),
		"ready":           query("ready", c.AttackReady),
		"target_visible":  query("target_visible", c.TargetVisible),
		"in_alert_range":  query("in_alert_range", c.InAlertRange),
		"in_attack_range": query("in_attack_range", c.InAttackRange),
		"in_ranged_band":  query("in_ranged_band", c.InRangedBand),
		"facing_left":     query("facing_left", c.FacingLeft),
	}

	values["distance"] = &tengo.UserFunction{Name: "distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: c.TargetDistance()}, nil
	}}

	values["target_side"] = &tengo.UserFunction{Name: "target_side", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(c.TargetSide())}, nil
	}}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = name
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
