package ai

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Option configures optional controller wiring.
type Option func(*ctrlOptions)

type ctrlOptions struct {
	logger *slog.Logger
	script *Script
}

func WithLogger(l *slog.Logger) Option {
	return func(o *ctrlOptions) { o.logger = l }
}

// WithScript supplies the compiled behavior script for a scripted controller.
func WithScript(s *Script) Option {
	return func(o *ctrlOptions) { o.script = s }
}

// NewController builds a controller of the given archetype, registering its
// states with the registry under a fresh owner identity. Configuration
// problems (bad ranges, missing script) fail here, during entity setup,
// rather than mid-tick.
func NewController(kind Kind, p Params, reg *Registry, per Perception, opts ...Option) (*Controller, error) {
	if reg == nil {
		return nil, fmt.Errorf("ai: %s controller: nil registry", kind)
	}
	if err := validateParams(kind, p); err != nil {
		return nil, err
	}

	o := &ctrlOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	c := &Controller{
		id:         uuid.New(),
		kind:       kind,
		params:     p,
		registry:   reg,
		log:        o.logger,
		perception: per,
	}

	if kind == KindScripted {
		if o.script == nil {
			return nil, fmt.Errorf("ai: scripted controller requires WithScript")
		}
		st := &scriptedState{rt: newScriptRuntime(o.script, c.log)}
		for _, name := range o.script.States() {
			reg.RegisterState(c.id, name, func() State { return st })
		}
		c.current = o.script.InitialState()
		return c, nil
	}

	reg.RegisterState(c.id, StateIdle, func() State { return idleState() })
	reg.RegisterState(c.id, StateMove, func() State { return moveState() })
	reg.RegisterState(c.id, StateAttack, func() State { return attackState() })
	c.current = StateIdle
	return c, nil
}

func validateParams(kind Kind, p Params) error {
	if kind == KindScripted {
		return nil
	}
	if p.AlertDistance <= 0 {
		return fmt.Errorf("ai: %s controller: alert distance must be positive, got %v", kind, p.AlertDistance)
	}
	if p.AttackDistance < 0 {
		return fmt.Errorf("ai: %s controller: negative attack distance %v", kind, p.AttackDistance)
	}
	if p.JumpInterval < 0 {
		return fmt.Errorf("ai: %s controller: negative jump interval %v", kind, p.JumpInterval)
	}
	switch kind {
	case KindRanged, KindHybrid:
		if p.BandMin < 0 || p.BandMax <= p.BandMin {
			return fmt.Errorf("ai: %s controller: invalid ranged band [%v, %v)", kind, p.BandMin, p.BandMax)
		}
	}
	return nil
}

// The stock state tables. Transition checks always test attack eligibility
// before the move condition, so attack wins when both hold. Mutable behavior
// data (facing, hop timer) lives on the controller; the tables themselves
// stay stateless.

func idleState() *StateDef {
	return &StateDef{
		OnUpdate: func(c *Controller, dt float64) {
			c.HorizontalStop()
		},
		OnEvaluate: func(c *Controller) string {
			if c.AttackEligible() {
				return StateAttack
			}
			if c.InAlertRange() && !c.InAttackZone() {
				return StateMove
			}
			return ""
		},
	}
}

func moveState() *StateDef {
	return &StateDef{
		OnEnter: func(c *Controller) {
			c.jumpTimer = 0
		},
		OnUpdate: func(c *Controller, dt float64) {
			switch c.TargetSide() {
			case -1:
				c.MoveLeft()
			case 1:
				c.MoveRight()
			default:
				c.HorizontalStop()
			}
			if c.params.JumpInterval > 0 {
				c.jumpTimer += dt
				if c.jumpTimer >= c.params.JumpInterval {
					c.Jump()
					c.jumpTimer = 0
				}
			}
		},
		OnEvaluate: func(c *Controller) string {
			if c.AttackEligible() {
				return StateAttack
			}
			if !c.InAlertRange() {
				return StateIdle
			}
			return ""
		},
	}
}

func attackState() *StateDef {
	return &StateDef{
		OnEnter: func(c *Controller) {
			c.HorizontalStop()
		},
		OnUpdate: func(c *Controller, dt float64) {
			c.HorizontalStop()
			if c.AttackReady() {
				c.PerformAttack()
			}
		},
		OnEvaluate: func(c *Controller) string {
			// The cooldown gates re-attack, not position: hold the state
			// until the ready flag comes back up.
			if !c.AttackReady() {
				return ""
			}
			if !c.InAlertRange() {
				return StateIdle
			}
			if !c.InAttackZone() {
				return StateMove
			}
			return ""
		},
	}
}
