package ai

import (
	"log/slog"
	"math"

	"github.com/google/uuid"
)

// Mover is the actor capability surface a controller drives. Every command is
// fire-and-forget: the actor may ignore it (e.g. mid-attack animation lock)
// and that is silently absorbed.
type Mover interface {
	MoveLeft()
	MoveRight()
	Jump()
	HorizontalStop()
	Attack()
	IsReadyToAttack() bool
}

// Perception answers the controller's single sensory query: the world-space
// offset from the controlled actor to its tracked target. ok is false while
// no target exists (e.g. player not yet spawned); the controller then treats
// the target as out of every range.
type Perception interface {
	DistanceToTarget() (dx, dy float64, ok bool)
}

// Kind tags the archetype a controller was built as. Archetype differences
// are data (ranges, band, jump interval) plus the kind's attack eligibility
// rule; there is no subclassing.
type Kind int

const (
	KindChase Kind = iota
	KindKamikaze
	KindRanged
	KindHybrid
	KindScripted
)

func (k Kind) String() string {
	switch k {
	case KindChase:
		return "chase"
	case KindKamikaze:
		return "kamikaze"
	case KindRanged:
		return "ranged"
	case KindHybrid:
		return "hybrid"
	case KindScripted:
		return "scripted"
	default:
		return "unknown"
	}
}

// Params holds the per-archetype tuning supplied by the host's data layer.
// Distances are world units. BandMin/BandMax of zero means no ranged band.
type Params struct {
	AlertDistance  float64
	AttackDistance float64
	AttacksEnabled bool
	BandMin        float64
	BandMax        float64
	// JumpInterval is the seconds between hops while moving (kamikaze
	// archetype); zero disables hopping.
	JumpInterval float64
}

// snapshot is the perception state recomputed once at the top of each tick.
// All range predicates read from it, so a single tick sees one consistent
// view of the world.
type snapshot struct {
	hasTarget bool
	dx, dy    float64
	dist      float64
}

// Controller drives one AI actor. It owns the current-state name, recomputes
// perception each tick, and forwards movement commands from states to the
// possessed mover. One Update call per simulation tick; no internal locking.
type Controller struct {
	id       uuid.UUID
	kind     Kind
	params   Params
	registry *Registry
	log      *slog.Logger

	perception Perception
	mover      Mover

	current    string
	entered    bool
	facingLeft bool
	jumpTimer  float64

	seen snapshot
}

// ID returns the controller's registry identity.
func (c *Controller) ID() uuid.UUID { return c.id }

// Kind returns the archetype tag.
func (c *Controller) Kind() Kind { return c.kind }

// CurrentStateName reports the active state, for debugging overlays.
func (c *Controller) CurrentStateName() string { return c.current }

// PossessMover binds the controller to the actor it drives. Must be called
// before the first Update.
func (c *Controller) PossessMover(m Mover) {
	c.mover = m
}

// Update is the sole per-tick entry point. It recomputes perception, asks the
// current state for a transition, switches if one is named, then runs the
// (possibly new) current state's per-tick behavior.
//
// An unknown transition target propagates as ErrStateNotFound and leaves the
// current state untouched.
func (c *Controller) Update(dt float64) error {
	if c.mover == nil {
		panic("ai: Controller.Update called before PossessMover")
	}

	c.observe()

	st, err := c.registry.GetState(c.id, c.current)
	if err != nil {
		return err
	}

	// The initial state is entered lazily on the first tick so Enter side
	// effects can reach the possessed mover.
	if !c.entered {
		st.Enter(c)
		c.entered = true
	}

	if next := st.Evaluate(c); next != "" && next != c.current {
		if err := c.SetState(next); err != nil {
			return err
		}
		st, err = c.registry.GetState(c.id, c.current)
		if err != nil {
			return err
		}
	}

	st.Update(c, dt)
	return nil
}

// SetState transitions to the named state: Exit on the old, Enter on the new.
// A no-op when the name equals the current state, so Enter side effects never
// re-run from a state evaluating to itself. The current state is not mutated
// unless the target resolves.
func (c *Controller) SetState(name string) error {
	if name == c.current {
		return nil
	}

	next, err := c.registry.GetState(c.id, name)
	if err != nil {
		return err
	}

	if prev, err := c.registry.GetState(c.id, c.current); err == nil {
		prev.Exit(c)
	}

	old := c.current
	c.current = name
	next.Enter(c)
	c.entered = true

	c.log.Debug("state transition",
		"controller", c.id,
		"kind", c.kind.String(),
		"from", old,
		"to", name)
	return nil
}

// Release removes the controller's states from the registry. Call when the
// owning actor leaves the world; the controller must not be updated after.
func (c *Controller) Release() {
	c.registry.Unregister(c.id)
}

// observe refreshes the perception snapshot for this tick.
func (c *Controller) observe() {
	c.seen = snapshot{}
	if c.perception == nil {
		return
	}
	dx, dy, ok := c.perception.DistanceToTarget()
	if !ok {
		return
	}
	c.seen = snapshot{
		hasTarget: true,
		dx:        dx,
		dy:        dy,
		dist:      math.Hypot(dx, dy),
	}
}

// TargetVisible reports whether perception produced a target this tick.
func (c *Controller) TargetVisible() bool { return c.seen.hasTarget }

// TargetDistance returns this tick's distance to the target, or +Inf when no
// target is visible.
func (c *Controller) TargetDistance() float64 {
	if !c.seen.hasTarget {
		return math.Inf(1)
	}
	return c.seen.dist
}

// TargetSide returns -1 when the target is to the left, +1 to the right, and
// 0 when there is no target or it is directly above/below.
func (c *Controller) TargetSide() int {
	if !c.seen.hasTarget || c.seen.dx == 0 {
		return 0
	}
	if c.seen.dx < 0 {
		return -1
	}
	return 1
}

// Boundary inclusivity is strict on every threshold: a target parked exactly
// on a range boundary counts as outside and stays outside tick after tick, so
// states cannot flap on the boundary value itself.

func (c *Controller) InAlertRange() bool {
	return c.seen.hasTarget && c.seen.dist < c.params.AlertDistance
}

func (c *Controller) InAttackRange() bool {
	return c.seen.hasTarget && c.seen.dist < c.params.AttackDistance
}

// InRangedBand reports whether the target sits inside the projectile band
// (min inclusive, max exclusive). Always false when no band is configured.
func (c *Controller) InRangedBand() bool {
	if c.params.BandMax <= c.params.BandMin {
		return false
	}
	return c.seen.hasTarget && c.seen.dist >= c.params.BandMin && c.seen.dist < c.params.BandMax
}

// InAttackZone is the kind's attack eligibility rule by position alone:
// melee range for chase/kamikaze, the projectile band for ranged, either for
// hybrid (so a hybrid attacks at range outside melee distance).
func (c *Controller) InAttackZone() bool {
	switch c.kind {
	case KindRanged:
		return c.InRangedBand()
	case KindHybrid:
		return c.InAttackRange() || c.InRangedBand()
	default:
		return c.InAttackRange()
	}
}

// AttackEligible adds the configuration and cooldown gates on top of
// InAttackZone. Checked by every table before the move condition, so attack
// wins whenever both are satisfiable.
func (c *Controller) AttackEligible() bool {
	return c.params.AttacksEnabled && c.InAttackZone() && c.mover.IsReadyToAttack()
}

// AttackReady reports the mover's cooldown gate.
func (c *Controller) AttackReady() bool {
	return c.mover.IsReadyToAttack()
}

// FacingLeft is the last-known directional fact move states maintain.
func (c *Controller) FacingLeft() bool { return c.facingLeft }

// Movement primitives exposed to states. Each is a command to the possessed
// actor with no guarantee of effect.

func (c *Controller) MoveLeft() {
	c.facingLeft = true
	c.mover.MoveLeft()
}

func (c *Controller) MoveRight() {
	c.facingLeft = false
	c.mover.MoveRight()
}

func (c *Controller) Jump() {
	c.mover.Jump()
}

func (c *Controller) HorizontalStop() {
	c.mover.HorizontalStop()
}

func (c *Controller) PerformAttack() {
	c.mover.Attack()
}
