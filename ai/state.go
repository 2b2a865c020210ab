package ai

// Built-in state names shared by the stock archetype tables.
const (
	StateIdle   = "idle"
	StateMove   = "move"
	StateAttack = "attack"
)

// State is a named behavior unit. Enter and Exit run exactly once per
// activation. Update performs the state's per-tick behavior and never switches
// state itself; Evaluate returns the name of the state to switch to, or ""
// (or its own name) to stay. Evaluate must be deterministic given the
// controller's perception snapshot for the tick.
type State interface {
	Enter(c *Controller)
	Update(c *Controller, dt float64)
	Evaluate(c *Controller) string
	Exit(c *Controller)
}

// StateDef is a behavior table: a state assembled from closures instead of a
// concrete type. The stock archetypes are built from these, and hosts can
// inject fully external behavior the same way. Nil hooks are skipped.
type StateDef struct {
	OnEnter    func(c *Controller)
	OnUpdate   func(c *Controller, dt float64)
	OnEvaluate func(c *Controller) string
	OnExit     func(c *Controller)
}

func (s *StateDef) Enter(c *Controller) {
	if s.OnEnter != nil {
		s.OnEnter(c)
	}
}

func (s *StateDef) Update(c *Controller, dt float64) {
	if s.OnUpdate != nil {
		s.OnUpdate(c, dt)
	}
}

func (s *StateDef) Evaluate(c *Controller) string {
	if s.OnEvaluate == nil {
		return ""
	}
	return s.OnEvaluate(c)
}

func (s *StateDef) Exit(c *Controller) {
	if s.OnExit != nil {
		s.OnExit(c)
	}
}
