package sim

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Actor is a physics-backed stand-in for an engine entity. It owns a dynamic
// chipmunk body and exposes the movement capability surface AI controllers
// drive. Commands are best-effort: a jump while airborne does nothing.
type Actor struct {
	Name string

	body  *cp.Body
	shape *cp.Shape

	moveSpeed float64
	jumpSpeed float64

	attackCooldown float64
	cooldownLeft   float64
	attacksDone    int
}

const (
	actorWidth  = 12.0
	actorHeight = 16.0
)

func newActor(space *cp.Space, name string, x, y, moveSpeed, jumpSpeed, attackCooldown float64) *Actor {
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: x, Y: y})
	space.AddBody(body)

	shape := cp.NewBox(body, actorWidth, actorHeight, 0)
	shape.SetFriction(0.9)
	shape.SetElasticity(0)
	space.AddShape(shape)

	return &Actor{
		Name:           name,
		body:           body,
		shape:          shape,
		moveSpeed:      moveSpeed,
		jumpSpeed:      jumpSpeed,
		attackCooldown: attackCooldown,
	}
}

// Position returns the actor's world-space position.
func (a *Actor) Position() (x, y float64) {
	pos := a.body.Position()
	return pos.X, pos.Y
}

// AttacksDone counts attacks that actually fired, for diagnostics.
func (a *Actor) AttacksDone() int { return a.attacksDone }

// tick advances the actor's cooldown timer.
func (a *Actor) tick(dt float64) {
	if a.cooldownLeft > 0 {
		a.cooldownLeft -= dt
		if a.cooldownLeft < 0 {
			a.cooldownLeft = 0
		}
	}
}

func (a *Actor) grounded() bool {
	return math.Abs(a.body.Velocity().Y) < 1e-3
}

// ai.Mover implementation.

func (a *Actor) MoveLeft() {
	v := a.body.Velocity()
	a.body.SetVelocity(-a.moveSpeed, v.Y)
}

func (a *Actor) MoveRight() {
	v := a.body.Velocity()
	a.body.SetVelocity(a.moveSpeed, v.Y)
}

func (a *Actor) Jump() {
	if !a.grounded() {
		return
	}
	v := a.body.Velocity()
	a.body.SetVelocity(v.X, -a.jumpSpeed)
}

func (a *Actor) HorizontalStop() {
	v := a.body.Velocity()
	a.body.SetVelocity(0, v.Y)
}

func (a *Actor) Attack() {
	if a.cooldownLeft > 0 {
		return
	}
	a.attacksDone++
	a.cooldownLeft = a.attackCooldown
}

func (a *Actor) IsReadyToAttack() bool {
	return a.cooldownLeft <= 0
}
