package ai

import (
	"io"
	"log/slog"
)

// fakeMover records every command a controller issues, in order.
type fakeMover struct {
	commands []string
	ready    bool
	// cooldownOnAttack clears the ready flag when an attack fires, like a
	// real actor starting its cooldown.
	cooldownOnAttack bool
}

func (m *fakeMover) MoveLeft()       { m.commands = append(m.commands, "move_left") }
func (m *fakeMover) MoveRight()      { m.commands = append(m.commands, "move_right") }
func (m *fakeMover) Jump()           { m.commands = append(m.commands, "jump") }
func (m *fakeMover) HorizontalStop() { m.commands = append(m.commands, "stop") }

func (m *fakeMover) Attack() {
	m.commands = append(m.commands, "attack")
	if m.cooldownOnAttack {
		m.ready = false
	}
}

func (m *fakeMover) IsReadyToAttack() bool { return m.ready }

// fakePerception returns a scripted offset to the target.
type fakePerception struct {
	dx, dy    float64
	hasTarget bool
}

func (p *fakePerception) DistanceToTarget() (float64, float64, bool) {
	return p.dx, p.dy, p.hasTarget
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testDt = 1.0 / 60.0

func newTestController(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, kind Kind, p Params, opts ...Option) (*Controller, *fakeMover, *fakePerception) {
	t.Helper()
	reg := NewRegistry()
	per := &fakePerception{}
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	c, err := NewController(kind, p, reg, per, opts...)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	m := &fakeMover{}
	c.PossessMover(m)
	return c, m, per
}

func chaseParams() Params {
	return Params{AlertDistance: 50, AttackDistance: 10, AttacksEnabled: true}
}
