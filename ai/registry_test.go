package ai

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	owner := uuid.New()

	calls := 0
	factory := func() State {
		calls++
		return &StateDef{}
	}

	reg.RegisterState(owner, "idle", factory)
	reg.RegisterState(owner, "idle", factory)

	if calls != 1 {
		t.Fatalf("expected factory called once, got %d", calls)
	}

	first, err := reg.GetState(owner, "idle")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	second, err := reg.GetState(owner, "idle")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same instance on repeated lookups")
	}
}

func TestRegistryGetStateUnknown(t *testing.T) {
	cases := []struct {
		name     string
		register bool
		lookup   string
	}{
		{"never_registered", false, "idle"},
		{"wrong_name", true, "attack"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			reg := NewRegistry()
			owner := uuid.New()
			if c.register {
				reg.RegisterState(owner, "idle", func() State { return &StateDef{} })
			}
			if _, err := reg.GetState(owner, c.lookup); !errors.Is(err, ErrStateNotFound) {
				t.Fatalf("expected ErrStateNotFound, got %v", err)
			}
		})
	}
}

func TestRegistryStatesAreScopedPerOwner(t *testing.T) {
	reg := NewRegistry()
	a := uuid.New()
	b := uuid.New()

	reg.RegisterState(a, "idle", func() State { return &StateDef{} })

	if _, err := reg.GetState(b, "idle"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected owner b to have no states, got %v", err)
	}
}

func TestRegistryUnregisterRemovesAllOwnerStates(t *testing.T) {
	reg := NewRegistry()
	a := uuid.New()
	b := uuid.New()

	for _, name := range []string{"idle", "move", "attack"} {
		reg.RegisterState(a, name, func() State { return &StateDef{} })
	}
	reg.RegisterState(b, "idle", func() State { return &StateDef{} })

	reg.Unregister(a)

	if _, err := reg.GetState(a, "idle"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected owner a states gone, got %v", err)
	}
	if _, err := reg.GetState(b, "idle"); err != nil {
		t.Fatalf("owner b should be untouched, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 remaining state, got %d", reg.Len())
	}
}

func TestControllerReleaseCleansRegistry(t *testing.T) {
	reg := NewRegistry()
	c, err := NewController(KindChase, chaseParams(), reg, &fakePerception{}, WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	if reg.Len() == 0 {
		t.Fatalf("expected states registered during construction")
	}

	c.Release()

	if reg.Len() != 0 {
		t.Fatalf("expected no registry entries after release, got %d", reg.Len())
	}
}
