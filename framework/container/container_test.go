package container_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmillet/stockroom/framework/container"
)

// ── stub services ─────────────────────────────────────────────────────────────

type svcA struct{ shutdowns *[]string }
type svcB struct{ a *svcA }

func (s *svcA) Shutdown() { *s.shutdowns = append(*s.shutdowns, "a") }

type svcC struct{ shutdowns *[]string }

func (s *svcC) Shutdown() { *s.shutdowns = append(*s.shutdowns, "c") }

// ── Resolution ───────────────────────────────────────────────────────────────

func TestContainer_SingletonIdentity(t *testing.T) {
	c := container.New()
	c.Declare("a", func(*container.Container) (any, error) { return &svcA{}, nil })

	first, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := c.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second {
		t.Error("expected identical instance on second Resolve")
	}
}

func TestContainer_UnknownToken(t *testing.T) {
	c := container.New()

	_, err := c.Resolve("ghost")
	var re *container.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if re.Token != "ghost" {
		t.Errorf("error should name the missing token, got %q", re.Token)
	}
}

func TestContainer_UnknownDependencyNamed(t *testing.T) {
	c := container.New()
	c.Declare("b", func(*container.Container) (any, error) { return &svcB{}, nil }, "missing")

	_, err := c.Resolve("b")
	var re *container.ResolutionError
	if !errors.As(err, &re) {
		t.Fatalf("expected wrapped ResolutionError, got %v", err)
	}
	if re.Token != "missing" {
		t.Errorf("got token %q want %q", re.Token, "missing")
	}
}

func TestContainer_DependenciesResolvedInDeclaredOrder(t *testing.T) {
	var built []string
	c := container.New()
	c.Declare("a", func(*container.Container) (any, error) {
		built = append(built, "a")
		return &svcA{}, nil
	})
	c.Declare("b", func(c *container.Container) (any, error) {
		built = append(built, "b")
		a, err := container.Resolve[*svcA](c, "a")
		if err != nil {
			return nil, err
		}
		return &svcB{a: a}, nil
	}, "a")
	c.Declare("c", func(*container.Container) (any, error) {
		built = append(built, "c")
		return &svcC{}, nil
	}, "b", "a")

	if _, err := c.Resolve("c"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// deps resolve before factories run: a, then b, then c itself
	want := []string{"a", "b", "c"}
	for i := range want {
		if built[i] != want[i] {
			t.Fatalf("construction order %v, want %v", built, want)
		}
	}
}

func TestContainer_FailedConstructionNotRecorded(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c := container.New()
	c.Declare("flaky", func(*container.Container) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &svcA{}, nil
	})

	_, err := c.Resolve("flaky")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
	if !strings.Contains(err.Error(), "[flaky]") {
		t.Errorf("error should name the offending token: %v", err)
	}
	if got := len(c.GetAll()); got != 0 {
		t.Fatalf("failed construction must not be recorded, got %d instances", got)
	}

	// Second attempt succeeds and is recorded.
	if _, err := c.Resolve("flaky"); err != nil {
		t.Fatalf("retry Resolve: %v", err)
	}
	if got := len(c.GetAll()); got != 1 {
		t.Errorf("got %d instances, want 1", got)
	}
}

func TestContainer_CycleDetected(t *testing.T) {
	c := container.New()
	c.Declare("x", func(*container.Container) (any, error) { return nil, nil }, "y")
	c.Declare("y", func(*container.Container) (any, error) { return nil, nil }, "x")

	if _, err := c.Resolve("x"); err == nil {
		t.Fatal("expected cycle error")
	}
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

func TestContainer_GetAllConstructionOrder(t *testing.T) {
	c := container.New()
	c.Instance("config", "cfg")
	c.Declare("a", func(*container.Container) (any, error) { return &svcA{}, nil })
	c.Declare("b", func(*container.Container) (any, error) { return &svcB{}, nil }, "a")

	if _, err := c.Resolve("b"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	all := c.GetAll()
	if len(all) != 3 {
		t.Fatalf("got %d instances, want 3", len(all))
	}
	if all[0] != "cfg" {
		t.Error("pre-built instance should come first")
	}
	if _, ok := all[1].(*svcA); !ok {
		t.Errorf("all[1] = %T, want *svcA", all[1])
	}
	if _, ok := all[2].(*svcB); !ok {
		t.Errorf("all[2] = %T, want *svcB", all[2])
	}
}

func TestContainer_TeardownHooksInOrderAndClears(t *testing.T) {
	var shutdowns []string
	c := container.New()
	c.Declare("a", func(*container.Container) (any, error) {
		return &svcA{shutdowns: &shutdowns}, nil
	})
	c.Declare("c", func(*container.Container) (any, error) {
		return &svcC{shutdowns: &shutdowns}, nil
	}, "a")

	before, err := c.Resolve("c")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	c.Teardown()

	if len(shutdowns) != 2 || shutdowns[0] != "a" || shutdowns[1] != "c" {
		t.Fatalf("shutdown order %v, want [a c]", shutdowns)
	}
	if got := len(c.GetAll()); got != 0 {
		t.Fatalf("registry should be empty after teardown, got %d", got)
	}

	// Declarations survive: the container can be rebuilt.
	after, err := c.Resolve("c")
	if err != nil {
		t.Fatalf("Resolve after teardown: %v", err)
	}
	if before == after {
		t.Error("expected a fresh instance after teardown")
	}
}
