package ecs

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestReparent(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	a := mustCreate(t, w, Plain)
	b := mustCreate(t, w, Plain)
	c := mustCreate(t, w, Plain, WithParent(a))

	if err := reg.AddChild(b, c); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if got := reg.Children(a); len(got) != 0 {
		t.Fatalf("old parent should lose the child, got %v", got)
	}
	if got := reg.Children(b); !reflect.DeepEqual(got, []Entity{c}) {
		t.Fatalf("new parent should hold the child once, got %v", got)
	}
	if reg.Parent(c) != b {
		t.Fatalf("expected parent %v, got %v", b, reg.Parent(c))
	}
	if err := reg.AddChild(b, c); err != nil {
		t.Fatalf("repeat AddChild: %v", err)
	}
	if got := reg.Children(b); len(got) != 1 {
		t.Fatalf("repeat AddChild should not duplicate, got %v", got)
	}
}

func TestRootBecomesChild(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	a := mustCreate(t, w, Plain)
	b := mustCreate(t, w, Plain)

	if err := reg.AddChild(a, b); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if got := w.Roots(); !reflect.DeepEqual(got, []Entity{a}) {
		t.Fatalf("child should leave the root set, got %v", got)
	}
	if err := reg.RemoveChild(a, b); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if got := w.Roots(); !reflect.DeepEqual(got, []Entity{a, b}) {
		t.Fatalf("removed child should be re-admitted as a root, got %v", got)
	}
	if err := reg.RemoveChild(a, b); !errors.Is(err, ErrNotChild) {
		t.Fatalf("expected ErrNotChild, got %v", err)
	}
}

func TestCyclicParenting(t *testing.T) {
	captureLog(t)
	reg := NewRegistry()
	a, _ := reg.NewEntity(Plain)
	b, _ := reg.NewEntity(Plain, WithParent(a))
	c, _ := reg.NewEntity(Plain, WithParent(b))

	cases := []struct {
		name          string
		parent, child Entity
	}{
		{"self", a, a},
		{"direct", b, a},
		{"grandchild", c, a},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := reg.AddChild(tc.parent, tc.child); !errors.Is(err, ErrCyclicParenting) {
				t.Fatalf("expected ErrCyclicParenting, got %v", err)
			}
			if reg.Parent(a) != Nil || reg.Parent(c) != b {
				t.Fatalf("hierarchy changed by a refused reparent")
			}
		})
	}
}

func TestDuplicateComponent(t *testing.T) {
	captureLog(t)
	reg := NewRegistry()
	e, _ := reg.NewEntity(Plain)

	first, err := CreateComponent(reg, e, partA)
	if err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}
	if _, err := CreateComponent(reg, e, partA); !errors.Is(err, ErrDuplicateComponent) {
		t.Fatalf("expected ErrDuplicateComponent, got %v", err)
	}
	if got := GetComponent(reg, e, partA); got != first {
		t.Fatalf("original component should remain attached")
	}
	if got := reg.Components(e); len(got) != 1 {
		t.Fatalf("expected a single component, got %d", len(got))
	}
}

func TestGetMissingComponent(t *testing.T) {
	buf := captureLog(t)
	reg := NewRegistry()
	e, _ := reg.NewEntity(Plain)

	if got := GetComponent(reg, e, partA); got != nil {
		t.Fatalf("expected zero value, got %v", got)
	}
	if !strings.Contains(buf.String(), "component not present") {
		t.Fatalf("missing component should be logged, got %q", buf.String())
	}
	if _, ok := TryGetComponent(reg, e, partA); ok {
		t.Fatalf("TryGetComponent should report absence")
	}
	if reg.DestroyComponent(e, partA) {
		t.Fatalf("DestroyComponent on an absent kind should be a no-op")
	}
}

func TestComponentCreatedOnAttachToLiveEntity(t *testing.T) {
	tr := &tracer{}
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	e := mustCreate(t, w, Plain)

	mustAttach(t, reg, e, partA, "p", tr)
	if !reflect.DeepEqual(tr.events, []string{"p:create"}) {
		t.Fatalf("component on a created entity should be created at once, got %v", tr.events)
	}
	tr.reset()
	reg.DestroyComponent(e, partA)
	if !reflect.DeepEqual(tr.events, []string{"p:destroy"}) {
		t.Fatalf("expected destroy hook, got %v", tr.events)
	}
}

func TestBaseOwner(t *testing.T) {
	captureLog(t)
	reg := NewRegistry()
	w := reg.NewWorld()
	_ = w.Load()
	e1 := mustCreate(t, w, Plain)
	e2 := mustCreate(t, w, Plain)

	p := &part{name: "p", tr: &tracer{}}
	if p.Owner() != Nil {
		t.Fatalf("unattached component should have no owner")
	}
	if err := Attach(reg, e1, partA, p); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if p.Owner() != e1 {
		t.Fatalf("expected owner %v, got %v", e1, p.Owner())
	}
	if err := Attach(reg, e2, partA, p); !errors.Is(err, ErrComponentAttached) {
		t.Fatalf("expected ErrComponentAttached, got %v", err)
	}
	if reg.HasComponent(e2, partA) {
		t.Fatalf("refused attach must not leave a component behind")
	}

	_ = reg.Destroy(e1)
	if p.Owner() != e1 || !p.Cancelled() {
		t.Fatalf("destroy request should cancel but keep the owner until teardown")
	}
	w.Update()
	if p.Owner() != Nil || !p.Destroyed() {
		t.Fatalf("destroyed component should drop its owner")
	}
}

type needsPart struct {
	Base
}

var dependentKind = NewComponentKind("dependent", func() *needsPart { return &needsPart{} }, DependsOn(partA))

func TestMissingDependency(t *testing.T) {
	cases := []struct {
		name     string
		validate bool
		withDep  bool
		warn     bool
	}{
		{"validate_missing", true, false, true},
		{"validate_present", true, true, false},
		{"no_validate", false, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := captureLog(t)
			reg := NewRegistry(WithValidation(c.validate))
			w := reg.NewWorld()
			_ = w.Load()
			e := mustCreate(t, w, Plain)
			if c.withDep {
				mustAttach(t, reg, e, partA, "dep", &tracer{})
			}
			if _, err := CreateComponent(reg, e, dependentKind); err != nil {
				t.Fatalf("attachment must not be refused: %v", err)
			}
			warned := strings.Contains(buf.String(), "missing component dependency")
			if warned != c.warn {
				t.Fatalf("expected warning=%v, log %q", c.warn, buf.String())
			}
			if !reg.HasComponent(e, dependentKind) {
				t.Fatalf("component should be attached")
			}
		})
	}
}

type builtBehavior struct {
	created bool
}

func (b *builtBehavior) Build(ctx Ctx) {
	_, _ = CreateComponent(ctx.Registry(), ctx.Entity(), partA)
	_ = ctx.Registry().AddTag(ctx.Entity(), playerTag)
}

func (b *builtBehavior) OnCreate(ctx Ctx) {
	b.created = ctx.Registry().HasComponent(ctx.Entity(), partA)
}

func TestBuilderAttachesBeforeCreate(t *testing.T) {
	reg := NewRegistry()
	w := reg.NewWorld()
	kind := NewEntityKind("built", func() any { return &builtBehavior{} })
	e := mustCreate(t, w, kind)
	_ = w.Load()

	if !reg.Behavior(e).(*builtBehavior).created {
		t.Fatalf("components attached by Build should exist at create")
	}
	if got := w.EntitiesWithTag(playerTag); !reflect.DeepEqual(got, []Entity{e}) {
		t.Fatalf("tags added by Build should be indexed, got %v", got)
	}
	if got, _ := reg.Kind(e); got.Name() != "built" {
		t.Fatalf("unexpected kind %q", got.Name())
	}
}

func TestStaleHandles(t *testing.T) {
	captureLog(t)
	reg := NewRegistry()
	a, _ := reg.NewEntity(Plain)
	_ = reg.Destroy(a)
	b, _ := reg.NewEntity(Plain)

	if a.id() != b.id() {
		t.Fatalf("expected slot reuse, got %v and %v", a, b)
	}
	if a == b || reg.Valid(a) || !reg.Valid(b) {
		t.Fatalf("stale handle must not alias the new entity")
	}
	if err := reg.AddTag(a, playerTag); !errors.Is(err, ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if reg.HasTag(b, playerTag) {
		t.Fatalf("operation on stale handle leaked into new entity")
	}
}

func TestLifecycleTransitions(t *testing.T) {
	cases := []struct {
		name  string
		steps []func(*Lifecycle) bool
		want  []bool
		final State
	}{
		{"create_destroy", []func(*Lifecycle) bool{(*Lifecycle).Create, (*Lifecycle).Destroy}, []bool{true, true}, Destroyed},
		{"double_create", []func(*Lifecycle) bool{(*Lifecycle).Create, (*Lifecycle).Create}, []bool{true, false}, Created},
		{"destroy_uncreated", []func(*Lifecycle) bool{(*Lifecycle).Destroy, (*Lifecycle).Create}, []bool{true, false}, Destroyed},
		{"double_destroy", []func(*Lifecycle) bool{(*Lifecycle).Destroy, (*Lifecycle).Destroy}, []bool{true, false}, Destroyed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var l Lifecycle
			for i, step := range c.steps {
				if got := step(&l); got != c.want[i] {
					t.Fatalf("step %d: expected %v, got %v", i, c.want[i], got)
				}
			}
			if l.State() != c.final {
				t.Fatalf("expected %v, got %v", c.final, l.State())
			}
		})
	}
}

func TestSparseSetOrder(t *testing.T) {
	var s sparseSet[string]
	s.Set(3, "c")
	s.Set(1, "a")
	s.Set(7, "g")
	s.Set(1, "A")

	if got := s.Values(); !reflect.DeepEqual(got, []string{"c", "A", "g"}) {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if !s.Remove(3) || s.Remove(3) {
		t.Fatalf("Remove should report presence once")
	}
	if got := s.Values(); !reflect.DeepEqual(got, []string{"A", "g"}) {
		t.Fatalf("removal should keep order, got %v", got)
	}
	if v, ok := s.Get(7); !ok || v != "g" {
		t.Fatalf("lookup after removal broken: %q %v", v, ok)
	}
	if s.Has(0) || s.Has(100) {
		t.Fatalf("unexpected keys present")
	}
}
