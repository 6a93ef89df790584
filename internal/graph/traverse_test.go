package graph

import (
	"reflect"
	"testing"

	"github.com/planwright/planwright/internal/errors"
	"github.com/planwright/planwright/internal/plan"
)

// diamond builds a -> (b, c) -> d: b and c depend on a, d depends on both.
func diamond() *plan.Document {
	return testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("a")),
		testNode("c", plan.NameRef("a")),
		testNode("d", plan.NameRef("b"), plan.NameRef("c")),
	)
}

func TestCycle_Acyclic(t *testing.T) {
	g, _ := Build(diamond(), Permissive)
	if cycle := g.Cycle(); cycle != nil {
		t.Errorf("Cycle() = %v on an acyclic graph, want nil", cycle)
	}
}

func TestCycle_ThreeNodes(t *testing.T) {
	doc := testDoc(
		testNode("a", plan.NameRef("b")),
		testNode("b", plan.NameRef("c")),
		testNode("c", plan.NameRef("a")),
	)
	g, issues := Build(doc, Permissive)
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none", issues)
	}

	cycle := g.Cycle()
	want := []string{"a", "b", "c", "a"}
	if !reflect.DeepEqual(cycle, want) {
		t.Errorf("Cycle() = %v, want %v", cycle, want)
	}
}

func TestCycle_TwoNodes(t *testing.T) {
	doc := testDoc(
		testNode("x", plan.NameRef("y")),
		testNode("y", plan.NameRef("x")),
	)
	g, _ := Build(doc, Permissive)

	cycle := g.Cycle()
	want := []string{"x", "y", "x"}
	if !reflect.DeepEqual(cycle, want) {
		t.Errorf("Cycle() = %v, want %v", cycle, want)
	}
}

func TestCycle_Deterministic(t *testing.T) {
	// Two independent cycles; the witness must always come from the one
	// reachable from the lowest index.
	doc := testDoc(
		testNode("p", plan.NameRef("q")),
		testNode("q", plan.NameRef("p")),
		testNode("r", plan.NameRef("s")),
		testNode("s", plan.NameRef("r")),
	)
	g, _ := Build(doc, Permissive)

	first := g.Cycle()
	for i := 0; i < 5; i++ {
		if got := g.Cycle(); !reflect.DeepEqual(got, first) {
			t.Fatalf("Cycle() unstable: %v vs %v", got, first)
		}
	}
	want := []string{"p", "q", "p"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Cycle() = %v, want %v", first, want)
	}
}

func TestCycle_ClosedPath(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("a"), plan.NameRef("d")),
		testNode("c", plan.NameRef("b")),
		testNode("d", plan.NameRef("c")),
	)
	g, _ := Build(doc, Permissive)

	cycle := g.Cycle()
	if cycle == nil {
		t.Fatal("Cycle() = nil, want a witness")
	}
	if cycle[0] != cycle[len(cycle)-1] {
		t.Errorf("witness not closed: %v", cycle)
	}
	if len(cycle) != 4 {
		t.Errorf("witness length = %d, want 4 (b, d, c plus repeat): %v", len(cycle), cycle)
	}
}

func TestDepths_Chain(t *testing.T) {
	doc := testDoc(
		testNode("a"),
		testNode("b", plan.NameRef("a")),
		testNode("c", plan.NameRef("b")),
	)
	g, _ := Build(doc, Permissive)

	depths, err := g.Depths()
	if err != nil {
		t.Fatalf("Depths failed: %v", err)
	}
	if !reflect.DeepEqual(depths, []int{1, 2, 3}) {
		t.Errorf("Depths() = %v, want [1 2 3]", depths)
	}
}

func TestDepths_Diamond(t *testing.T) {
	g, _ := Build(diamond(), Permissive)

	depths, err := g.Depths()
	if err != nil {
		t.Fatalf("Depths failed: %v", err)
	}
	if !reflect.DeepEqual(depths, []int{1, 2, 2, 3}) {
		t.Errorf("Depths() = %v, want [1 2 2 3]", depths)
	}
}

func TestDepths_NoDependencies(t *testing.T) {
	doc := testDoc(testNode("a"), testNode("b"), testNode("c"))
	g, _ := Build(doc, Permissive)

	depths, err := g.Depths()
	if err != nil {
		t.Fatalf("Depths failed: %v", err)
	}
	if !reflect.DeepEqual(depths, []int{1, 1, 1}) {
		t.Errorf("Depths() = %v, want all ones", depths)
	}
}

func TestDepths_CycleError(t *testing.T) {
	doc := testDoc(
		testNode("a", plan.NameRef("b")),
		testNode("b", plan.NameRef("a")),
	)
	g, _ := Build(doc, Permissive)

	_, err := g.Depths()
	if err == nil {
		t.Fatal("Depths on a cyclic graph succeeded")
	}
	if !errors.Is(err, errors.ErrDependencyCycle) {
		t.Errorf("error does not match ErrDependencyCycle: %v", err)
	}
	if token := errors.Token(err); token != "cycle_detected" {
		t.Errorf("Token = %q, want cycle_detected", token)
	}

	var cycleErr *errors.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("error is not a CycleError: %v", err)
	}
	if len(cycleErr.Path) < 3 || cycleErr.Path[0] != cycleErr.Path[len(cycleErr.Path)-1] {
		t.Errorf("CycleError.Path = %v, want a closed witness", cycleErr.Path)
	}
}

func TestClosure_Forward(t *testing.T) {
	g, _ := Build(diamond(), Permissive)

	if got := g.Closure(Forward, []int{0}); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Closure(Forward, [a]) = %v, want [1 2 3]", got)
	}
	if got := g.Closure(Forward, []int{1}); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("Closure(Forward, [b]) = %v, want [3]", got)
	}
	if got := g.Closure(Forward, []int{3}); len(got) != 0 {
		t.Errorf("Closure(Forward, [d]) = %v, want none", got)
	}
}

func TestClosure_Backward(t *testing.T) {
	g, _ := Build(diamond(), Permissive)

	if got := g.Closure(Backward, []int{3}); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Closure(Backward, [d]) = %v, want [0 1 2]", got)
	}
	if got := g.Closure(Backward, []int{0}); len(got) != 0 {
		t.Errorf("Closure(Backward, [a]) = %v, want none", got)
	}
}

func TestClosure_MultipleSeeds(t *testing.T) {
	g, _ := Build(diamond(), Permissive)

	// Seeds are excluded even when one seed is reachable from another.
	got := g.Closure(Forward, []int{0, 1})
	if !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("Closure(Forward, [a b]) = %v, want [2 3]", got)
	}
}

func TestClosure_IgnoresOutOfRangeSeeds(t *testing.T) {
	g, _ := Build(diamond(), Permissive)

	got := g.Closure(Forward, []int{-1, 0, 99})
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Closure with junk seeds = %v, want [1 2 3]", got)
	}
}

func TestClosure_NoSeeds(t *testing.T) {
	g, _ := Build(diamond(), Permissive)
	if got := g.Closure(Forward, nil); len(got) != 0 {
		t.Errorf("Closure(Forward, nil) = %v, want empty", got)
	}
}
