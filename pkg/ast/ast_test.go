package ast

import (
	"strings"
	"testing"

	"paracl/pkg/interner"
	"paracl/pkg/token"
)

func tok(line int) token.Token { return token.Token{Line: line, Column: 1} }

func TestArenaRefsStable(t *testing.T) {
	a := NewArena()
	c1 := a.NewConstant(tok(1), 1)
	c2 := a.NewConstant(tok(2), 2)
	bin := a.NewBinaryOp(tok(1), OpAdd, c1, c2)

	node := a.Node(bin)
	if node.Kind != KBinaryOp {
		t.Fatalf("expected KBinaryOp, got %v", node.Kind)
	}
	if a.Node(node.A).IntVal != 1 || a.Node(node.B).IntVal != 2 {
		t.Fatalf("child refs did not resolve to the expected constants")
	}
}

func TestArenaGrowsAppendOnly(t *testing.T) {
	a := NewArena()
	for i := 0; i < 100; i++ {
		a.NewConstant(tok(1), int64(i))
	}
	if a.Len() != 100 {
		t.Fatalf("Len() = %d, want 100", a.Len())
	}
}

func TestIfWithoutElse(t *testing.T) {
	a := NewArena()
	cond := a.NewConstant(tok(1), 1)
	then := a.NewScope(tok(1), nil)
	ifNode := a.NewIf(tok(1), cond, then, NoRef)

	if a.Node(ifNode).C != NoRef {
		t.Fatal("expected else branch to be NoRef")
	}
}

func TestDumpDoesNotPanicOnLeaves(t *testing.T) {
	a := NewArena()
	names := interner.New()
	x := names.Intern("x")
	c := a.NewConstant(tok(1), 5)
	v := a.NewVariable(tok(1), x)
	assign := a.NewAssign(tok(1), v, c)
	scope := a.NewScope(tok(1), []Ref{assign})

	out := Dump(a, scope, names)
	if !strings.Contains(out, "Assign") || !strings.Contains(out, "Constant(5)") {
		t.Fatalf("dump missing expected nodes:\n%s", out)
	}
}
