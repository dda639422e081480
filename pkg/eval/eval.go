// Package eval implements ParaC's tree-walking evaluator (spec.md §2
// component F, §4.F): one method per ast.Kind, dispatching on the node's
// tag, maintaining the scope stack and the output/input streams.
//
// Grounded on the teacher's pkg/eval.Eval(node ast.Node, env *Environment)
// Object big switch; this evaluator's eval return value plays the role of
// the teacher's single mutable "current value" — and of spec.md's "current
// value buffer" — via ordinary Go call-return data flow (see SPEC_FULL.md §4).
package eval

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"paracl/pkg/ast"
	"paracl/pkg/interner"
	"paracl/pkg/scope"
	"paracl/pkg/value"
)

// Evaluator owns everything spec.md §5 says the evaluator exclusively owns:
// the scope stack, the output sink, and the input source. The arena and
// interner are read-only from here.
type Evaluator struct {
	arena *ast.Arena
	names *interner.Interner
	scope *scope.Stack

	in  *bufio.Reader
	out io.Writer

	trace io.Writer // nil disables tracing
}

// New returns an Evaluator ready to run a program parsed into arena.
func New(arena *ast.Arena, names *interner.Interner, in io.Reader, out io.Writer) *Evaluator {
	return &Evaluator{
		arena: arena,
		names: names,
		scope: scope.New(),
		in:    bufio.NewReader(in),
		out:   out,
	}
}

// SetTrace enables per-statement tracing to w (SPEC_FULL.md §6.4's
// --trace flag); nil disables it.
func (e *Evaluator) SetTrace(w io.Writer) { e.trace = w }

// Run evaluates root (expected to be the program's root ast.KScope node,
// spec.md §2) to completion.
func (e *Evaluator) Run(root ast.Ref) error {
	_, err := e.eval(root)
	return err
}

func (e *Evaluator) errAt(n *ast.Node, kind ErrorKind, format string, args ...interface{}) error {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Line: n.Line, Col: n.Col}
}

// eval is the tree walk. Expressions, initialisers and Assign return their
// value; Print, While and Scope return nil, and If returns whatever its
// taken branch returns (nil when no branch runs). The only statement result
// ever consumed is Assign's, as the rhs of an enclosing Assign.
func (e *Evaluator) eval(r ast.Ref) (value.Value, error) {
	n := e.arena.Node(r)
	e.traceNode(n)

	switch n.Kind {
	case ast.KConstant:
		return value.NewInt(n.IntVal), nil

	case ast.KVariable:
		v, ok := e.scope.Read(n.Name)
		if !ok {
			return nil, e.errAt(n, UndeclaredVariable, "undeclared variable %q", e.names.Name(n.Name))
		}
		return v, nil

	case ast.KInput:
		return e.evalInput(n)

	case ast.KBinaryOp:
		return e.evalBinaryOp(n)

	case ast.KUnaryOp:
		return e.evalUnaryOp(n)

	case ast.KArrayIndex:
		return e.evalArrayIndex(n)

	case ast.KArrayLiteral:
		return e.evalArrayLiteral(n)

	case ast.KRepeat:
		return e.evalRepeat(n)

	case ast.KAssign:
		return e.evalAssign(n)

	case ast.KPrint:
		return nil, e.evalPrint(n)

	case ast.KIf:
		return e.evalIf(n)

	case ast.KWhile:
		return nil, e.evalWhile(n)

	case ast.KScope:
		return nil, e.evalScope(n)

	default:
		panic(fmt.Sprintf("eval: unhandled node kind %v", n.Kind))
	}
}

func (e *Evaluator) traceNode(n *ast.Node) {
	if e.trace == nil {
		return
	}
	switch n.Kind {
	case ast.KAssign, ast.KPrint, ast.KIf, ast.KWhile, ast.KScope:
		fmt.Fprintf(e.trace, "%d: %s\n", n.Line, n.Kind)
	}
}

// evalBinaryOp implements spec.md §4.F's BinaryOp contract: both operands
// always evaluate, left then right, with no short-circuiting — "observable
// only via side-effects such as Input" (spec.md §4.F), which is exactly
// the Both-sides-evaluated-logic property in spec.md §8.
func (e *Evaluator) evalBinaryOp(n *ast.Node) (value.Value, error) {
	left, err := e.eval(n.A)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(n.B)
	if err != nil {
		return nil, err
	}

	li, ok := left.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "left operand of %s must be INTEGER, got %s", n.Op, left.Kind())
	}
	ri, ok := right.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "right operand of %s must be INTEGER, got %s", n.Op, right.Kind())
	}

	switch n.Op {
	case ast.OpAdd:
		return value.NewInt(li.V + ri.V), nil
	case ast.OpSub:
		return value.NewInt(li.V - ri.V), nil
	case ast.OpMul:
		return value.NewInt(li.V * ri.V), nil
	case ast.OpDiv:
		if ri.V == 0 {
			return nil, e.errAt(n, DivisionByZero, "division by zero")
		}
		return value.NewInt(li.V / ri.V), nil
	case ast.OpMod:
		if ri.V == 0 {
			return nil, e.errAt(n, DivisionByZero, "modulo by zero")
		}
		return value.NewInt(li.V % ri.V), nil
	case ast.OpLt:
		return boolInt(li.V < ri.V), nil
	case ast.OpGt:
		return boolInt(li.V > ri.V), nil
	case ast.OpLe:
		return boolInt(li.V <= ri.V), nil
	case ast.OpGe:
		return boolInt(li.V >= ri.V), nil
	case ast.OpEq:
		return boolInt(li.V == ri.V), nil
	case ast.OpNe:
		return boolInt(li.V != ri.V), nil
	case ast.OpAnd:
		return boolInt(li.Truthy() && ri.Truthy()), nil
	case ast.OpOr:
		return boolInt(li.Truthy() || ri.Truthy()), nil
	default:
		panic(fmt.Sprintf("eval: unhandled binary operator %v", n.Op))
	}
}

func (e *Evaluator) evalUnaryOp(n *ast.Node) (value.Value, error) {
	operand, err := e.eval(n.A)
	if err != nil {
		return nil, err
	}
	v, ok := operand.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "operand of %s must be INTEGER, got %s", n.Op, operand.Kind())
	}
	switch n.Op {
	case ast.OpNeg:
		return value.NewInt(-v.V), nil
	case ast.OpNot:
		return boolInt(!v.Truthy()), nil
	default:
		panic(fmt.Sprintf("eval: unhandled unary operator %v", n.Op))
	}
}

func boolInt(b bool) *value.Int {
	if b {
		return value.NewInt(1)
	}
	return value.NewInt(0)
}

// evalArrayIndex implements the ArrayIndex (read) contract of spec.md
// §4.F: evaluate the index first, then resolve the base (a Variable read
// or a recursive ArrayIndex evaluation), then bounds-checked subscript.
func (e *Evaluator) evalArrayIndex(n *ast.Node) (value.Value, error) {
	idxVal, err := e.eval(n.B)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "array index must be INTEGER, got %s", idxVal.Kind())
	}

	baseVal, err := e.eval(n.A)
	if err != nil {
		return nil, err
	}
	arr, ok := baseVal.(*value.Array)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "cannot index a %s", baseVal.Kind())
	}
	if idx.V < 0 || int(idx.V) >= len(arr.Elems) {
		return nil, e.errAt(n, IndexOutOfBounds, "index %d out of bounds for length %d", idx.V, len(arr.Elems))
	}
	return arr.Elems[idx.V].Clone(), nil
}

func (e *Evaluator) evalArrayLiteral(n *ast.Node) (value.Value, error) {
	// Elements evaluate left-to-right (spec.md §9's resolved open question).
	elems := make([]value.Value, 0, len(n.List))
	for _, elRef := range n.List {
		v, err := e.eval(elRef)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return value.NewArray(elems), nil
}

// evalRepeat implements spec.md §4.F's Repeat contract: size evaluates,
// then the element expression evaluates exactly once (spec.md §5's
// "Repeat single-eval" ordering guarantee) and is deep-copied size times.
func (e *Evaluator) evalRepeat(n *ast.Node) (value.Value, error) {
	sizeVal, err := e.eval(n.B)
	if err != nil {
		return nil, err
	}
	size, ok := sizeVal.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "repeat size must be INTEGER, got %s", sizeVal.Kind())
	}
	if size.V < 0 {
		return nil, e.errAt(n, NegativeArraySize, "repeat size %d is negative", size.V)
	}

	var elem value.Value
	if n.A == ast.NoRef {
		elem = value.NewInt(0)
	} else {
		elem, err = e.eval(n.A)
		if err != nil {
			return nil, err
		}
	}

	elems := make([]value.Value, size.V)
	for i := range elems {
		elems[i] = elem.Clone()
	}
	return value.NewArray(elems), nil
}

// evalAssign implements spec.md §4.F's Assign contract, including the
// resolved open question that Assign yields the assigned value.
func (e *Evaluator) evalAssign(n *ast.Node) (value.Value, error) {
	lhs := e.arena.Node(n.A)

	if lhs.Kind == ast.KVariable {
		v, err := e.eval(n.B)
		if err != nil {
			return nil, err
		}
		e.scope.Write(lhs.Name, v)
		return v.Clone(), nil
	}

	// lhs.Kind == ast.KArrayIndex: collect the index path outermost-first
	// (spec.md §4.E) before evaluating rhs, then WriteInto.
	indices, base, err := e.collectIndexPath(lhs)
	if err != nil {
		return nil, err
	}
	v, err := e.eval(n.B)
	if err != nil {
		return nil, err
	}
	if err := e.scope.WriteIndexed(base, indices, v); err != nil {
		return nil, e.indexPathError(n, err)
	}
	return v.Clone(), nil
}

// collectIndexPath walks an ArrayIndex chain down to its base Variable,
// evaluating each subscript, and returns the indices in application order
// (base-adjacent subscript first) together with the base variable's name.
func (e *Evaluator) collectIndexPath(n *ast.Node) ([]int64, interner.Handle, error) {
	idxVal, err := e.eval(n.B)
	if err != nil {
		return nil, 0, err
	}
	idx, ok := idxVal.(*value.Int)
	if !ok {
		return nil, 0, e.errAt(n, TypeMismatch, "array index must be INTEGER, got %s", idxVal.Kind())
	}

	target := e.arena.Node(n.A)
	if target.Kind == ast.KVariable {
		return []int64{idx.V}, target.Name, nil
	}

	path, base, err := e.collectIndexPath(target)
	if err != nil {
		return nil, 0, err
	}
	return append(path, idx.V), base, nil
}

func (e *Evaluator) indexPathError(n *ast.Node, err error) error {
	pe, ok := err.(*scope.IndexPathError)
	if !ok {
		return err
	}
	switch pe.Kind {
	case "bounds":
		return e.errAt(n, IndexOutOfBounds, "index %d out of bounds for length %d", pe.Index, pe.Length)
	case "undeclared":
		return e.errAt(n, UndeclaredVariable, "undeclared variable")
	default:
		return e.errAt(n, TypeMismatch, "cannot index a non-array value")
	}
}

func (e *Evaluator) evalPrint(n *ast.Node) error {
	v, err := e.eval(n.A)
	if err != nil {
		return err
	}
	iv, ok := v.(*value.Int)
	if !ok {
		return e.errAt(n, TypeMismatch, "print expects INTEGER, got %s", v.Kind())
	}
	_, err = fmt.Fprintf(e.out, "%d\n", iv.V)
	return err
}

func (e *Evaluator) evalIf(n *ast.Node) (value.Value, error) {
	cond, err := e.eval(n.A)
	if err != nil {
		return nil, err
	}
	ci, ok := cond.(*value.Int)
	if !ok {
		return nil, e.errAt(n, TypeMismatch, "if condition must be INTEGER, got %s", cond.Kind())
	}
	if ci.Truthy() {
		return e.eval(n.B)
	}
	if n.C != ast.NoRef {
		return e.eval(n.C)
	}
	return nil, nil
}

func (e *Evaluator) evalWhile(n *ast.Node) error {
	for {
		cond, err := e.eval(n.A)
		if err != nil {
			return err
		}
		ci, ok := cond.(*value.Int)
		if !ok {
			return e.errAt(n, TypeMismatch, "while condition must be INTEGER, got %s", cond.Kind())
		}
		if !ci.Truthy() {
			return nil
		}
		if _, err := e.eval(n.B); err != nil {
			return err
		}
	}
}

func (e *Evaluator) evalScope(n *ast.Node) error {
	if len(n.List) == 0 {
		return nil
	}
	e.scope.Enter()
	defer e.scope.Leave()
	for _, stmt := range n.List {
		if _, err := e.eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

// evalInput implements spec.md §4.F's Input contract: consume whitespace,
// then one signed decimal integer token, from the input source.
func (e *Evaluator) evalInput(n *ast.Node) (value.Value, error) {
	if err := e.skipInputSpace(); err != nil {
		return nil, e.errAt(n, InputError, "end of input")
	}

	var sb strings.Builder
	r, _, err := e.in.ReadRune()
	if err != nil {
		return nil, e.errAt(n, InputError, "end of input")
	}
	if r == '-' || r == '+' {
		sb.WriteRune(r)
		r, _, err = e.in.ReadRune()
		if err != nil {
			return nil, e.errAt(n, InputError, "end of input after sign")
		}
	}
	if !unicode.IsDigit(r) {
		return nil, e.errAt(n, InputError, "expected an integer token, got %q", r)
	}
	sb.WriteRune(r)

	for {
		r, _, err := e.in.ReadRune()
		if err != nil {
			break // EOF terminates the token, not an error
		}
		if !unicode.IsDigit(r) {
			_ = e.in.UnreadRune()
			break
		}
		sb.WriteRune(r)
	}

	v, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return nil, e.errAt(n, InputError, "malformed integer token %q", sb.String())
	}
	return value.NewInt(v), nil
}

func (e *Evaluator) skipInputSpace() error {
	for {
		r, _, err := e.in.ReadRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return e.in.UnreadRune()
		}
	}
}
