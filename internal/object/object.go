// Package object is the runtime value domain the evaluator operates
// over: a small closed set of kinds (nil, boolean, number, string,
// function) reachable through the Value interface.
package object

import (
	"fmt"
	"math"
	"strconv"

	"github.com/oarkflow/spl/internal/ast"
)

// Kind tags which concrete Value variant a value holds.
type Kind int

const (
	NIL Kind = iota
	BOOLEAN
	NUMBER
	STRING
	FUNCTION
)

func (k Kind) String() string {
	switch k {
	case NIL:
		return "nil"
	case BOOLEAN:
		return "boolean"
	case NUMBER:
		return "number"
	case STRING:
		return "string"
	case FUNCTION:
		return "function"
	default:
		return "unknown"
	}
}

// Value is any runtime value the evaluator can produce or consume.
type Value interface {
	Kind() Kind
	Print() string
}

// Nil is the single value of the nil type.
type Nil struct{}

func (Nil) Kind() Kind    { return NIL }
func (Nil) Print() string { return "nil" }

// NilValue is the one shared Nil instance; callers never need to
// allocate their own.
var NilValue = Nil{}

// Boolean is true or false.
type Boolean struct{ Value bool }

func (b Boolean) Kind() Kind { return BOOLEAN }
func (b Boolean) Print() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// True and False are the two shared Boolean instances.
var (
	True  = Boolean{Value: true}
	False = Boolean{Value: false}
)

// Bool returns the shared True or False instance for a Go bool.
func Bool(v bool) Boolean {
	if v {
		return True
	}
	return False
}

// Number is the language's single numeric type, a float64 under the
// hood the same way the source language has no separate int/float
// literal kinds at the value level.
type Number struct{ Value float64 }

func (n Number) Kind() Kind { return NUMBER }
func (n Number) Print() string {
	switch {
	case math.IsNaN(n.Value):
		return "NaN"
	case math.IsInf(n.Value, 1):
		return "Infinity"
	case math.IsInf(n.Value, -1):
		return "-Infinity"
	case n.Value == float64(int64(n.Value)):
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is a text value.
type String struct{ Value string }

func (s String) Kind() Kind    { return STRING }
func (s String) Print() string { return s.Value }

// Function is a user-declared function: its parameter names, its
// body (owned by the AST, never copied), and the environment it
// closed over at declaration time.
type Function struct {
	FnName string
	Params []string
	Body   *ast.Block
	Env    Environment
}

func (f *Function) Kind() Kind { return FUNCTION }
func (f *Function) Print() string {
	name := f.FnName
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("<fn %s>", name)
}
func (f *Function) Arity() int   { return len(f.Params) }
func (f *Function) Name() string { return f.FnName }

// Environment is the narrow slice of internal/environment.Environment
// that object needs to know about, declared here to avoid an import
// cycle between object and environment (a closure captures its
// defining environment; the environment's store holds Values).
type Environment interface {
	Get(name string) (Value, bool)
	Define(name string, val Value)
	Assign(name string, val Value) bool
}

// Truthy implements the language's truthiness rule: everything is
// truthy except nil and the boolean false.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Boolean:
		return t.Value
	default:
		return true
	}
}

// Equal implements the language's `==`/`!=` value equality: same kind
// and same underlying value; values of different kinds are never
// equal (including the numeric-vs-string case).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	default:
		return a == b
	}
}
