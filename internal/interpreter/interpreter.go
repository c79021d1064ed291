// Package interpreter tree-walks an ast.Program and produces runtime
// object.Values. Failures thread through Go's normal error return,
// except for return-statement propagation, which uses a sentinel
// value unwound at the nearest call boundary — a genuine control-flow
// idiom rather than an error-handling shortcut.
package interpreter

import (
	"math"
	"time"

	"github.com/oarkflow/spl/internal/ast"
	"github.com/oarkflow/spl/internal/environment"
	"github.com/oarkflow/spl/internal/object"
	"github.com/oarkflow/spl/internal/splconfig"
	"github.com/oarkflow/spl/internal/splerr"
	"github.com/oarkflow/spl/internal/spllog"
)

// returnSignal is the sentinel carried back up the Go call stack when
// a return statement executes; it is unwrapped at the nearest
// enclosing call boundary once the block finishes evaluating.
type returnSignal struct {
	value object.Value
}

func (returnSignal) Error() string { return "return" }

// Interpreter owns the global environment, the call-depth guard, and
// the sink print statements write their rendered lines to. One
// Interpreter is built per `run`/`evaluate`/`repl` invocation.
type Interpreter struct {
	globals  *environment.Environment
	maxDepth int
	depth    int
	log      *spllog.Logger
	print    func(string)
}

// New builds an Interpreter with a fresh global environment. print
// receives each print statement's rendered output line, in source
// order. clock() is deliberately not bound here: its name is
// recognized only at call sites, never as an ordinary identifier.
func New(cfg *splconfig.Config, logger *spllog.Logger, print func(string)) *Interpreter {
	if cfg == nil {
		cfg = splconfig.Default()
	}
	if logger == nil {
		logger = spllog.New(false)
	}
	if print == nil {
		print = func(string) {}
	}
	return &Interpreter{
		globals:  environment.New(),
		maxDepth: cfg.MaxCallDepth,
		log:      logger,
		print:    print,
	}
}

// Globals exposes the top-level environment that every Run and
// EvalProgram call on this Interpreter shares.
func (in *Interpreter) Globals() *environment.Environment { return in.globals }

// Run evaluates every top-level statement of program against the
// global environment.
func (in *Interpreter) Run(program *ast.Program) error {
	done := in.log.Stage("evaluate")
	defer done()
	for _, stmt := range program.Statements {
		if err := in.execStmt(stmt, in.globals); err != nil {
			if _, ok := err.(returnSignal); ok {
				return splerr.Runtime(splerr.KindRuntimeError, "RuntimeError: 'return' outside of function.")
			}
			return err
		}
	}
	return nil
}

// EvalProgram executes every top-level statement of program against
// the global environment and reports the value the last one yielded,
// the contract evaluate mode uses to produce a single result for a
// whole program rather than discarding it the way Run does.
func (in *Interpreter) EvalProgram(program *ast.Program) (object.Value, error) {
	done := in.log.Stage("evaluate")
	defer done()
	var last object.Value = object.NilValue
	for _, stmt := range program.Statements {
		v, err := in.execStmtValue(stmt, in.globals)
		if err != nil {
			if _, ok := err.(returnSignal); ok {
				return nil, splerr.Runtime(splerr.KindRuntimeError, "RuntimeError: 'return' outside of function.")
			}
			return nil, err
		}
		last = v
	}
	return last, nil
}

// execStmtValue executes stmt and reports the value it yields: an
// ExprStmt yields its expression's value, a VarDecl or FunctionDecl
// yields the value it bound, a Block or an executed IfStmt branch
// yields whatever its own last statement yielded (nil if it ran
// nothing), a print or while statement yields nil, and a return
// statement fails with the 'return' outside of function runtime error.
func (in *Interpreter) execStmtValue(stmt ast.Stmt, env *environment.Environment) (object.Value, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return in.evalExpr(s.Value, env)

	case *ast.VarDecl:
		var val object.Value = object.NilValue
		if s.Init != nil {
			v, err := in.evalExpr(s.Init, env)
			if err != nil {
				return nil, err
			}
			val = v
		}
		env.Define(s.Name, val)
		return val, nil

	case *ast.FunctionDecl:
		fn := &object.Function{FnName: s.Name, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name, fn)
		return fn, nil

	case *ast.Block:
		inner := environment.NewEnclosed(env)
		var last object.Value = object.NilValue
		for _, st := range s.Statements {
			v, err := in.execStmtValue(st, inner)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond, env)
		if err != nil {
			return nil, err
		}
		if object.Truthy(cond) {
			return in.execStmtValue(s.Then, env)
		}
		if s.Else != nil {
			return in.execStmtValue(s.Else, env)
		}
		return object.NilValue, nil

	default:
		if err := in.execStmt(stmt, env); err != nil {
			return nil, err
		}
		return object.NilValue, nil
	}
}

func (in *Interpreter) execBlock(block *ast.Block, env *environment.Environment) error {
	for _, stmt := range block.Statements {
		if err := in.execStmt(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execStmt(stmt ast.Stmt, env *environment.Environment) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.evalExpr(s.Value, env)
		return err

	case *ast.PrintStmt:
		v, err := in.evalExpr(s.Value, env)
		if err != nil {
			return err
		}
		in.print(v.Print())
		return nil

	case *ast.VarDecl:
		var val object.Value = object.NilValue
		if s.Init != nil {
			v, err := in.evalExpr(s.Init, env)
			if err != nil {
				return err
			}
			val = v
		}
		env.Define(s.Name, val)
		return nil

	case *ast.Block:
		return in.execBlock(s, environment.NewEnclosed(env))

	case *ast.IfStmt:
		cond, err := in.evalExpr(s.Cond, env)
		if err != nil {
			return err
		}
		if object.Truthy(cond) {
			return in.execStmt(s.Then, env)
		}
		if s.Else != nil {
			return in.execStmt(s.Else, env)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := in.evalExpr(s.Cond, env)
			if err != nil {
				return err
			}
			if !object.Truthy(cond) {
				return nil
			}
			if err := in.execStmt(s.Body, env); err != nil {
				return err
			}
		}

	case *ast.ReturnStmt:
		var val object.Value = object.NilValue
		if s.Value != nil {
			v, err := in.evalExpr(s.Value, env)
			if err != nil {
				return err
			}
			val = v
		}
		return returnSignal{value: val}

	case *ast.FunctionDecl:
		fn := &object.Function{FnName: s.Name, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name, fn)
		return nil

	default:
		return splerr.Runtime(splerr.KindRuntimeError, "unhandled statement type %T", stmt)
	}
}

func (in *Interpreter) evalExpr(expr ast.Expr, env *environment.Environment) (object.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return object.Number{Value: e.Value}, nil

	case *ast.StringLit:
		return object.String{Value: e.Value}, nil

	case *ast.BooleanLit:
		return object.Bool(e.Value), nil

	case *ast.NilLit:
		return object.NilValue, nil

	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		return nil, splerr.Runtime(splerr.KindUndefinedVariable, "Undefined variable '%s'.", e.Name)

	case *ast.Grouping:
		return in.evalExpr(e.Inner, env)

	case *ast.Unary:
		return in.evalUnary(e, env)

	case *ast.Binary:
		return in.evalBinary(e, env)

	case *ast.Logical:
		return in.evalLogical(e, env)

	case *ast.Assign:
		val, err := in.evalExpr(e.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.Assign(e.Name, val) {
			return nil, splerr.Runtime(splerr.KindUndefinedVariable, "Undefined variable '%s'.", e.Name)
		}
		return val, nil

	case *ast.Call:
		return in.evalCall(e, env)

	default:
		return nil, splerr.Runtime(splerr.KindRuntimeError, "unhandled expression type %T", expr)
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary, env *environment.Environment) (object.Value, error) {
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "!":
		return object.Bool(!object.Truthy(right)), nil
	case "-":
		num, ok := right.(object.Number)
		if !ok {
			return nil, splerr.Runtime(splerr.KindOperandMustBeNumber, "Operand must be a number.")
		}
		return object.Number{Value: -num.Value}, nil
	default:
		return nil, splerr.Runtime(splerr.KindRuntimeError, "unknown unary operator %q", e.Op)
	}
}

func (in *Interpreter) evalLogical(e *ast.Logical, env *environment.Environment) (object.Value, error) {
	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "and":
		if !object.Truthy(left) {
			return left, nil
		}
		return in.evalExpr(e.Right, env)
	case "or":
		if object.Truthy(left) {
			return left, nil
		}
		return in.evalExpr(e.Right, env)
	default:
		return nil, splerr.Runtime(splerr.KindRuntimeError, "unknown logical operator %q", e.Op)
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary, env *environment.Environment) (object.Value, error) {
	left, err := in.evalExpr(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "==":
		return object.Bool(object.Equal(left, right)), nil
	case "!=":
		return object.Bool(!object.Equal(left, right)), nil
	case "+":
		return evalAdd(left, right)
	case "-", "*", "/", "%", "<", "<=", ">", ">=":
		ln, lok := left.(object.Number)
		rn, rok := right.(object.Number)
		if !lok || !rok {
			return nil, splerr.Runtime(splerr.KindOperandsMustBeNumbers, "Operands must be numbers.")
		}
		return evalNumericBinary(e.Op, ln.Value, rn.Value)
	default:
		return nil, splerr.Runtime(splerr.KindRuntimeError, "unknown binary operator %q", e.Op)
	}
}

// evalAdd implements `+`: numeric addition when both operands are
// numbers; otherwise, if either operand is a string, the other is
// coerced to text via the same rendering print statements use and the
// two are concatenated. Neither condition holding (e.g. boolean plus
// boolean) is a runtime error.
func evalAdd(left, right object.Value) (object.Value, error) {
	if ln, ok := left.(object.Number); ok {
		if rn, ok := right.(object.Number); ok {
			return object.Number{Value: ln.Value + rn.Value}, nil
		}
	}
	_, leftIsString := left.(object.String)
	_, rightIsString := right.(object.String)
	if leftIsString || rightIsString {
		return object.String{Value: left.Print() + right.Print()}, nil
	}
	return nil, splerr.Runtime(splerr.KindOperandsMustBeNumbers, "Operands must be numbers.")
}

func evalNumericBinary(op string, l, r float64) (object.Value, error) {
	switch op {
	case "-":
		return object.Number{Value: l - r}, nil
	case "*":
		return object.Number{Value: l * r}, nil
	case "/":
		return object.Number{Value: l / r}, nil
	case "%":
		return object.Number{Value: math.Mod(l, r)}, nil
	case "<":
		return object.Bool(l < r), nil
	case "<=":
		return object.Bool(l <= r), nil
	case ">":
		return object.Bool(l > r), nil
	case ">=":
		return object.Bool(l >= r), nil
	default:
		return nil, splerr.Runtime(splerr.KindRuntimeError, "unknown numeric operator %q", op)
	}
}

func (in *Interpreter) evalCall(e *ast.Call, env *environment.Environment) (object.Value, error) {
	if id, ok := e.Callee.(*ast.Identifier); ok && id.Name == "clock" {
		return object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
	}

	callee, err := in.evalExpr(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]object.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *object.Function:
		return in.callFunction(fn, args)

	default:
		return nil, splerr.Runtime(splerr.KindCallOnNonFunction, "Can only call functions.")
	}
}

// callFunction applies a user-declared function to args, bounding
// recursion with maxDepth and unwrapping a returnSignal into its
// carried value once the body finishes executing.
func (in *Interpreter) callFunction(fn *object.Function, args []object.Value) (object.Value, error) {
	if len(args) != len(fn.Params) {
		return nil, splerr.Runtime(splerr.KindArgumentCountMismatch, "Expected %d args but got %d.", len(fn.Params), len(args))
	}

	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.maxDepth {
		in.log.CallDepth(in.depth, in.maxDepth)
		return nil, splerr.Runtime(splerr.KindRuntimeError, "RuntimeError: call stack exhausted.")
	}

	callEnv, ok := fn.Env.(*environment.Environment)
	if !ok {
		return nil, splerr.Runtime(splerr.KindRuntimeError, "function closure environment is not usable.")
	}
	local := environment.NewEnclosed(callEnv)
	for i, p := range fn.Params {
		local.Define(p, args[i])
	}

	err := in.execBlock(fn.Body, local)
	if err == nil {
		return object.NilValue, nil
	}
	if sig, ok := err.(returnSignal); ok {
		return sig.value, nil
	}
	return nil, err
}
