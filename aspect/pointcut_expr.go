package aspect

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// MatchEnv is the environment an expression pointcut is evaluated against.
//
//	method == "Transform" && capability endsWith ".Transformer"
//	numOut == 2 && target startsWith "*"
type MatchEnv struct {
	Method     string `expr:"method"`
	Capability string `expr:"capability"`
	Target     string `expr:"target"`
	NumIn      int    `expr:"numIn"`
	NumOut     int    `expr:"numOut"`
}

type exprPointcut struct {
	source  string
	program *vm.Program
}

// Expr compiles a boolean expr-lang expression over MatchEnv. Compile errors
// are returned here; evaluation errors at match time count as no match.
func Expr(source string) (Pointcut, error) {
	program, err := expr.Compile(source, expr.Env(MatchEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("aspect: compile pointcut %q: %w", source, err)
	}
	return &exprPointcut{source: source, program: program}, nil
}

// MustExpr is Expr for expressions known to be valid.
func MustExpr(source string) Pointcut {
	pc, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return pc
}

func (*exprPointcut) MatchesType(reflect.Type) bool { return true }

func (p *exprPointcut) MatchesMethod(m Method, target reflect.Type) bool {
	env := MatchEnv{Method: m.Name}
	if m.Capability != nil {
		env.Capability = TypeName(m.Capability)
	}
	if target != nil {
		env.Target = TypeName(target)
	}
	if m.Type != nil {
		env.NumIn = m.Type.NumIn()
		env.NumOut = m.Type.NumOut()
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func (p *exprPointcut) String() string { return "expr(" + p.source + ")" }
