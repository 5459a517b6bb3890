package query

import (
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
)

// Expr is a compiled CEL predicate over one entry. The zero value and a nil
// *Expr match everything.
//
// Variables: priority (int ordinal), tag, thread, title, body, text,
// ts_ms, now_ms.
type Expr struct {
	source string
	prog   cel.Program
	now    func() time.Time
}

// CompileExpr parses and type-checks src. Blank source yields a nil Expr.
func CompileExpr(src string) (*Expr, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("priority", cel.IntType),
		cel.Variable("tag", cel.StringType),
		cel.Variable("thread", cel.StringType),
		cel.Variable("title", cel.StringType),
		cel.Variable("body", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("ts_ms", cel.IntType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(src)
	if iss != nil && iss.Err() != nil {
		return nil, errs.NewArgumentError("expr", iss.Err().Error())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, errs.NewArgumentError("expr", "must evaluate to bool: "+src)
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &Expr{source: src, prog: prog, now: time.Now}, nil
}

// String returns the expression source.
func (x *Expr) String() string {
	if x == nil {
		return ""
	}
	return x.source
}

// Match evaluates the expression. Evaluation errors count as no match.
func (x *Expr) Match(e entry.Entry) bool {
	if x == nil || x.prog == nil {
		return true
	}
	out, _, err := x.prog.Eval(map[string]any{
		"priority": int64(e.Priority),
		"tag":      e.Priority.Tag(),
		"thread":   e.Thread,
		"title":    e.Title,
		"body":     e.Body,
		"text":     e.Text(),
		"ts_ms":    e.Timestamp,
		"now_ms":   x.now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
