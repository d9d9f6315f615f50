package controllable

import (
	"reflect"
	"regexp"
	"time"
)

// Evaluator executes initial-value expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
}

// RuleContext carries the inputs bound while evaluating an expression.
type RuleContext struct {
	Key      string
	Props    Record
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedBindings are never shadowed by record entries.
var reservedBindings = map[string]struct{}{
	"props": {}, "key": {}, "now": {}, "args": {}, "metadata": {}, "call": {},
}

// expressionProps drops entries an expression engine cannot bind: functions
// (setters, handlers) and Undefined markers.
func expressionProps(props Record) map[string]any {
	out := make(map[string]any, len(props))
	for name, value := range props {
		if value == nil {
			out[name] = nil
			continue
		}
		if IsUndefined(value) || reflect.TypeOf(value).Kind() == reflect.Func {
			continue
		}
		out[name] = value
	}
	return out
}

// bindings returns the variables shared by every evaluator. Identifier-safe
// record entries are also exposed at top level.
func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	props := expressionProps(ctx.Props)
	env := make(map[string]any, len(props)+5)
	for name, value := range props {
		if _, reserved := reservedBindings[name]; reserved || !identifierPattern.MatchString(name) {
			continue
		}
		env[name] = value
	}
	env["props"] = props
	env["key"] = ctx.Key
	env["now"] = *ctx.Now
	env["args"] = ctx.Args
	env["metadata"] = ctx.Metadata
	return env
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}
