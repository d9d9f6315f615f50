package controllable

import (
	"time"
)

// ResolveInitial produces the value an Initial describes for key. Literal
// values are returned as-is, functions are called with props and expressions
// run through the configured evaluator.
func ResolveInitial(key string, initial Initial, props Record, opts ...Option) (any, error) {
	return applyOptions(opts).resolveInitial(key, initial, props)
}

func (cfg *containerConfig) resolveInitial(key string, initial Initial, props Record) (any, error) {
	switch initial.kind {
	case initialLiteral:
		return initial.value, nil
	case initialFunc:
		return initial.fn(props), nil
	case initialExpr:
		return cfg.evaluateInitial(key, initial.expr, props)
	default:
		return nil, nil
	}
}

func (cfg *containerConfig) evaluateInitial(key, expr string, props Record) (any, error) {
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(RuleContext{Key: key, Props: props}, expr)
	evalErr = wrapEvaluationError(engine, expr, key, evalErr)
	cfg.evaluatorLog().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Key:      key,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

// resolveEvaluator returns the configured evaluator or lazily builds the
// default expr evaluator from the cache and function options.
func (cfg *containerConfig) resolveEvaluator() (Evaluator, error) {
	cfg.evaluatorOnce.Do(func() {
		if cfg.evaluator != nil {
			return
		}
		var exprOpts []ExprEvaluatorOption
		if cfg.programCache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		if evaluator := NewExprEvaluator(exprOpts...); evaluator != nil {
			cfg.evaluator = evaluator
		}
	})
	if cfg.evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return cfg.evaluator, nil
}
