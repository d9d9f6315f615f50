package controllable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-controllable/layering"
)

var (
	// ErrMissingUpdateHandler indicates a controlled key received an update
	// request but has no handler to forward it to.
	ErrMissingUpdateHandler = errors.New("controllable: missing update handler")
	// ErrUnknownKey indicates an update request for a key without descriptor.
	ErrUnknownKey = errors.New("controllable: unknown state key")
	// ErrNameCollision indicates two keys produce the same accessor or handler
	// name.
	ErrNameCollision = errors.New("controllable: name collision")
	// ErrNoEvaluator indicates no expression evaluator could be resolved.
	ErrNoEvaluator = errors.New("controllable: evaluator not configured")
)

// MissingUpdateHandlerError identifies the controlled key that lacks an
// update handler.
type MissingUpdateHandlerError struct {
	Key string
}

func (e *MissingUpdateHandlerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("controllable: state %q is controlled (a value is supplied) but has no update handler; provide an UpdateHandler for %q", e.Key, e.Key)
}

func (e *MissingUpdateHandlerError) Unwrap() error {
	return ErrMissingUpdateHandler
}

// NameCollisionError lists every name claimed by more than one key.
type NameCollisionError struct {
	Collisions []layering.Collision
}

func (e *NameCollisionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Collisions))
	for _, collision := range e.Collisions {
		parts = append(parts, fmt.Sprintf("%q claimed by %s", collision.Name, strings.Join(collision.Owners, ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrNameCollision.Error(), strings.Join(parts, "; "))
}

func (e *NameCollisionError) Unwrap() error {
	return ErrNameCollision
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("controllable: %s evaluator %s key=%s: %v", e.Engine, describeExpression(e.Expr), describeKey(e.Key), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func describeKey(key string) string {
	if key == "" {
		return "<none>"
	}
	return key
}

func wrapEvaluationError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Key == "" {
			evalErr.Key = key
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Key:    key,
		Err:    err,
	}
}
