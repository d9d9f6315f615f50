package controllable

import (
	"sync"

	"github.com/goliatone/go-controllable/pkg/activity"
	"github.com/goliatone/go-controllable/pkg/store"
)

// UpdateKind tells an update handler how to treat the value it receives.
type UpdateKind int

const (
	// Notification reports a change the container already applied to its own
	// store. The handler is informed, not asked.
	Notification UpdateKind = iota + 1
	// Mandate asks the external owner of a controlled key to apply or reject a
	// change. The container never applies it itself.
	Mandate
)

// String returns a lower-case label for the kind.
func (k UpdateKind) String() string {
	switch k {
	case Notification:
		return "notification"
	case Mandate:
		return "mandate"
	default:
		return "unknown"
	}
}

// Done is a completion callback. A nil Done is treated as a no-op.
type Done func()

func (d Done) call() {
	if d != nil {
		d()
	}
}

func doneOrNoop(d Done) Done {
	if d == nil {
		return func() {}
	}
	return d
}

// UpdateHandler receives change requests (Mandate) and change reports
// (Notification) for a single key.
type UpdateHandler func(next any, done Done, kind UpdateKind)

// Setter requests an update for the key it is bound to.
type Setter func(next Next, done Done) error

// HandlerFactory derives extra named functions from a key's bound setter. The
// returned entries are merged into the accessor bundle next to the setter; an
// entry named like the setter replaces it. The factory runs each time the
// bundle is built.
type HandlerFactory func(set Setter) map[string]any

// Next is the requested next value of a key: either a literal or a function
// of the previous effective value.
type Next interface {
	resolve(prev any) any
}

type literal struct {
	value any
}

func (l literal) resolve(any) any {
	return l.value
}

type thunk func(prev any) any

func (t thunk) resolve(prev any) any {
	if t == nil {
		return prev
	}
	return t(prev)
}

// Value requests v as the next value. v is never invoked, even when it holds a
// function.
func Value(v any) Next {
	return literal{value: v}
}

// Func requests the value computed by fn from the previous effective value.
// For uncontrolled keys fn runs while the store holds the key locked, so it
// must not call back into the container.
func Func(fn func(prev any) any) Next {
	return thunk(fn)
}

// Update adapts a typed thunk. A previous value that is nil or not a T is
// passed to fn as the zero T. The locking rule of Func applies.
func Update[T any](fn func(prev T) T) Next {
	return thunk(func(prev any) any {
		typed, _ := prev.(T)
		return fn(typed)
	})
}

func resolveNext(next Next, prev any) any {
	if next == nil {
		return nil
	}
	return next.resolve(prev)
}

type initialKind int

const (
	initialNone initialKind = iota
	initialLiteral
	initialFunc
	initialExpr
)

// Initial describes how the first stored value of an uncontrolled key is
// produced. The zero Initial produces nil.
type Initial struct {
	kind  initialKind
	value any
	fn    func(props Record) any
	expr  string
}

// InitialValue uses v as-is.
func InitialValue(v any) Initial {
	return Initial{kind: initialLiteral, value: v}
}

// InitialFunc computes the initial value from the external record. fn receives
// a nil record when the container is built from live descriptors directly.
func InitialFunc(fn func(props Record) any) Initial {
	if fn == nil {
		return Initial{}
	}
	return Initial{kind: initialFunc, fn: fn}
}

// InitialExpr evaluates expr with the configured evaluator. The record entries
// are bound both under "props" and, for identifier-safe keys, at top level.
func InitialExpr(expr string) Initial {
	if expr == "" {
		return Initial{}
	}
	return Initial{kind: initialExpr, expr: expr}
}

// IsZero reports whether the Initial is the nil producer.
func (i Initial) IsZero() bool {
	return i.kind == initialNone
}

func (i Initial) describe() string {
	switch i.kind {
	case initialLiteral:
		return "value"
	case initialFunc:
		return "func"
	case initialExpr:
		return "expr"
	default:
		return "none"
	}
}

// Descriptor is the complete live configuration of one key.
//
// Controlled is the presence flag for Value: when false the key is
// uncontrolled regardless of Value. A supplied nil, false or zero Value with
// Controlled set is a controlled key.
type Descriptor struct {
	Initial        Initial
	Value          any
	Controlled     bool
	UpdateHandler  UpdateHandler
	SetterName     string
	NotifyOnUpdate bool
	Handlers       HandlerFactory
}

// Uncontrolled returns a descriptor for a key owned by the container.
func Uncontrolled(initial Initial) Descriptor {
	return Descriptor{Initial: initial}
}

// Controlled returns a descriptor whose authoritative value is v. Changes are
// forwarded to handler as mandates.
func Controlled(v any, handler UpdateHandler) Descriptor {
	return Descriptor{Value: v, Controlled: true, UpdateHandler: handler}
}

func (d Descriptor) setterName(key string) string {
	if d.SetterName != "" {
		return d.SetterName
	}
	return DefaultSetterName(key)
}

// Spec is the partial, declarative configuration of one key. Empty fields are
// filled by Normalize.
type Spec struct {
	Initial           Initial
	SetterName        string
	UpdateHandlerName string
	NotifyOnUpdate    bool
	Handlers          HandlerFactory
}

// CollisionPolicy decides what happens when two keys produce the same
// accessor name.
type CollisionPolicy int

const (
	// CollisionLastWriteWins keeps the entry of the key that sorts last.
	CollisionLastWriteWins CollisionPolicy = iota
	// CollisionReject fails accessor construction with a NameCollisionError.
	CollisionReject
)

// String returns the configuration label of the policy.
func (p CollisionPolicy) String() string {
	if p == CollisionReject {
		return "reject"
	}
	return "last-write-wins"
}

// Option configures containers, projections and wrappers.
type Option func(*containerConfig)

type containerConfig struct {
	id              string
	store           store.Store
	evaluator       Evaluator
	evaluatorOnce   sync.Once
	programCache    ProgramCache
	functions       *FunctionRegistry
	evaluatorLogger EvaluatorLogger
	updateLogger    UpdateLogger
	collisionPolicy CollisionPolicy
	activityHooks   activity.Hooks
	activityChannel string
}

func applyOptions(opts []Option) *containerConfig {
	cfg := &containerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithStore replaces the default in-memory store. A store must not be shared
// between containers that use overlapping keys.
func WithStore(s store.Store) Option {
	return func(cfg *containerConfig) {
		cfg.store = s
	}
}

// WithID sets the container identifier used in logs, traces and activity
// events. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(cfg *containerConfig) {
		cfg.id = id
	}
}

// WithCollisionPolicy configures how accessor name collisions are handled.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(cfg *containerConfig) {
		cfg.collisionPolicy = policy
	}
}

// WithEvaluator configures the evaluator used for InitialExpr values.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *containerConfig) {
		cfg.evaluator = e
	}
}

func (cfg *containerConfig) evaluatorLog() EvaluatorLogger {
	if cfg.evaluatorLogger != nil {
		return cfg.evaluatorLogger
	}
	return noopEvaluatorLogger{}
}

func (cfg *containerConfig) updateLog() UpdateLogger {
	if cfg.updateLogger != nil {
		return cfg.updateLogger
	}
	return noopUpdateLogger{}
}
