package controllable

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-controllable/pkg/activity"
)

// Config is the environment-driven configuration of containers and wrappers.
type Config struct {
	CollisionPolicy string `env:"CONTROLLABLE_COLLISION_POLICY" envDefault:"last-write-wins"`
	// Evaluator selects the engine for expression initial values: expr, cel
	// or js. js requires the js_eval build tag.
	Evaluator       string `env:"CONTROLLABLE_EVALUATOR" envDefault:"expr"`
	ActivityEnabled bool   `env:"CONTROLLABLE_ACTIVITY_ENABLED" envDefault:"true"`
	ActivityChannel string `env:"CONTROLLABLE_ACTIVITY_CHANNEL"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("controllable: parse env: %w", err)
	}
	return cfg, nil
}

// ParseCollisionPolicy maps a configuration label to a CollisionPolicy.
func ParseCollisionPolicy(label string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "last-write-wins", "lww":
		return CollisionLastWriteWins, nil
	case "reject":
		return CollisionReject, nil
	default:
		return CollisionLastWriteWins, fmt.Errorf("controllable: unknown collision policy %q", label)
	}
}

// Options converts the configuration into container options. hooks are only
// attached when activity is enabled.
func (c Config) Options(hooks activity.Hooks) ([]Option, error) {
	policy, err := ParseCollisionPolicy(c.CollisionPolicy)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithCollisionPolicy(policy)}

	switch strings.ToLower(strings.TrimSpace(c.Evaluator)) {
	case "", "expr":
	case "cel":
		opts = append(opts, WithEvaluator(NewCELEvaluator()))
	case "js":
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("controllable: js evaluator requires the js_eval build tag")
		}
		opts = append(opts, WithEvaluator(NewJSEvaluator()))
	default:
		return nil, fmt.Errorf("controllable: unknown evaluator %q", c.Evaluator)
	}

	if c.ActivityEnabled && len(hooks) > 0 {
		opts = append(opts, WithActivityHooks(hooks))
		if c.ActivityChannel != "" {
			opts = append(opts, WithActivityChannel(c.ActivityChannel))
		}
	}
	return opts, nil
}
