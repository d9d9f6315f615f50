package controllable

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-controllable/internal/hydrate"
)

// specPayload is the declarative form of a Spec. Functions cannot be
// declared, so handler factories and InitialFunc are unavailable here.
type specPayload struct {
	InitialValue      any    `mapstructure:"initialValue"`
	InitialExpr       string `mapstructure:"initialExpr"`
	SetterName        string `mapstructure:"setterName"`
	UpdateHandlerName string `mapstructure:"updateHandlerName"`
	NotifyOnUpdate    bool   `mapstructure:"notifyOnUpdate"`

	hasInitialValue bool
}

var (
	specFieldDecoder = hydrate.NewDecoder[specPayload](
		hydrate.WithDisallowUnknownFields[specPayload](),
	)
	specDecoder = hydrate.NewDecoder[specPayload](
		hydrate.WithCustomDecoder[specPayload](decodeSpecPayload),
		hydrate.WithPostHook[specPayload](validateSpecPayload),
	)
)

// DecodeSpecs decodes a declarative registry configuration: one object per
// key with the optional fields initialValue, initialExpr, setterName,
// updateHandlerName and notifyOnUpdate. An entry set to nil uses every
// default.
func DecodeSpecs(payload map[string]any) (map[string]Spec, error) {
	specs := make(map[string]Spec, len(payload))
	for _, key := range sortedKeys(payload) {
		raw := payload[key]
		if raw == nil {
			specs[key] = Spec{}
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("controllable: spec %q: expected object, got %T", key, raw)
		}
		decoded, err := specDecoder.Decode(hydrate.Context{Key: key, Source: "spec"}, fields)
		if err != nil {
			return nil, fmt.Errorf("controllable: spec %q: %w", key, err)
		}
		specs[key] = decoded.spec()
	}
	return specs, nil
}

// DecodeSpecsJSON decodes a JSON registry configuration. See DecodeSpecs.
func DecodeSpecsJSON(payload []byte) (map[string]Spec, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("controllable: parse specs: %w", err)
	}
	return DecodeSpecs(raw)
}

func (p specPayload) spec() Spec {
	spec := Spec{
		SetterName:        p.SetterName,
		UpdateHandlerName: p.UpdateHandlerName,
		NotifyOnUpdate:    p.NotifyOnUpdate,
	}
	switch {
	case p.InitialExpr != "":
		spec.Initial = InitialExpr(p.InitialExpr)
	case p.hasInitialValue:
		spec.Initial = InitialValue(p.InitialValue)
	}
	return spec
}

// decodeSpecPayload records whether initialValue was supplied, so an explicit
// nil initial value is kept apart from an absent one.
func decodeSpecPayload(ctx hydrate.Context, payload map[string]any) (specPayload, error) {
	decoded, err := specFieldDecoder.Decode(ctx, payload)
	if err != nil {
		return specPayload{}, err
	}
	_, decoded.hasInitialValue = payload["initialValue"]
	return decoded, nil
}

func validateSpecPayload(_ hydrate.Context, p *specPayload) error {
	if p.hasInitialValue && p.InitialExpr != "" {
		return errors.New("initialValue and initialExpr are mutually exclusive")
	}
	return nil
}
