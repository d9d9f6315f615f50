package controllable

// Projection is the result of mapping an external record onto a registry.
type Projection struct {
	// Descriptors holds one live descriptor per registry key.
	Descriptors map[string]Descriptor
	// Consumed lists the record entries the registry reads, sorted.
	Consumed []string
}

// Project derives live descriptors from props. A key is controlled when props
// holds an entry for it that is not Undefined, including nil. The update
// handler is read from the key's update handler name and ignored unless it is
// an UpdateHandler, a func(any, Done, UpdateKind) or a
// func(any, func(), UpdateKind). Initial values are resolved against props;
// only expression initial values can fail.
func Project(props Record, reg Registry, opts ...Option) (Projection, error) {
	return projectWith(applyOptions(opts), props, reg)
}

func projectWith(cfg *containerConfig, props Record, reg Registry) (Projection, error) {
	projection := Projection{
		Descriptors: make(map[string]Descriptor, reg.Len()),
		Consumed:    reg.ConsumedKeys(),
	}
	for _, key := range reg.Keys() {
		entry, _ := reg.Entry(key)
		initial, err := cfg.resolveInitial(key, entry.Initial, props)
		if err != nil {
			return Projection{}, err
		}
		value, present := props[key]
		controlled := present && !IsUndefined(value)
		if !controlled {
			value = nil
		}
		projection.Descriptors[key] = Descriptor{
			Initial:        InitialValue(initial),
			Value:          value,
			Controlled:     controlled,
			UpdateHandler:  lookupUpdateHandler(props, entry.UpdateHandlerName),
			SetterName:     entry.SetterName,
			NotifyOnUpdate: entry.NotifyOnUpdate,
			Handlers:       entry.Handlers,
		}
	}
	return projection, nil
}

func lookupUpdateHandler(props Record, name string) UpdateHandler {
	switch fn := props[name].(type) {
	case UpdateHandler:
		return fn
	case func(any, Done, UpdateKind):
		if fn == nil {
			return nil
		}
		return UpdateHandler(fn)
	case func(any, func(), UpdateKind):
		if fn == nil {
			return nil
		}
		return func(next any, done Done, kind UpdateKind) {
			fn(next, done, kind)
		}
	default:
		return nil
	}
}

// PassThrough returns every entry of props the registry does not consume.
func (p Projection) PassThrough(props Record) Record {
	return PassThrough(props, p.Consumed)
}

// PassThrough returns a copy of props without the consumed entries.
func PassThrough(props Record, consumed []string) Record {
	out := props.Clone()
	if out == nil {
		return Record{}
	}
	for _, name := range consumed {
		delete(out, name)
	}
	return out
}
