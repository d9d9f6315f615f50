package controllable

import "sync"

// Wrapper adds controllable state to a render function. The container is
// created on the first Render and its descriptors are replaced on every later
// Render, so uncontrolled values persist between renders.
type Wrapper[R any] struct {
	reg    Registry
	render func(Record) R
	cfg    *containerConfig

	mu        sync.Mutex
	container *Container
}

// Wrap returns a wrapper managing the keys of reg for render.
func Wrap[R any](reg Registry, render func(Record) R, opts ...Option) *Wrapper[R] {
	return &Wrapper[R]{
		reg:    reg,
		render: render,
		cfg:    applyOptions(opts),
	}
}

// Render projects props onto the registry, refreshes the container and calls
// render with the pass-through entries of props overlaid by the accessor
// bundle.
func (w *Wrapper[R]) Render(props Record) (R, error) {
	var zero R
	record, err := w.prepare(props)
	if err != nil {
		return zero, err
	}
	if w.render == nil {
		return zero, nil
	}
	return w.render(record), nil
}

func (w *Wrapper[R]) prepare(props Record) (Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	projection, err := projectWith(w.cfg, props, w.reg)
	if err != nil {
		return nil, err
	}
	if w.container == nil {
		container, err := newContainer(w.cfg, projection.Descriptors)
		if err != nil {
			return nil, err
		}
		w.container = container
	} else if err := w.container.SetDescriptors(projection.Descriptors); err != nil {
		return nil, err
	}

	accessors, err := w.container.Accessors()
	if err != nil {
		return nil, err
	}
	return Merge(projection.PassThrough(props), accessors), nil
}

// Container returns the container created by the first Render, or nil.
func (w *Wrapper[R]) Container() *Container {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.container
}
