package goboot

import (
	"reflect"
	"sync"
)

// binding holds one registered implementation for a capability interface.
// Singleton bindings carry the instance directly; transient bindings carry a
// factory invoked on every resolution.
type binding struct {
	name     string
	concrete any
	factory  func() any
	lifetime Lifetime
}

// Container is the default Registry implementation. It keeps bindings per
// capability interface in registration order and is safe for concurrent use,
// although orchestration itself only ever touches it sequentially.
type Container struct {
	mu       sync.RWMutex
	bindings map[reflect.Type][]binding
	caps     []reflect.Type
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		bindings: make(map[reflect.Type][]binding, 16),
	}
}

// Register appends impl as a binding for the capability interface. The
// implementation must satisfy the capability. With addIfAbsent set, a
// capability that already has a binding is left untouched and no error is
// returned.
func (c *Container) Register(capability reflect.Type, impl any, lt Lifetime, addIfAbsent bool) error {
	return c.register(capability, "", impl, nil, lt, addIfAbsent)
}

func (c *Container) register(capability reflect.Type, name string, impl any, factory func() any, lt Lifetime, addIfAbsent bool) error {
	if capability == nil || capability.Kind() != reflect.Interface {
		got := "nil"
		if capability != nil {
			got = capability.String()
		}
		return &TypeMismatchError{Expected: "interface capability", Got: got}
	}
	if factory == nil {
		if impl == nil || (reflect.ValueOf(impl).Kind() == reflect.Ptr && reflect.ValueOf(impl).IsNil()) {
			return &NilServiceError{Type: capability.String()}
		}
		if !reflect.TypeOf(impl).Implements(capability) {
			return &TypeMismatchError{Expected: capability.String(), Got: reflect.TypeOf(impl).String()}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.bindings[capability]
	if addIfAbsent && len(existing) > 0 {
		return nil
	}
	if !ok {
		c.caps = append(c.caps, capability)
	}
	c.bindings[capability] = append(existing, binding{
		name:     name,
		concrete: impl,
		factory:  factory,
		lifetime: lt,
	})
	return nil
}

// Resolve returns the first instance bound to the capability.
func (c *Container) Resolve(capability reflect.Type) (any, error) {
	instances, err := c.ResolveAll(capability)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, &BindingNotFoundError{Type: capability.String()}
	}
	return instances[0], nil
}

// ResolveAll returns every instance bound to the capability in registration
// order. Transient bindings yield a fresh instance from their factory.
func (c *Container) ResolveAll(capability reflect.Type) ([]any, error) {
	c.mu.RLock()
	bound := c.bindings[capability]
	c.mu.RUnlock()

	instances := make([]any, 0, len(bound))
	for _, b := range bound {
		if b.lifetime == LifetimeTransient && b.factory != nil {
			instances = append(instances, b.factory())
			continue
		}
		instances = append(instances, b.concrete)
	}
	return instances, nil
}

// FindExisting reports the capability under which the implementation type is
// already registered. Only unnamed singleton registrations participate;
// capabilities are searched in registration order so the result is stable.
func (c *Container) FindExisting(impl reflect.Type) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, capability := range c.caps {
		for _, b := range c.bindings[capability] {
			if b.name != "" || b.concrete == nil {
				continue
			}
			if reflect.TypeOf(b.concrete) == impl {
				return capability, true
			}
		}
	}
	return nil, false
}

// Bind registers a singleton implementation under the capability interface I.
func Bind[I any](c *Container, impl I) error {
	return c.Register(InterfaceOf[I](), impl, LifetimeSingleton, false)
}

// BindNamed registers a singleton under capability I with a binding name.
// Named bindings are never reused by convention resolution.
func BindNamed[I any](c *Container, name string, impl I) error {
	return c.register(InterfaceOf[I](), name, impl, nil, LifetimeSingleton, false)
}

// BindFactory registers a transient binding for capability I. The factory is
// invoked on every resolution.
func BindFactory[I any](c *Container, factory func() I) error {
	return c.register(InterfaceOf[I](), "", nil, func() any { return factory() }, LifetimeTransient, false)
}
