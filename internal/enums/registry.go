package enums

import "fmt"

// Registry holds the shapes of all enums participating in one generator
// invocation. It is constructed fresh per invocation and never shared.
type Registry struct {
	shapes map[string]*EnumShape
	order  []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		shapes: make(map[string]*EnumShape),
	}
}

// Add registers a shape after checking its structural invariants.
// Registering two enums with the same name is an error.
func (r *Registry) Add(shape *EnumShape) error {
	if err := shape.validate(); err != nil {
		return err
	}

	if _, ok := r.shapes[shape.Name]; ok {
		return fmt.Errorf("enum %s registered twice", shape.Name)
	}

	r.shapes[shape.Name] = shape
	r.order = append(r.order, shape.Name)

	return nil
}

// Lookup returns the shape registered under the given enum name.
func (r *Registry) Lookup(name string) (*EnumShape, bool) {
	shape, ok := r.shapes[name]
	return shape, ok
}

// Names returns the registered enum names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

// Len returns the number of registered enums.
func (r *Registry) Len() int {
	return len(r.shapes)
}
