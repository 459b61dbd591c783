package domain

import "fmt"

// Catalog is an in-memory Source over fully materialized descriptors.
type Catalog struct {
	roots []Identity
	types map[string]*TypeDescriptor
	// failures identities that resolve to an UnsupportedTypeError
	failures map[string]*UnsupportedTypeError
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:    make(map[string]*TypeDescriptor),
		failures: make(map[string]*UnsupportedTypeError),
	}
}

// Add stores a descriptor under its identity. The descriptor must not be a reference.
func (c *Catalog) Add(descriptor *TypeDescriptor) error {
	if descriptor == nil {
		return fmt.Errorf("nil descriptor")
	}
	if descriptor.Kind == KindReference {
		return fmt.Errorf("%s: cannot add a reference descriptor", descriptor.ID)
	}
	key := descriptor.ID.String()
	if _, exists := c.types[key]; exists {
		return fmt.Errorf("%s: already defined", descriptor.ID)
	}
	c.types[key] = descriptor
	return nil
}

// Fail records that id cannot be represented.
func (c *Catalog) Fail(id Identity, reason string) {
	c.failures[id.String()] = &UnsupportedTypeError{ID: id, Reason: reason}
}

// AddRoot appends a root identity.
func (c *Catalog) AddRoot(id Identity) {
	c.roots = append(c.roots, id)
}

// Roots implements Source.
func (c *Catalog) Roots() []Identity {
	return c.roots
}

// Descriptor implements Source.
func (c *Catalog) Descriptor(id Identity) (*TypeDescriptor, error) {
	key := id.String()
	if failure, ok := c.failures[key]; ok {
		return nil, failure
	}
	if d, ok := c.types[key]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.types)
}
