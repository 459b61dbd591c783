// Package registry maps type identities to stable definition names and owns
// the schema fragments registered under those names for one generation run.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/go-openapi/spec"
	"github.com/griffnb/core-jsonschema/internal/domain"
)

// DefinitionsPrefix draft-07 style reference prefix.
const DefinitionsPrefix = "#/definitions/"

// DefsPrefix 2019-09 and later reference prefix.
const DefsPrefix = "#/$defs/"

// State progress of an identity within a run.
type State int

const (
	// Unseen the identity has not been resolved.
	Unseen State = iota
	// InProgress the fragment is being built; re-entry must emit a reference.
	InProgress
	// Done the fragment is registered.
	Done
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Done:
		return "done"
	}
	return "unseen"
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// Definition a registered fragment.
type Definition struct {
	Name   string
	ID     domain.Identity
	Schema spec.Schema
}

type entry struct {
	id         domain.Identity
	name       string
	state      State
	fragment   spec.Schema
	registered bool
}

// Service is the schema registry of a single run. It is not safe for
// concurrent use; every run constructs its own.
type Service struct {
	byID      map[string]*entry
	byName    map[string]*entry
	order     []*entry
	refPrefix string
	debug     Debugger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithRefPrefix sets the JSON pointer prefix used by Ref.
func WithRefPrefix(prefix string) Option {
	return func(s *Service) {
		s.refPrefix = prefix
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		if debugger != nil {
			s.debug = debugger
		}
	}
}

// NewService creates an empty registry.
func NewService(options ...Option) *Service {
	s := &Service{
		byID:      make(map[string]*entry),
		byName:    make(map[string]*entry),
		refPrefix: DefinitionsPrefix,
		debug:     &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Resolve returns the definition name of the descriptor's identity, assigning
// one on first sight. The base name is the @name override or the simple name
// with its generic argument signature. A name already owned by another identity
// is disambiguated with the sanitized package path and then with a hash of the
// full identity.
func (s *Service) Resolve(descriptor *domain.TypeDescriptor) string {
	key := descriptor.ID.String()
	if e, ok := s.byID[key]; ok {
		return e.name
	}

	base := domain.NameOverride(descriptor.Doc)
	if base == "" {
		base = domain.SanitizeName(descriptor.ID.SimpleName())
	}

	name := s.uniqueName(base, descriptor.ID)
	if name != base {
		s.debug.Printf("Registry: %s renamed to %s, %s is taken by %s", key, name, base, s.byName[base].id)
	}

	e := &entry{id: descriptor.ID, name: name}
	s.byID[key] = e
	s.byName[name] = e
	s.order = append(s.order, e)

	return name
}

func (s *Service) uniqueName(base string, id domain.Identity) string {
	if _, taken := s.byName[base]; !taken {
		return base
	}

	if id.Package != "" {
		candidate := base + "_" + domain.SanitizeName(id.Package)
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(id.String()))
	candidate := fmt.Sprintf("%s_%08x", base, h.Sum32())
	for i := 2; ; i++ {
		if _, taken := s.byName[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%08x_%d", base, h.Sum32(), i)
	}
}

// Lookup returns the name of an already resolved identity.
func (s *Service) Lookup(id domain.Identity) (string, bool) {
	e, ok := s.byID[id.String()]
	if !ok {
		return "", false
	}
	return e.name, true
}

// State returns the progress of id.
func (s *Service) State(id domain.Identity) State {
	if e, ok := s.byID[id.String()]; ok {
		return e.state
	}
	return Unseen
}

// Begin marks a resolved identity as in progress.
func (s *Service) Begin(id domain.Identity) error {
	e, ok := s.byID[id.String()]
	if !ok {
		return fmt.Errorf("begin %s: identity was never resolved", id)
	}
	if e.state != Unseen {
		return fmt.Errorf("begin %s: already %s", id, e.state)
	}
	e.state = InProgress
	return nil
}

// Finish clears the in-progress mark of id.
func (s *Service) Finish(id domain.Identity) {
	if e, ok := s.byID[id.String()]; ok {
		e.state = Done
	}
}

// Register stores fragment under name exactly once. Registering an equal
// fragment again is a no-op; a different one is a *domain.DuplicateDefinitionError.
func (s *Service) Register(name string, fragment spec.Schema) error {
	e, ok := s.byName[name]
	if !ok {
		e = &entry{name: name, state: Done}
		s.byName[name] = e
		s.order = append(s.order, e)
	}

	if e.registered {
		same, err := sameSchema(e.fragment, fragment)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		if !same {
			return &domain.DuplicateDefinitionError{Name: name, ID: e.id}
		}
		return nil
	}

	e.fragment = fragment
	e.registered = true
	return nil
}

// Ref returns a reference schema to name.
func (s *Service) Ref(name string) *spec.Schema {
	return spec.RefSchema(s.refPrefix + name)
}

// RefPrefix returns the JSON pointer prefix of references.
func (s *Service) RefPrefix() string {
	return s.refPrefix
}

// RefName extracts the definition name from a reference produced by Ref.
func (s *Service) RefName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, s.refPrefix) || len(ref) == len(s.refPrefix) {
		return "", false
	}
	return ref[len(s.refPrefix):], true
}

// Get returns a copy of the fragment registered under name.
func (s *Service) Get(name string) (spec.Schema, bool) {
	e, ok := s.byName[name]
	if !ok || !e.registered {
		return spec.Schema{}, false
	}
	return e.fragment, true
}

// Definitions returns registered fragments in first-discovery order.
func (s *Service) Definitions() []Definition {
	defs := make([]Definition, 0, len(s.order))
	for _, e := range s.order {
		if !e.registered {
			continue
		}
		defs = append(defs, Definition{Name: e.name, ID: e.id, Schema: e.fragment})
	}
	return defs
}

// Len returns the number of registered fragments.
func (s *Service) Len() int {
	n := 0
	for _, e := range s.order {
		if e.registered {
			n++
		}
	}
	return n
}

func sameSchema(a, b spec.Schema) (bool, error) {
	ab, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}
