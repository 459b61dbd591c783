// Package adapter describes Go types, as seen by the type checker, with
// domain.TypeDescriptor values. It implements domain.Source.
package adapter

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
	"sync"

	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/loader"
	"golang.org/x/tools/go/packages"
)

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// Service is a pull based descriptor source over loaded packages.
// Descriptor is safe for concurrent use.
type Service struct {
	roots    []*packages.Package
	packages []*packages.Package
	// typesByPath every package reachable from the loaded ones, including export data only imports
	typesByPath map[string]*types.Package
	docs        *docIndex

	mu      sync.Mutex
	named   map[string]*types.Named
	cache   map[string]*domain.TypeDescriptor
	rootIDs []domain.Identity

	// overrides qualified type name to replacement; an empty replacement skips the type
	overrides         map[string]string
	namingStrategy    string
	requiredByDefault bool
	includeUnexported bool
	debug             Debugger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithOverrides sets type replacements and skips.
func WithOverrides(overrides map[string]string) Option {
	return func(s *Service) {
		if overrides != nil {
			s.overrides = overrides
		}
	}
}

// WithNamingStrategy sets how fields without a json tag are named.
func WithNamingStrategy(strategy string) Option {
	return func(s *Service) {
		s.namingStrategy = strategy
	}
}

// WithRequiredByDefault marks non pointer fields without omitempty as required.
func WithRequiredByDefault(required bool) Option {
	return func(s *Service) {
		s.requiredByDefault = required
	}
}

// WithIncludeUnexported describes unexported struct fields too.
func WithIncludeUnexported(include bool) Option {
	return func(s *Service) {
		s.includeUnexported = include
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

// NewService indexes the loaded packages. Roots default to every exported
// type declared in the root packages until SetRoots is called.
func NewService(result *loader.LoadResult, options ...Option) *Service {
	s := &Service{
		roots:          result.Packages,
		packages:       result.All(),
		typesByPath:    make(map[string]*types.Package),
		docs:           newDocIndex(result.All()),
		named:          make(map[string]*types.Named),
		cache:          make(map[string]*domain.TypeDescriptor),
		overrides:      make(map[string]string),
		namingStrategy: PascalCase,
		debug:          &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	for _, pkg := range s.packages {
		if pkg.Types != nil {
			s.indexTypes(pkg.Types)
		}
	}

	s.rootIDs = s.defaultRoots()

	return s
}

func (s *Service) indexTypes(pkg *types.Package) {
	if _, seen := s.typesByPath[pkg.Path()]; seen {
		return
	}
	s.typesByPath[pkg.Path()] = pkg
	for _, imported := range pkg.Imports() {
		s.indexTypes(imported)
	}
}

// Roots implements domain.Source.
func (s *Service) Roots() []domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Identity(nil), s.rootIDs...)
}

// SetRoots selects the root types. A name is either a qualified
// "import/path.Type", a "pkgname.Type" of a loaded package, or a bare "Type"
// of the first root package. No names restores the default roots.
func (s *Service) SetRoots(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(names) == 0 {
		s.rootIDs = s.defaultRoots()
		return nil
	}

	ids := make([]domain.Identity, 0, len(names))
	for _, name := range names {
		id, err := s.resolveRoot(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	s.rootIDs = ids

	return nil
}

func (s *Service) resolveRoot(name string) (domain.Identity, error) {
	id := domain.NewIdentity(name)
	if id.Package == "" {
		if len(s.roots) == 0 {
			return domain.Identity{}, fmt.Errorf("root type %s: no package loaded", name)
		}
		id.Package = s.roots[0].PkgPath
	}

	if _, ok := s.typesByPath[id.Package]; !ok {
		for _, pkg := range s.roots {
			if pkg.Name == id.Package || strings.HasSuffix(pkg.PkgPath, "/"+id.Package) {
				id.Package = pkg.PkgPath
				break
			}
		}
	}

	named := s.lookupNamed(id)
	if named == nil {
		return domain.Identity{}, fmt.Errorf("root type %s: %w", name, domain.ErrNotFound)
	}
	s.named[id.String()] = named

	return id, nil
}

// defaultRoots lists the exported, non generic types of the root packages in source order.
func (s *Service) defaultRoots() []domain.Identity {
	var ids []domain.Identity
	for _, pkg := range s.roots {
		if pkg.Types == nil {
			continue
		}

		var names []*types.TypeName
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 || s.isSkipped(qualifiedName(tn)) {
				continue
			}
			names = append(names, tn)
		}
		sort.SliceStable(names, func(i, j int) bool { return names[i].Pos() < names[j].Pos() })

		for _, tn := range names {
			id := domain.Identity{Package: pkg.PkgPath, Name: tn.Name()}
			s.named[id.String()] = tn.Type().(*types.Named)
			ids = append(ids, id)
		}
	}
	return ids
}

// Descriptor implements domain.Source.
func (s *Service) Descriptor(id domain.Identity) (*domain.TypeDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := id.String()
	if d, ok := s.cache[key]; ok {
		return d, nil
	}

	named, ok := s.named[key]
	if !ok {
		named = s.lookupNamed(id)
		if named == nil {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
		}
		s.named[key] = named
	}

	d, err := s.describeNamed(id, named)
	if err != nil {
		return nil, err
	}

	s.cache[key] = d
	s.debug.Printf("Adapter: described %s as %s", id, d.Kind)

	return d, nil
}

// lookupNamed finds a declared, uninstantiated type by identity.
func (s *Service) lookupNamed(id domain.Identity) *types.Named {
	if len(id.Args) > 0 {
		return nil
	}
	pkg, ok := s.typesByPath[id.Package]
	if !ok {
		return nil
	}
	tn, ok := pkg.Scope().Lookup(id.Name).(*types.TypeName)
	if !ok {
		return nil
	}
	named, _ := types.Unalias(tn.Type()).(*types.Named)
	return named
}

func (s *Service) isSkipped(qualified string) bool {
	replacement, ok := s.overrides[qualified]
	return ok && replacement == ""
}

func qualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}
