// Package orchestrator coordinates the loader, the type model adapters and
// the document assembler to generate JSON Schema documents.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/griffnb/core-jsonschema/internal/adapter"
	"github.com/griffnb/core-jsonschema/internal/document"
	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/loader"
	"github.com/griffnb/core-jsonschema/internal/manifest"
)

// Service runs generations.
type Service struct {
	loader *loader.Service
	config *Config
}

// Config holds orchestrator configuration options.
type Config struct {
	ParseVendor        bool
	ParseInternal      bool
	ParseDependency    loader.ParseFlag
	ParseDepth         int
	ParseGoList        bool
	Excludes           map[string]struct{}
	PackagePrefix      []string
	BuildTags          []string
	PropNamingStrategy string
	RequiredByDefault  bool
	IncludeUnexported  bool
	Overrides          map[string]string
	Dialect            document.Dialect
	Titles             bool
	EmitTags           bool
	Debug              Debugger
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}

// New creates a new orchestrator service with the given configuration.
func New(config *Config) *Service {
	if config == nil {
		config = &Config{}
	}

	if config.PropNamingStrategy == "" {
		config.PropNamingStrategy = adapter.PascalCase
	}
	if config.Excludes == nil {
		config.Excludes = make(map[string]struct{})
	}
	if config.PackagePrefix == nil {
		config.PackagePrefix = []string{}
	}
	if config.Overrides == nil {
		config.Overrides = make(map[string]string)
	}
	if config.Dialect == "" {
		config.Dialect = document.Draft07
	}
	if config.Debug == nil {
		config.Debug = &noOpDebugger{}
	}

	loaderService := loader.NewService(
		loader.WithParseVendor(config.ParseVendor),
		loader.WithParseInternal(config.ParseInternal),
		loader.WithParseDependency(config.ParseDependency),
		loader.WithParseDepth(config.ParseDepth),
		loader.WithExcludes(config.Excludes),
		loader.WithPackagePrefix(config.PackagePrefix),
		loader.WithBuildTags(config.BuildTags),
		loader.WithGoList(config.ParseGoList),
		loader.WithDebugger(config.Debug),
	)

	return &Service{
		loader: loaderService,
		config: config,
	}
}

// LoadPackages loads the Go packages under searchDirs and selects the roots.
// No roots selects every exported type of the loaded packages.
func (s *Service) LoadPackages(ctx context.Context, searchDirs []string, roots []string) (*adapter.Service, error) {
	s.config.Debug.Printf("Orchestrator: loading %d search dirs", len(searchDirs))

	result, err := s.loader.Load(ctx, searchDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	s.config.Debug.Printf("Orchestrator: loaded %d packages, %d dependencies, %d files",
		len(result.Packages), len(result.Dependencies), len(result.Files))

	source := adapter.NewService(result,
		adapter.WithOverrides(s.config.Overrides),
		adapter.WithNamingStrategy(s.config.PropNamingStrategy),
		adapter.WithRequiredByDefault(s.config.RequiredByDefault),
		adapter.WithIncludeUnexported(s.config.IncludeUnexported),
		adapter.WithDebugger(s.config.Debug),
	)
	if err := source.SetRoots(roots); err != nil {
		return nil, err
	}

	return source, nil
}

// LoadManifest reads a type model manifest. Roots, when given, replace the manifest's own.
func (s *Service) LoadManifest(path string, roots []string) (domain.Source, error) {
	catalog, err := manifest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return catalog, nil
	}

	ids := make([]domain.Identity, 0, len(roots))
	for _, root := range roots {
		ref, err := manifest.ParseTypeRef(root)
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", root, err)
		}
		ids = append(ids, ref.ID)
	}
	return withRoots{Source: catalog, roots: ids}, nil
}

// Generate assembles one document for every root of source.
func (s *Service) Generate(ctx context.Context, source domain.Source) (*document.Document, error) {
	roots := source.Roots()
	s.config.Debug.Printf("Orchestrator: assembling %d roots", len(roots))

	doc, err := document.Assemble(ctx, source, roots, s.options())
	if err != nil {
		return nil, err
	}

	s.config.Debug.Printf("Orchestrator: %d definitions, %d warnings", len(doc.Definitions), len(doc.Warnings))
	return doc, nil
}

func (s *Service) options() document.Options {
	return document.Options{
		Dialect:  s.config.Dialect,
		Titles:   s.config.Titles,
		EmitTags: s.config.EmitTags,
		Debugger: s.config.Debug,
	}
}

// withRoots overrides the roots of a source.
type withRoots struct {
	domain.Source
	roots []domain.Identity
}

func (w withRoots) Roots() []domain.Identity {
	return w.roots
}
