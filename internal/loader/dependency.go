package loader

import (
	"context"

	"github.com/KyleBanks/depth"
)

// dependencyPaths returns the import paths whose syntax should be loaded.
// A nil map means every dependency is allowed.
func (s *Service) dependencyPaths(ctx context.Context, absDirs []string) (map[string]struct{}, error) {
	if s.useGoList {
		return s.dependenciesWithGoList(ctx, absDirs)
	}

	return s.dependenciesWithDepth(absDirs), nil
}

// dependenciesWithGoList uses go list to collect dependencies
func (s *Service) dependenciesWithGoList(ctx context.Context, absDirs []string) (map[string]struct{}, error) {
	allowed := make(map[string]struct{})
	for _, dir := range absDirs {
		paths, err := listDependencies(ctx, dir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			allowed[path] = struct{}{}
		}
	}

	return allowed, nil
}

// dependenciesWithDepth uses the depth resolver to collect dependencies up to parseDepth levels.
// Resolution failures fall back to loading every dependency.
func (s *Service) dependenciesWithDepth(absDirs []string) map[string]struct{} {
	allowed := make(map[string]struct{})

	for _, dir := range absDirs {
		var t depth.Tree
		t.ResolveInternal = s.parseInternal
		t.MaxDepth = s.parseDepth

		pkgName, err := getPkgName(dir)
		if err != nil {
			s.debug.Printf("warning: failed to get package name in dir: %s, error: %s", dir, err.Error())
			return nil
		}

		if err := t.Resolve(pkgName); err != nil {
			s.debug.Printf("warning: pkg %s cannot find all dependencies, %s", pkgName, err)
			return nil
		}

		for i := range t.Root.Deps {
			s.collectFromDepth(&t.Root.Deps[i], allowed)
		}
	}

	return allowed
}

// collectFromDepth records a resolved package and its dependencies
func (s *Service) collectFromDepth(pkg *depth.Pkg, allowed map[string]struct{}) {
	ignoreInternal := pkg.Internal && !s.parseInternal
	if ignoreInternal || !pkg.Resolved {
		return
	}

	if pkg.Raw == nil && pkg.Name == "C" {
		return
	}

	if _, ok := allowed[pkg.Name]; ok {
		return
	}
	allowed[pkg.Name] = struct{}{}

	for i := range pkg.Deps {
		s.collectFromDepth(&pkg.Deps[i], allowed)
	}
}
