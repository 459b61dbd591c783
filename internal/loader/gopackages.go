package loader

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// loadPackages loads packages using go/packages
func (s *Service) loadPackages(ctx context.Context, absDirs []string, allowed map[string]struct{}) (*LoadResult, error) {
	mode := packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports |
		packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax | packages.NeedTypesInfo
	if s.parseDependency != ParseNone {
		mode |= packages.NeedDeps
	}

	patterns := make([]string, 0, len(absDirs))
	for _, dir := range absDirs {
		patterns = append(patterns, dir+"/...")
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    mode,
		Fset:    fset,
		Dir:     absDirs[0],
	}
	if len(s.buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(s.buildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, e)
		}
	}

	result := &LoadResult{
		Files:   make(map[*ast.File]*AstFileInfo),
		FileSet: fset,
	}

	pkgSeen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if s.skipPackageByPrefix(pkg.PkgPath) || s.shouldSkipDir(relativeDir(absDirs, packageDir(pkg))) {
			s.debug.Printf("skipping package %s", pkg.PkgPath)
			continue
		}
		pkgSeen[pkg.PkgPath] = struct{}{}
		result.Packages = append(result.Packages, pkg)
		s.addFiles(pkg, true, result)
	}

	if len(result.Packages) == 0 {
		return nil, fmt.Errorf("no Go packages found in %s", strings.Join(absDirs, ", "))
	}

	if s.parseDependency != ParseNone {
		for _, pkg := range result.Packages {
			s.walkImports(pkg, allowed, pkgSeen, result)
		}
	}

	sort.Slice(result.Packages, func(i, j int) bool { return result.Packages[i].PkgPath < result.Packages[j].PkgPath })
	sort.Slice(result.Dependencies, func(i, j int) bool {
		return result.Dependencies[i].PkgPath < result.Dependencies[j].PkgPath
	})

	return result, nil
}

// walkImports collects the syntax of imported packages, depth first.
func (s *Service) walkImports(pkg *packages.Package, allowed map[string]struct{}, pkgSeen map[string]struct{}, result *LoadResult) {
	paths := make([]string, 0, len(pkg.Imports))
	for path := range pkg.Imports {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		dep := pkg.Imports[path]
		if _, ok := pkgSeen[dep.PkgPath]; ok {
			continue
		}
		pkgSeen[dep.PkgPath] = struct{}{}

		if isStandardPackage(dep.PkgPath) && !s.parseInternal {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[dep.PkgPath]; !ok {
				continue
			}
		}
		if s.skipPackageByPrefix(dep.PkgPath) {
			continue
		}

		result.Dependencies = append(result.Dependencies, dep)
		s.addFiles(dep, false, result)
		s.walkImports(dep, allowed, pkgSeen, result)
	}
}

func (s *Service) addFiles(pkg *packages.Package, root bool, result *LoadResult) {
	flag := s.parseDependency
	if root {
		flag = ParseModels
	}

	for i, file := range pkg.Syntax {
		path := ""
		if i < len(pkg.CompiledGoFiles) {
			path = pkg.CompiledGoFiles[i]
		}
		result.Files[file] = &AstFileInfo{
			File:        file,
			Path:        path,
			PackagePath: pkg.PkgPath,
			ParseFlag:   flag,
			Root:        root,
		}
	}
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) == 0 {
		return ""
	}
	return filepath.Dir(pkg.GoFiles[0])
}

// relativeDir returns dir relative to the search dir containing it.
func relativeDir(absDirs []string, dir string) string {
	for _, base := range absDirs {
		if rel, err := filepath.Rel(base, dir); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return dir
}
