package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load loads every package under dirs with syntax and full type information.
// Dependencies are loaded with syntax only when a dependency flag is set.
func (s *Service) Load(ctx context.Context, dirs []string) (*LoadResult, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no search directories given")
	}

	absDirs := make([]string, 0, len(dirs))
	for _, searchDir := range dirs {
		absDir, err := filepath.Abs(searchDir)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absDir)
		if err != nil {
			return nil, fmt.Errorf("failed to access search dir %q: %w", searchDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("search dir %q is not a directory", searchDir)
		}

		absDirs = append(absDirs, absDir)
	}

	var allowed map[string]struct{}
	if s.parseDependency != ParseNone {
		var err error
		allowed, err = s.dependencyPaths(ctx, absDirs)
		if err != nil {
			return nil, err
		}
	}

	return s.loadPackages(ctx, absDirs, allowed)
}

// shouldSkipDir checks if a package directory, relative to its search dir, should be skipped
func (s *Service) shouldSkipDir(dir string) bool {
	for _, elem := range strings.Split(filepath.ToSlash(dir), "/") {
		if !s.parseVendor && elem == "vendor" {
			return true
		}
		if elem == "docs" {
			return true
		}
		if len(elem) > 1 && elem[0] == '.' && elem != ".." {
			return true
		}
	}

	for exclude := range s.excludes {
		exclude = filepath.Clean(exclude)
		if dir == exclude || strings.HasPrefix(dir, exclude+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// skipPackageByPrefix checks if a package should be skipped based on prefix
func (s *Service) skipPackageByPrefix(pkgpath string) bool {
	if len(s.packagePrefix) == 0 {
		return false
	}
	for _, prefix := range s.packagePrefix {
		if strings.HasPrefix(pkgpath, prefix) {
			return false
		}
	}
	return true
}
