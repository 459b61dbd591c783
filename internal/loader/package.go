package loader

import (
	"context"
	"fmt"
	"go/build"
	"os/exec"
	"path/filepath"
	"strings"
)

// getPkgName returns the package import path for a directory
func getPkgName(searchDir string) (string, error) {
	// go list knows about modules; build.ImportDir only about GOPATH
	cmd := exec.Command("go", "list", "-f={{.ImportPath}}")
	cmd.Dir = searchDir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err == nil {
		outStr := strings.TrimSpace(stdout.String())

		// Handle old GOPATH format
		if len(outStr) > 0 && outStr[0] == '_' {
			outStr = strings.TrimPrefix(outStr, "_"+build.Default.GOPATH+"/src/")
		}

		lines := strings.Split(outStr, "\n")
		if len(lines) > 0 && lines[0] != "" {
			return lines[0], nil
		}
	}

	if abs, err := filepath.Abs(searchDir); err == nil {
		pkg, err := build.ImportDir(abs, build.ImportComment)
		if err == nil {
			return pkg.ImportPath, nil
		}
	}

	return "", fmt.Errorf("failed to get package name for directory: %s", searchDir)
}

// listDependencies returns the import paths of every package the packages under dir depend on.
func listDependencies(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "go", "list", "-deps", "-f={{.ImportPath}}", "./...")
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("go list -deps in %s: %w: %s", dir, err, strings.TrimSpace(stderr.String()))
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// isStandardPackage reports whether path belongs to the standard library.
func isStandardPackage(path string) bool {
	first := path
	if i := strings.Index(path, "/"); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}
