package loader

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// ParseFlag determines how much of a package is loaded
type ParseFlag int

const (
	// ParseNone dependency packages contribute types only
	ParseNone ParseFlag = 0x00
	// ParseModels dependency packages contribute syntax, so their doc comments are available
	ParseModels ParseFlag = 0x01
)

// Service handles loading Go packages and their AST files
type Service struct {
	parseVendor     bool
	parseInternal   bool
	excludes        map[string]struct{}
	packagePrefix   []string
	buildTags       []string
	useGoList       bool
	parseDependency ParseFlag
	parseDepth      int
	debug           Debugger
}

// Debugger interface for logging
type Debugger interface {
	Printf(format string, v ...interface{})
}

// LoadResult contains the results of loading packages
type LoadResult struct {
	Files map[*ast.File]*AstFileInfo
	// Packages the root packages found under the search directories, sorted by path
	Packages []*packages.Package
	// Dependencies packages imported by the roots whose syntax was loaded
	Dependencies []*packages.Package
	FileSet      *token.FileSet
}

// AstFileInfo contains information about a parsed AST file
type AstFileInfo struct {
	File        *ast.File
	Path        string
	PackagePath string
	ParseFlag   ParseFlag
	// Root the file belongs to a root package
	Root bool
}

// All returns the root packages followed by the dependencies.
func (r *LoadResult) All() []*packages.Package {
	all := make([]*packages.Package, 0, len(r.Packages)+len(r.Dependencies))
	all = append(all, r.Packages...)
	return append(all, r.Dependencies...)
}

// Option is a functional option for configuring Service
type Option func(*Service)

// noOpDebugger is a no-op debugger
type noOpDebugger struct{}

func (n *noOpDebugger) Printf(format string, v ...interface{}) {}
