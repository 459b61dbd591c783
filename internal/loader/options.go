package loader

// DefaultParseDepth how many import levels below the roots are loaded with syntax
const DefaultParseDepth = 100

// NewService creates a new loader service with optional configuration
func NewService(options ...Option) *Service {
	s := &Service{
		parseVendor:     false,
		parseInternal:   false,
		excludes:        make(map[string]struct{}),
		packagePrefix:   []string{},
		useGoList:       false,
		parseDependency: ParseNone,
		parseDepth:      DefaultParseDepth,
		debug:           &noOpDebugger{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithParseVendor sets whether to parse vendor directories
func WithParseVendor(parse bool) Option {
	return func(s *Service) {
		s.parseVendor = parse
	}
}

// WithParseInternal sets whether to parse standard library packages
func WithParseInternal(parse bool) Option {
	return func(s *Service) {
		s.parseInternal = parse
	}
}

// WithExcludes sets directory exclusion patterns
func WithExcludes(excludes map[string]struct{}) Option {
	return func(s *Service) {
		s.excludes = excludes
	}
}

// WithPackagePrefix sets package path prefixes to filter
func WithPackagePrefix(prefixes []string) Option {
	return func(s *Service) {
		s.packagePrefix = prefixes
	}
}

// WithBuildTags sets the build tags passed to the go tool
func WithBuildTags(tags []string) Option {
	return func(s *Service) {
		s.buildTags = tags
	}
}

// WithGoList sets whether to use go list instead of the depth resolver for dependencies
func WithGoList(use bool) Option {
	return func(s *Service) {
		s.useGoList = use
	}
}

// WithParseDependency sets the dependency parsing flag
func WithParseDependency(flag ParseFlag) Option {
	return func(s *Service) {
		s.parseDependency = flag
	}
}

// WithParseDepth limits how deep the dependency tree is followed
func WithParseDepth(depth int) Option {
	return func(s *Service) {
		if depth > 0 {
			s.parseDepth = depth
		}
	}
}

// WithDebugger sets the debugger for logging
func WithDebugger(debugger Debugger) Option {
	return func(s *Service) {
		s.debug = debugger
	}
}
