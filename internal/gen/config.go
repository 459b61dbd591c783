package gen

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"sigs.k8s.io/yaml"
)

// DefaultConfigFile is the location the generator looks for a config file.
const DefaultConfigFile = ".jsonschemagen.yaml"

// Config presents Gen configurations. It doubles as the config file format.
type Config struct {
	Debugger Debugger `json:"-"`

	// SearchDir the directories to load, comma separated if multiple
	SearchDir string `json:"dir,omitempty" jsonschema_description:"Directories to load Go packages from (comma separated)"`

	// Manifest a type model manifest read instead of Go sources
	Manifest string `json:"manifest,omitempty" jsonschema_description:"YAML or JSON type model manifest used instead of Go sources"`

	// Roots the root types; all exported types when empty
	Roots []string `json:"roots,omitempty" jsonschema_description:"Root types of the document. Defaults to every exported type"`

	// Excludes dirs and files in SearchDir, comma separated
	Excludes string `json:"exclude,omitempty" jsonschema_description:"Directories to exclude when searching (comma separated)"`

	// OutputDir represents the output directory for all the generated files
	OutputDir string `json:"output,omitempty" jsonschema_description:"Output directory of the generated files"`

	// OutputTypes define types of files which should be generated
	OutputTypes []string `json:"outputTypes,omitempty" jsonschema:"enum=json,enum=yaml,enum=yml"`

	// PropNamingStrategy represents property naming strategy like snake case, camel case, pascal case
	PropNamingStrategy string `json:"propertyStrategy,omitempty" jsonschema:"enum=snakecase,enum=camelcase,enum=pascalcase"`

	// Dialect the JSON Schema draft
	Dialect string `json:"dialect,omitempty" jsonschema:"enum=draft-07,enum=2020-12"`

	Pretty   bool `json:"pretty,omitempty" jsonschema_description:"Indent JSON output by two spaces"`
	Split    bool `json:"split,omitempty" jsonschema_description:"Write one document per root type"`
	Titles   bool `json:"titles,omitempty" jsonschema_description:"Derive a title for every definition"`
	EmitTags bool `json:"emitTags,omitempty" jsonschema_description:"Keep unrecognized comment tags as x- keywords"`

	// ParseDepth dependency parse depth
	ParseDepth int `json:"parseDepth,omitempty" jsonschema:"minimum=0"`

	// ParseVendor whether the vendor folder is loaded
	ParseVendor bool `json:"parseVendor,omitempty"`

	// ParseDependency whether dependencies are loaded: 0 none, 1 models
	ParseDependency int `json:"parseDependency,omitempty" jsonschema:"enum=0,enum=1"`

	// ParseInternal whether internal and standard library packages are loaded
	ParseInternal bool `json:"parseInternal,omitempty"`

	// ParseGoList whether dependencies are resolved with go list
	ParseGoList bool `json:"parseGoList,omitempty"`

	// RequiredByDefault set validation required for all fields by default
	RequiredByDefault bool `json:"requiredByDefault,omitempty"`

	// IncludeUnexported describe unexported struct fields
	IncludeUnexported bool `json:"includeUnexported,omitempty"`

	// OverridesFile defines global type overrides.
	OverridesFile string `json:"overridesFile,omitempty"`

	// PackagePrefix loads only packages whose import path match the given prefix, comma separated
	PackagePrefix string `json:"packagePrefix,omitempty"`

	// BuildTags passed to the package loader, comma separated
	BuildTags string `json:"tags,omitempty"`
}

// LoadConfigFile reads a YAML or JSON config file. A missing default file
// yields an empty config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultConfigFile && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config Config
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &config, nil
}

// ConfigSchema returns the JSON Schema of the config file.
func ConfigSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	s := reflector.Reflect(&Config{})
	if s.Version == "" {
		s.Version = jsonschema.Version
	}
	s.Title = "core-jsonschema configuration"

	return json.MarshalIndent(s, "", "  ")
}
