// Package gen drives a generation run from CLI configuration and writes the
// resulting schema documents to disk.
package gen

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/griffnb/core-jsonschema/internal/console"
	"github.com/griffnb/core-jsonschema/internal/document"
	"github.com/griffnb/core-jsonschema/internal/domain"
	"github.com/griffnb/core-jsonschema/internal/loader"
	"github.com/griffnb/core-jsonschema/internal/orchestrator"
	"sigs.k8s.io/yaml"
)

var open = os.Open

// DefaultOverridesFile is the location the generator looks for type overrides.
const DefaultOverridesFile = ".jsonschemagen"

// IndexFile lists the generated files of a run.
const IndexFile = "index.json"

type genTypeWriter func(*Config, string, *document.Document) (string, error)

// Gen generates JSON Schema documents.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(doc *document.Document) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(doc *document.Document) ([]byte, error) {
			return doc.MarshalIndent("  ")
		},
		jsonToYAML: yaml.JSONToYAML,
		debug:      console.Logger.Zerolog(),
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"json": gen.writeJSONSchema,
		"yaml": gen.writeYAMLSchema,
		"yml":  gen.writeYAMLSchema,
	}

	return &gen
}

// Build generates the documents described by config and writes them to
// config.OutputDir together with an index of the written files.
func (g *Gen) Build(ctx context.Context, config *Config) error {
	started := time.Now()

	if config.Debugger != nil {
		g.debug = config.Debugger
	}
	if len(config.OutputTypes) == 0 {
		config.OutputTypes = []string{"json"}
	}

	dialect, err := document.ParseDialect(config.Dialect)
	if err != nil {
		return err
	}

	var searchDirs []string
	if config.Manifest == "" {
		searchDirs = parseList(config.SearchDir)
		for _, searchDir := range searchDirs {
			if _, err := os.Stat(searchDir); os.IsNotExist(err) {
				return fmt.Errorf("dir: %s does not exist", searchDir)
			}
		}
	}

	var overrides map[string]string

	if config.OverridesFile != "" {
		overridesFile, err := open(config.OverridesFile)
		if err != nil {
			// a missing default file means no overrides
			if !(config.OverridesFile == DefaultOverridesFile && os.IsNotExist(err)) {
				return fmt.Errorf("could not open overrides file: %w", err)
			}
		} else {
			defer overridesFile.Close()
			console.Logger.Debug("Using overrides from %s", config.OverridesFile)

			overrides, err = parseOverrides(overridesFile)
			if err != nil {
				return err
			}
		}
	}

	console.Logger.Debug("Generate JSON Schema documents....")

	orc := orchestrator.New(&orchestrator.Config{
		ParseVendor:        config.ParseVendor,
		ParseInternal:      config.ParseInternal,
		ParseDependency:    loader.ParseFlag(config.ParseDependency),
		ParseDepth:         config.ParseDepth,
		ParseGoList:        config.ParseGoList,
		Excludes:           parseExcludes(config.Excludes),
		PackagePrefix:      parsePackagePrefix(config.PackagePrefix),
		BuildTags:          parseList(config.BuildTags),
		PropNamingStrategy: config.PropNamingStrategy,
		RequiredByDefault:  config.RequiredByDefault,
		IncludeUnexported:  config.IncludeUnexported,
		Overrides:          overrides,
		Dialect:            dialect,
		Titles:             config.Titles,
		EmitTags:           config.EmitTags,
		Debug:              g.debug,
	})

	var source domain.Source
	if config.Manifest != "" {
		source, err = orc.LoadManifest(config.Manifest, config.Roots)
	} else {
		source, err = orc.LoadPackages(ctx, searchDirs, config.Roots)
	}
	if err != nil {
		return err
	}

	docs, err := g.generate(ctx, orc, source, config.Split)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return err
	}

	var written []string
	for _, doc := range docs {
		for _, warning := range doc.Warnings {
			console.Logger.Warn("%s", warning)
		}

		base := "schema"
		if config.Split {
			name, ok := doc.RootName()
			if !ok {
				return fmt.Errorf("document of %v has no single root definition", doc.Roots)
			}
			base = name + ".schema"
		}

		files, err := g.writeDocument(config, base, doc)
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	if err := g.writeIndex(config.OutputDir, written); err != nil {
		return err
	}

	console.Logger.Info("Generated %d files in %s (%s)", len(written), config.OutputDir, time.Since(started).Round(time.Millisecond))

	return nil
}

func (g *Gen) generate(ctx context.Context, orc *orchestrator.Service, source domain.Source, split bool) ([]*document.Document, error) {
	if split {
		return orc.Split(ctx, source)
	}

	doc, err := orc.Generate(ctx, source)
	if err != nil {
		return nil, err
	}
	return []*document.Document{doc}, nil
}

func (g *Gen) writeDocument(config *Config, base string, doc *document.Document) ([]string, error) {
	var files []string
	for _, outputType := range config.OutputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		typeWriter, ok := g.outputTypeMap[outputType]
		if !ok {
			console.Logger.Warn("output type '%s' not supported", outputType)
			continue
		}

		file, err := typeWriter(config, base, doc)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func (g *Gen) writeJSONSchema(config *Config, base string, doc *document.Document) (string, error) {
	filename := base + ".json"
	jsonFileName := filepath.Join(config.OutputDir, filename)

	var (
		b   []byte
		err error
	)
	if config.Pretty {
		b, err = g.jsonIndent(doc)
	} else {
		b, err = g.json(doc)
	}
	if err != nil {
		return "", err
	}

	if err := g.writeFile(b, jsonFileName); err != nil {
		return "", err
	}

	console.Logger.Debug("create %s at %+v", filename, jsonFileName)

	return filename, nil
}

func (g *Gen) writeYAMLSchema(config *Config, base string, doc *document.Document) (string, error) {
	filename := base + ".yaml"
	yamlFileName := filepath.Join(config.OutputDir, filename)

	b, err := g.json(doc)
	if err != nil {
		return "", err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return "", fmt.Errorf("cannot covert json to yaml error: %s", err)
	}

	if err := g.writeFile(y, yamlFileName); err != nil {
		return "", err
	}

	console.Logger.Debug("create %s at %+v", filename, yamlFileName)

	return filename, nil
}

// writeIndex writes the sorted list of generated files.
func (g *Gen) writeIndex(outputDir string, files []string) error {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	b, err := json.MarshalIndent(struct {
		Files []string `json:"files"`
	}{Files: sorted}, "", "  ")
	if err != nil {
		return err
	}

	return g.writeFile(append(b, '\n'), filepath.Join(outputDir, IndexFile))
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

// Read and parse the overrides file.
func parseOverrides(r io.Reader) (map[string]string, error) {
	overrides := make(map[string]string)
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments
		if len(line) > 1 && line[0:2] == "//" {
			continue
		}

		parts := strings.Fields(line)

		switch len(parts) {
		case 0:
			// only whitespace
			continue
		case 2:
			// either a skip or malformed
			if parts[0] != "skip" {
				return nil, fmt.Errorf("could not parse override: '%s'", line)
			}

			overrides[parts[1]] = ""
		case 3:
			// either a replace or malformed
			if parts[0] != "replace" {
				return nil, fmt.Errorf("could not parse override: '%s'", line)
			}

			overrides[parts[1]] = parts[2]
		default:
			return nil, fmt.Errorf("could not parse override: '%s'", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading overrides file: %w", err)
	}

	return overrides, nil
}

// parseExcludes converts comma-separated exclude string to map.
func parseExcludes(excludes string) map[string]struct{} {
	result := make(map[string]struct{})
	for _, exclude := range parseList(excludes) {
		result[exclude] = struct{}{}
	}
	return result
}

// parsePackagePrefix converts comma-separated prefix string to slice.
func parsePackagePrefix(packagePrefix string) []string {
	return parseList(packagePrefix)
}

// parseList splits a comma separated string, dropping empty entries.
func parseList(list string) []string {
	result := []string{}
	if list == "" {
		return result
	}

	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
