package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-jsonschema/internal/adapter"
	"github.com/griffnb/core-jsonschema/internal/console"
	"github.com/griffnb/core-jsonschema/internal/gen"
	"github.com/griffnb/core-jsonschema/internal/loader"
)

const (
	configFlag               = "config"
	searchDirFlag            = "dir"
	manifestFlag             = "manifest"
	rootFlag                 = "root"
	excludeFlag              = "exclude"
	propertyStrategyFlag     = "propertyStrategy"
	outputFlag               = "output"
	outputTypesFlag          = "outputTypes"
	dialectFlag              = "dialect"
	prettyFlag               = "pretty"
	splitFlag                = "split"
	titlesFlag               = "titles"
	emitTagsFlag             = "emitTags"
	parseVendorFlag          = "parseVendor"
	parseDependencyFlag      = "parseDependency"
	parseDependencyLevelFlag = "parseDependencyLevel"
	parseInternalFlag        = "parseInternal"
	requiredByDefaultFlag    = "requiredByDefault"
	includeUnexportedFlag    = "include-unexported"
	parseDepthFlag           = "parseDepth"
	overridesFileFlag        = "overridesFile"
	parseGoListFlag          = "parseGoList"
	packagePrefixFlag        = "packagePrefix"
	tagsFlag                 = "tags"
	quietFlag                = "quiet"
	debugFlag                = "debug"
)

var generateFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
	},
	&cli.StringFlag{
		Name:    configFlag,
		Aliases: []string{"c"},
		Value:   gen.DefaultConfigFile,
		Usage:   "YAML config file, explicitly set flags take precedence",
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Directories you want to load, comma separated",
	},
	&cli.StringFlag{
		Name:    manifestFlag,
		Aliases: []string{"m"},
		Usage:   "Type model manifest (YAML or JSON) read instead of Go sources",
	},
	&cli.StringSliceFlag{
		Name:    rootFlag,
		Aliases: []string{"r"},
		Usage:   "Root type of the document, repeatable. Defaults to every exported type",
	},
	&cli.StringFlag{
		Name:  excludeFlag,
		Usage: "Exclude directories and files when searching, comma separated",
	},
	&cli.StringFlag{
		Name:    propertyStrategyFlag,
		Aliases: []string{"p"},
		Value:   adapter.PascalCase,
		Usage:   "Property Naming Strategy like " + adapter.SnakeCase + "," + adapter.CamelCase + "," + adapter.PascalCase,
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./schemas",
		Usage:   "Output directory for all the generated files (schema.json, schema.yaml, index.json)",
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "json",
		Usage:   "Output types of generated files like json,yaml",
	},
	&cli.StringFlag{
		Name:  dialectFlag,
		Value: "draft-07",
		Usage: "JSON Schema dialect, draft-07 or 2020-12",
	},
	&cli.BoolFlag{
		Name:  prettyFlag,
		Usage: "Indent JSON output by two spaces",
	},
	&cli.BoolFlag{
		Name:  splitFlag,
		Usage: "Write one document per root type",
	},
	&cli.BoolFlag{
		Name:  titlesFlag,
		Usage: "Derive a title for every definition from its name",
	},
	&cli.BoolFlag{
		Name:  emitTagsFlag,
		Usage: "Keep unrecognized comment tags as x- keywords",
	},
	&cli.BoolFlag{
		Name:  parseVendorFlag,
		Usage: "Load go files in 'vendor' folder, disabled by default",
	},
	&cli.IntFlag{
		Name:    parseDependencyLevelFlag,
		Aliases: []string{"pdl"},
		Usage:   "Load dependency packages, 0 disabled, 1 models",
	},
	&cli.BoolFlag{
		Name:    parseDependencyFlag,
		Aliases: []string{"pd"},
		Usage:   "Load dependency packages, disabled by default",
	},
	&cli.BoolFlag{
		Name:  parseInternalFlag,
		Usage: "Load internal and standard library packages, disabled by default",
	},
	&cli.IntFlag{
		Name:  parseDepthFlag,
		Value: loader.DefaultParseDepth,
		Usage: "Dependency parse depth",
	},
	&cli.BoolFlag{
		Name:  requiredByDefaultFlag,
		Usage: "Set validation required for all fields by default",
	},
	&cli.BoolFlag{
		Name:  includeUnexportedFlag,
		Usage: "Describe unexported struct fields",
	},
	&cli.StringFlag{
		Name:  overridesFileFlag,
		Value: gen.DefaultOverridesFile,
		Usage: "File to read global type overrides from.",
	},
	&cli.BoolFlag{
		Name:  parseGoListFlag,
		Value: true,
		Usage: "Resolve dependencies via 'go list'",
	},
	&cli.StringFlag{
		Name:  packagePrefixFlag,
		Value: "",
		Usage: "Load only packages whose import path match the given prefix, comma separated",
	},
	&cli.StringFlag{
		Name:    tagsFlag,
		Aliases: []string{"t"},
		Usage:   "Build tags passed to the package loader, comma separated",
	},
	&cli.BoolFlag{
		Name:  debugFlag,
		Usage: "Enable debug mode, disabled by default",
	},
}

func generateAction(ctx *cli.Context) error {
	if ctx.IsSet(debugFlag) {
		console.Logger.DebugLevel = 1
	}
	if ctx.Bool(quietFlag) {
		console.Logger.Quiet = true
	}

	config, err := gen.LoadConfigFile(ctx.String(configFlag))
	if err != nil {
		return err
	}
	applyFlags(ctx, config)

	switch config.PropNamingStrategy {
	case adapter.CamelCase, adapter.SnakeCase, adapter.PascalCase:
	default:
		return fmt.Errorf("not supported %s propertyStrategy", config.PropNamingStrategy)
	}

	if len(config.OutputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}

	config.Debugger = newDebugger()

	return gen.New().Build(ctx.Context, config)
}

// newDebugger routes component traces through the console logger, which
// prints them only with --debug and never with --quiet.
func newDebugger() gen.Debugger {
	return console.Logger.Zerolog()
}

// applyFlags fills config from flags. A flag wins over the config file when it
// is set explicitly, and its default applies only when the file is silent.
func applyFlags(ctx *cli.Context, config *gen.Config) {
	str := func(name string, target *string) {
		if ctx.IsSet(name) || *target == "" {
			*target = ctx.String(name)
		}
	}
	boolean := func(name string, target *bool) {
		if ctx.IsSet(name) || !*target {
			*target = ctx.Bool(name)
		}
	}
	integer := func(name string, target *int) {
		if ctx.IsSet(name) || *target == 0 {
			*target = ctx.Int(name)
		}
	}

	str(searchDirFlag, &config.SearchDir)
	str(manifestFlag, &config.Manifest)
	str(excludeFlag, &config.Excludes)
	str(propertyStrategyFlag, &config.PropNamingStrategy)
	str(outputFlag, &config.OutputDir)
	str(dialectFlag, &config.Dialect)
	str(overridesFileFlag, &config.OverridesFile)
	str(packagePrefixFlag, &config.PackagePrefix)
	str(tagsFlag, &config.BuildTags)

	boolean(prettyFlag, &config.Pretty)
	boolean(splitFlag, &config.Split)
	boolean(titlesFlag, &config.Titles)
	boolean(emitTagsFlag, &config.EmitTags)
	boolean(parseVendorFlag, &config.ParseVendor)
	boolean(parseInternalFlag, &config.ParseInternal)
	boolean(parseGoListFlag, &config.ParseGoList)
	boolean(requiredByDefaultFlag, &config.RequiredByDefault)
	boolean(includeUnexportedFlag, &config.IncludeUnexported)

	integer(parseDepthFlag, &config.ParseDepth)

	if ctx.IsSet(rootFlag) || len(config.Roots) == 0 {
		config.Roots = ctx.StringSlice(rootFlag)
	}
	if ctx.IsSet(outputTypesFlag) || len(config.OutputTypes) == 0 {
		config.OutputTypes = strings.Split(ctx.String(outputTypesFlag), ",")
	}

	pdv := ctx.Int(parseDependencyLevelFlag)
	if pdv == 0 && ctx.Bool(parseDependencyFlag) {
		pdv = 1
	}
	if ctx.IsSet(parseDependencyLevelFlag) || ctx.IsSet(parseDependencyFlag) || config.ParseDependency == 0 {
		config.ParseDependency = pdv
	}
}

func configSchemaAction(ctx *cli.Context) error {
	b, err := gen.ConfigSchema()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(ctx.App.Writer, string(b))
	return err
}

func main() {
	app := cli.NewApp()
	app.Version = gen.Version
	app.Usage = "Generate JSON Schema documents from Go types."
	app.Flags = generateFlags
	app.Action = generateAction
	app.Commands = []*cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "Generate JSON Schema documents",
			Action:  generateAction,
			Flags:   generateFlags,
		},
		{
			Name:   "config-schema",
			Usage:  "Print the JSON Schema of the config file",
			Action: configSchemaAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		console.Logger.Error("%v", err)
		os.Exit(1)
	}
}
