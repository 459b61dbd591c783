package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-jsonschema/internal/console"
	"github.com/griffnb/core-jsonschema/internal/gen"
)

func runFlags(t *testing.T, file *gen.Config, args ...string) *gen.Config {
	t.Helper()
	app := &cli.App{
		Flags: generateFlags,
		Action: func(ctx *cli.Context) error {
			applyFlags(ctx, file)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"core-jsonschema"}, args...)))
	return file
}

func TestApplyFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := runFlags(t, &gen.Config{})

		assert.Equal(t, "./", config.SearchDir)
		assert.Equal(t, "./schemas", config.OutputDir)
		assert.Equal(t, []string{"json"}, config.OutputTypes)
		assert.Equal(t, "pascalcase", config.PropNamingStrategy)
		assert.Equal(t, "draft-07", config.Dialect)
		assert.Equal(t, gen.DefaultOverridesFile, config.OverridesFile)
		assert.True(t, config.ParseGoList)
		assert.Empty(t, config.Roots)
	})

	t.Run("file values survive unset flags", func(t *testing.T) {
		config := runFlags(t, &gen.Config{SearchDir: "./models", Roots: []string{"User"}, Split: true})

		assert.Equal(t, "./models", config.SearchDir)
		assert.Equal(t, []string{"User"}, config.Roots)
		assert.True(t, config.Split)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		config := runFlags(t, &gen.Config{SearchDir: "./models", Roots: []string{"User"}},
			"-d", "./api", "-r", "Order", "-r", "Item", "--outputTypes", "json,yaml", "--pd")

		assert.Equal(t, "./api", config.SearchDir)
		assert.Equal(t, []string{"Order", "Item"}, config.Roots)
		assert.Equal(t, []string{"json", "yaml"}, config.OutputTypes)
		assert.Equal(t, 1, config.ParseDependency)
	})
}

func TestNewDebugger(t *testing.T) {
	saved := *console.Logger
	defer func() { *console.Logger = saved }()

	var buf bytes.Buffer
	console.Logger.SetOutput(&buf)

	t.Run("traces hidden without debug", func(t *testing.T) {
		buf.Reset()
		console.Logger.DebugLevel = 0

		newDebugger().Printf("Translator: defined %s as %s", "geo.Point", "Point")

		assert.Empty(t, buf.String())
	})

	t.Run("traces shown with debug", func(t *testing.T) {
		buf.Reset()
		console.Logger.DebugLevel = 1

		newDebugger().Printf("Translator: defined %s as %s", "geo.Point", "Point")

		assert.Contains(t, buf.String(), "Translator: defined geo.Point as Point")
	})

	t.Run("quiet wins over debug", func(t *testing.T) {
		buf.Reset()
		console.Logger.DebugLevel = 1
		console.Logger.Quiet = true
		defer func() { console.Logger.Quiet = false }()

		newDebugger().Printf("Translator: defined %s as %s", "geo.Point", "Point")

		assert.Empty(t, buf.String())
	})
}
