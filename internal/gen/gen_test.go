package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/griffnb/core-jsonschema/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchDir = "testdata/pets"

var outputTypes = []string{"json", "yaml"}

func readIndex(t *testing.T, outputDir string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(outputDir, IndexFile))
	require.NoError(t, err)

	var index struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(b, &index))
	return index.Files
}

func TestGen_Build(t *testing.T) {
	// Arrange
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: outputTypes,
		Roots:       []string{"Pet"},
	}

	// Act
	require.NoError(t, New().Build(context.Background(), config))

	// Assert
	assert.Equal(t, []string{"schema.json", "schema.yaml"}, readIndex(t, config.OutputDir))

	b, err := os.ReadFile(filepath.Join(config.OutputDir, "schema.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b),
		`{"$schema":"http://json-schema.org/draft-07/schema#","$ref":"#/definitions/Pet","definitions":{"Pet":`), string(b))

	y, err := os.ReadFile(filepath.Join(config.OutputDir, "schema.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(y), "$ref:")
	assert.Contains(t, string(y), "#/definitions/Pet")
}

func TestGen_BuildPretty(t *testing.T) {
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: []string{"json"},
		Roots:       []string{"Owner"},
		Pretty:      true,
		Dialect:     "2020-12",
	}

	require.NoError(t, New().Build(context.Background(), config))

	b, err := os.ReadFile(filepath.Join(config.OutputDir, "schema.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "{\n  \"$schema\": \"https://json-schema.org/draft/2020-12/schema\",\n"), string(b))
	assert.True(t, strings.HasSuffix(string(b), "}\n"))
	assert.Contains(t, string(b), `"$defs"`)
}

func TestGen_BuildSplit(t *testing.T) {
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: []string{"json"},
		Split:       true,
	}

	require.NoError(t, New().Build(context.Background(), config))

	assert.Equal(t, []string{"Owner.schema.json", "Pet.schema.json", "Species.schema.json"}, readIndex(t, config.OutputDir))
	for _, file := range readIndex(t, config.OutputDir) {
		_, err := os.Stat(filepath.Join(config.OutputDir, file))
		assert.NoError(t, err)
	}
}

func TestGen_BuildManifest(t *testing.T) {
	config := &Config{
		Manifest:    "testdata/shapes.yaml",
		OutputDir:   t.TempDir(),
		OutputTypes: []string{"json"},
		Titles:      true,
	}

	require.NoError(t, New().Build(context.Background(), config))

	b, err := os.ReadFile(filepath.Join(config.OutputDir, "schema.json"))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "#/definitions/Circle", decoded["$ref"])
	circle := decoded["definitions"].(map[string]interface{})["Circle"].(map[string]interface{})
	assert.Equal(t, "Circle", circle["title"])
	assert.Equal(t, "A circle.", circle["description"])
}

func TestGen_jsonIndent(t *testing.T) {
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: outputTypes,
		Pretty:      true,
	}

	gen := New()
	gen.jsonIndent = func(doc *document.Document) ([]byte, error) {
		return nil, errors.New("fail")
	}

	assert.Error(t, gen.Build(context.Background(), config))
}

func TestGen_jsonToYAML(t *testing.T) {
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: outputTypes,
	}

	gen := New()
	gen.jsonToYAML = func(data []byte) ([]byte, error) {
		return nil, errors.New("fail")
	}
	assert.Error(t, gen.Build(context.Background(), config))

	_, err := os.Stat(filepath.Join(config.OutputDir, "schema.json"))
	require.NoError(t, err)
}

func TestGen_SearchDirIsNotExist(t *testing.T) {
	config := &Config{
		SearchDir:   "../isNotExistDir",
		OutputDir:   t.TempDir(),
		OutputTypes: outputTypes,
	}

	assert.EqualError(t, New().Build(context.Background(), config), "dir: ../isNotExistDir does not exist")
}

func TestGen_UnknownDialect(t *testing.T) {
	config := &Config{
		SearchDir: searchDir,
		OutputDir: t.TempDir(),
		Dialect:   "draft-04",
	}

	assert.Error(t, New().Build(context.Background(), config))
}

func TestGen_UnknownRoot(t *testing.T) {
	config := &Config{
		SearchDir: searchDir,
		OutputDir: t.TempDir(),
		Roots:     []string{"Hamster"},
	}

	assert.Error(t, New().Build(context.Background(), config))
}

func TestGen_OutputIsNotExist(t *testing.T) {
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   "/dev/null",
		OutputTypes: outputTypes,
	}
	assert.Error(t, New().Build(context.Background(), config))
}

func TestGen_FailToWrite(t *testing.T) {
	outputDir := t.TempDir()
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   outputDir,
		OutputTypes: outputTypes,
	}

	require.NoError(t, os.Mkdir(filepath.Join(outputDir, "schema.yaml"), 0o755))
	assert.Error(t, New().Build(context.Background(), config))

	require.NoError(t, os.RemoveAll(filepath.Join(outputDir, "schema.yaml")))
	require.NoError(t, os.Mkdir(filepath.Join(outputDir, IndexFile), 0o755))
	assert.Error(t, New().Build(context.Background(), config))
}

func TestGen_parseOverrides(t *testing.T) {
	testCases := []struct {
		Name          string
		Data          string
		Expected      map[string]string
		ExpectedError error
	}{
		{
			Name: "replace",
			Data: `replace github.com/foo/bar.Money string`,
			Expected: map[string]string{
				"github.com/foo/bar.Money": "string",
			},
		},
		{
			Name: "skip",
			Data: `skip github.com/foo/bar.Secret`,
			Expected: map[string]string{
				"github.com/foo/bar.Secret": "",
			},
		},
		{
			Name: "generic-simple",
			Data: `replace types.Field[string] string`,
			Expected: map[string]string{
				"types.Field[string]": "string",
			},
		},
		{
			Name: "generic-double",
			Data: `replace types.Field[string,string] string`,
			Expected: map[string]string{
				"types.Field[string,string]": "string",
			},
		},
		{
			Name: "comment",
			Data: `// this is a comment
			replace foo bar`,
			Expected: map[string]string{
				"foo": "bar",
			},
		},
		{
			Name: "ignore whitespace",
			Data: `

			replace foo bar`,
			Expected: map[string]string{
				"foo": "bar",
			},
		},
		{
			Name:          "unknown directive",
			Data:          `foo`,
			ExpectedError: fmt.Errorf("could not parse override: 'foo'"),
		},
		{
			Name:          "replace without target",
			Data:          `skip foo bar`,
			ExpectedError: fmt.Errorf("could not parse override: 'skip foo bar'"),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			overrides, err := parseOverrides(strings.NewReader(tc.Data))
			assert.Equal(t, tc.Expected, overrides)
			assert.Equal(t, tc.ExpectedError, err)
		})
	}
}

func TestGen_TypeOverridesFile(t *testing.T) {
	customPath := "/foo/bar/baz"

	overridesFile := func(t *testing.T) *os.File {
		t.Helper()
		path := filepath.Join(t.TempDir(), "overrides")
		require.NoError(t, os.WriteFile(path, []byte("replace time.Time string\n"), 0o644))
		f, err := os.Open(path)
		require.NoError(t, err)
		return f
	}

	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: []string{"json"},
	}

	t.Run("Default file is missing", func(t *testing.T) {
		open = func(path string) (*os.File, error) {
			assert.Equal(t, DefaultOverridesFile, path)

			return nil, os.ErrNotExist
		}
		defer func() {
			open = os.Open
		}()

		config.OverridesFile = DefaultOverridesFile
		err := New().Build(context.Background(), config)
		assert.NoError(t, err)
	})

	t.Run("Default file is present", func(t *testing.T) {
		tmp := overridesFile(t)
		open = func(path string) (*os.File, error) {
			assert.Equal(t, DefaultOverridesFile, path)

			return tmp, nil
		}
		defer func() {
			open = os.Open
		}()

		config.OverridesFile = DefaultOverridesFile
		err := New().Build(context.Background(), config)
		assert.NoError(t, err)
	})

	t.Run("Different file is missing", func(t *testing.T) {
		open = func(path string) (*os.File, error) {
			assert.Equal(t, customPath, path)

			return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
		}
		defer func() {
			open = os.Open
		}()

		config.OverridesFile = customPath
		err := New().Build(context.Background(), config)
		assert.EqualError(t, err, "could not open overrides file: open /foo/bar/baz: file does not exist")
	})

	t.Run("Different file is present", func(t *testing.T) {
		tmp := overridesFile(t)
		open = func(path string) (*os.File, error) {
			assert.Equal(t, customPath, path)

			return tmp, nil
		}
		defer func() {
			open = os.Open
		}()

		config.OverridesFile = customPath
		config.Roots = []string{"Pet"}
		require.NoError(t, New().Build(context.Background(), config))

		b, err := os.ReadFile(filepath.Join(config.OutputDir, "schema.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(b), `"format":"date-time"`)
	})
}

func TestGen_Debugger(t *testing.T) {
	var buf bytes.Buffer
	config := &Config{
		SearchDir:   searchDir,
		OutputDir:   t.TempDir(),
		OutputTypes: outputTypes,
		Debugger:    log.New(&buf, "", log.LstdFlags),
	}
	assert.True(t, buf.Len() == 0)
	assert.NoError(t, New().Build(context.Background(), config))
	assert.True(t, buf.Len() > 0)
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{}, parseList(""))
	assert.Equal(t, []string{"a", "b"}, parseList(" a, ,b ,"))
	assert.Equal(t, map[string]struct{}{"vendor": {}, "docs": {}}, parseExcludes("vendor,docs"))
	assert.Equal(t, []string{"github.com/foo"}, parsePackagePrefix("github.com/foo"))
}
