package schema

import (
	"sort"
	"strings"
	"unicode"

	"github.com/go-openapi/spec"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title turns a definition name into words: "HTTPServerConfig" → "HTTP Server Config",
// "Box_int" → "Box Int".
func Title(name string) string {
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(splitWords(name))
}

func splitWords(in string) string {
	var (
		runes  = []rune(in)
		length = len(runes)
		out    []rune
	)

	for idx := 0; idx < length; idx++ {
		r := runes[idx]
		if r == '_' || r == '-' || r == '.' {
			if len(out) > 0 && out[len(out)-1] != ' ' {
				out = append(out, ' ')
			}
			continue
		}
		if idx > 0 && unicode.IsUpper(r) && len(out) > 0 && out[len(out)-1] != ' ' &&
			((idx+1 < length && unicode.IsLower(runes[idx+1])) || unicode.IsLower(runes[idx-1]) || unicode.IsDigit(runes[idx-1])) {
			out = append(out, ' ')
		}
		out = append(out, r)
	}

	return strings.TrimSpace(string(out))
}

func sortedKeys(properties spec.SchemaProperties) []string {
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
