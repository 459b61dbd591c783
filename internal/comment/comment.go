// Package comment parses documentation comment text into a description and
// structured @tags.
package comment

import (
	"regexp"
	"strings"

	"github.com/griffnb/core-jsonschema/internal/domain"
)

// Recognized tag names. Any other tag is preserved under its literal name.
const (
	TagDeprecated = "deprecated"
	TagExample    = "example"
	TagDefault    = "default"
	TagTitle      = "title"
	TagFormat     = "format"
	TagName       = "name"
	TagWarning    = "warning"
)

var (
	tagLineRegex     = regexp.MustCompile(`^@([A-Za-z][\w.-]*)(?:\s+(.*))?$`)
	deprecatedPrefix = regexp.MustCompile(`^Deprecated:\s*(.*)$`)
)

// DocComment a parsed comment. Immutable once returned by Parse.
type DocComment struct {
	Description string
	// Tags tag name to bodies in the order they appear
	Tags map[string][]string
	// Order tag names in first-appearance order
	Order    []string
	Warnings []*domain.MalformedCommentWarning
}

// Has reports whether tag appears at least once.
func (d DocComment) Has(tag string) bool {
	_, ok := d.Tags[tag]
	return ok
}

// First returns the first body of tag.
func (d DocComment) First(tag string) (string, bool) {
	bodies, ok := d.Tags[tag]
	if !ok || len(bodies) == 0 {
		return "", false
	}
	return bodies[0], true
}

// IsEmpty reports whether the comment carries nothing.
func (d DocComment) IsEmpty() bool {
	return d.Description == "" && len(d.Tags) == 0
}

// Parse splits raw comment text. Comment markers (//, /* */, leading *) are
// stripped, so both go/ast text and raw source comments are accepted.
func Parse(raw string) DocComment {
	doc := DocComment{Tags: make(map[string][]string)}

	var (
		description []string
		currentTag  string
		body        []string
	)

	flush := func() {
		if currentTag == "" {
			return
		}
		if _, seen := doc.Tags[currentTag]; !seen {
			doc.Order = append(doc.Order, currentTag)
		}
		doc.Tags[currentTag] = append(doc.Tags[currentTag], strings.TrimSpace(strings.Join(body, "\n")))
		currentTag = ""
		body = nil
	}

	for _, line := range normalize(raw) {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			if len(description) > 0 && description[len(description)-1] != "" {
				description = append(description, "")
			}
			continue
		}

		if m := deprecatedPrefix.FindStringSubmatch(trimmed); m != nil {
			flush()
			currentTag = TagDeprecated
			body = []string{m[1]}
			continue
		}

		if strings.HasPrefix(trimmed, "@") {
			flush()
			m := tagLineRegex.FindStringSubmatch(trimmed)
			if m == nil {
				doc.Warnings = append(doc.Warnings, &domain.MalformedCommentWarning{
					Line:   trimmed,
					Reason: "tag marker must be followed by a name starting with a letter",
				})
				description = append(description, trimmed)
				continue
			}
			currentTag = m[1]
			body = []string{m[2]}
			continue
		}

		if currentTag != "" {
			body = append(body, trimmed)
			continue
		}

		description = append(description, trimmed)
	}
	flush()

	doc.Description = joinDescription(description)
	if len(doc.Tags) == 0 {
		doc.Tags = nil
	}

	return doc
}

// joinDescription joins lines of one paragraph with a space and keeps
// paragraph breaks.
func joinDescription(lines []string) string {
	var (
		paragraphs []string
		current    []string
	)
	for _, line := range lines {
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

// normalize strips comment markers and splits text into lines.
func normalize(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(t, "//"):
			t = strings.TrimPrefix(t, "//")
		case strings.HasPrefix(t, "/**"):
			t = strings.TrimPrefix(t, "/**")
		case strings.HasPrefix(t, "/*"):
			t = strings.TrimPrefix(t, "/*")
		case strings.HasPrefix(t, "*") && !strings.HasPrefix(t, "*/"):
			t = strings.TrimPrefix(t, "*")
		}
		t = strings.TrimSuffix(strings.TrimSpace(t), "*/")
		out = append(out, t)
	}
	return out
}
