package report

import "strings"

// MissingKeyPrefix starts the message rendered for a key that has no
// dictionary entry.
const MissingKeyPrefix = "(missing message key in dictionary: "

// MissingKeyMessage returns the message rendered for an unregistered key.
func MissingKeyMessage(key string) string {
	return MissingKeyPrefix + key + ")"
}

// FormatTemplate substitutes every ${name} in template using lookup.
// Unresolved placeholders and an unterminated "${" are copied verbatim.
func FormatTemplate(template string, lookup func(name string) (TypedValue, bool)) string {
	if !strings.Contains(template, "${") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 2
		b.WriteString(rest[:start])
		name := rest[start+2 : end]
		if v, ok := lookup(name); ok {
			b.WriteString(v.String())
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	return b.String()
}

// Placeholders returns the distinct placeholder names of template in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]struct{})
	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			return names
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			return names
		}
		name := rest[start+2 : start+2+end]
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		rest = rest[start+2+end+1:]
	}
}
