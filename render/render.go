// Package render is the boundary between the generator and the template
// engine. The generator only needs to look templates up by slash-separated
// name and execute them against a context.
package render

// Template is a parsed template ready to execute.
type Template interface {
	Render(data map[string]any) (string, error)
}

// Loader resolves template names across an ordered list of directories.
type Loader interface {
	Lookup(name string) (Template, error)
}

// IsIdentifier reports whether key can be referenced as a template
// variable: ASCII letters, digits and underscores only.
func IsIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
