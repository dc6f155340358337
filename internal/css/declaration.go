// Package css is the host side of the stylesheet build: it dispatches class
// tokens to registered resolvers, applies variant selectors, and renders the
// resulting rules deterministically.
package css

import "strings"

// Property is a single `name: value` pair.
type Property struct {
	Name  string
	Value string
}

// Declaration is an ordered block of properties. Order is preserved when
// rendering so identical input always renders identical bytes.
type Declaration []Property

// Get returns the value of the first property called name.
func (d Declaration) Get(name string) (string, bool) {
	for _, p := range d {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Resolver turns a class token into a declaration. It returns ok=false to
// decline a token it does not own; declining is never an error. A non-nil
// error aborts the build.
type Resolver interface {
	TryResolve(token string) (Declaration, bool, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(token string) (Declaration, bool, error)

// TryResolve implements Resolver.
func (f ResolverFunc) TryResolve(token string) (Declaration, bool, error) {
	return f(token)
}

// Rule is a selector list with its declaration block.
type Rule struct {
	Selectors   []string
	Declaration Declaration
}

func (r Rule) render(b *strings.Builder) {
	b.WriteString(strings.Join(r.Selectors, ",\n"))
	b.WriteString(" {\n")
	for _, p := range r.Declaration {
		b.WriteString("  ")
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
}

// EscapeClass escapes a class name for use in a selector.
func EscapeClass(class string) string {
	var b strings.Builder
	for i, r := range class {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r >= 0x80:
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteString(`\3`)
				b.WriteRune(r)
				b.WriteByte(' ')
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
