package nestconf

import (
	"bytes"
	"io"
	"os"
)

// Options control optional parsing behavior.
type Options struct {
	// ExpandVariables enables the variable-substitution layer.
	ExpandVariables bool
	// IsDeclaration overrides how declaration directives are recognized.
	// Nil means DefaultIsDeclaration. Only used with ExpandVariables.
	IsDeclaration func(name string, params []string) bool
}

// Parse parses a whole document into its root directives.
func Parse(data []byte) (Block, error) {
	return ParseWithOptions(data, Options{})
}

// ParseString parses a whole document held in a string.
func ParseString(s string) (Block, error) {
	return Parse([]byte(s))
}

// ParseWithOptions parses a whole document, optionally expanding
// variables.
func ParseWithOptions(data []byte, opts Options) (Block, error) {
	return Build(Events(bytes.NewReader(Normalize(data)), opts))
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Events returns the streaming view of a document: a Scanner, wrapped in
// a Resolver when opts.ExpandVariables is set.
func Events(r io.Reader, opts Options) EventSource {
	src := EventSource(NewScanner(r))
	if opts.ExpandVariables {
		var ro []ResolverOption
		if opts.IsDeclaration != nil {
			ro = append(ro, WithDeclarationPredicate(opts.IsDeclaration))
		}
		src = NewResolver(src, ro...)
	}
	return src
}
