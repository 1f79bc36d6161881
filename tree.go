package nestconf

import "io"

// Directive is one parsed configuration entry. Nodes are created by Build
// and never mutated afterwards.
type Directive struct {
	Name     string   `json:"name" yaml:"name"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty"`
	HasBlock bool     `json:"block,omitempty" yaml:"block,omitempty"`
	Line     int      `json:"line" yaml:"line"`
	Children Block    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Block is an ordered sequence of sibling directives. The document root is
// a Block with no wrapping node. Children is empty exactly when a
// directive had no nested directives; HasBlock can still be true for an
// empty block.
type Block []*Directive

// Build consumes src until io.EOF and assembles the directive tree. It
// maintains an explicit stack of open parents, so host call-stack depth is
// independent of nesting depth. Balanced blocks are guaranteed by the
// source; Build adds no validation of its own.
func Build(src EventSource) (Block, error) {
	var root Block
	var stack []*Directive
	for {
		ev, err := src.Next()
		if err == io.EOF {
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case EventStart:
			d := &Directive{
				Name:     ev.Name,
				Params:   ev.Params,
				HasBlock: ev.HasBlock,
				Line:     ev.Line,
			}
			if len(stack) == 0 {
				root = append(root, d)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, d)
			}
			if ev.HasBlock {
				stack = append(stack, d)
			}
		case EventEnd:
			// An End for a blockless directive has no stack effect.
			if ev.HasBlock && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// Get returns the first directive in the block with the given name, or nil
// when absent. Absence is a normal outcome, not an error.
func (b Block) Get(name string) *Directive {
	for _, d := range b {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// GetAll returns all directives in the block with the given name, in
// original order.
func (b Block) GetAll(name string) []*Directive {
	var out []*Directive
	for _, d := range b {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

// Get returns the first immediate child with the given name, or nil. It is
// nil-safe so lookups can be chained.
func (d *Directive) Get(name string) *Directive {
	if d == nil {
		return nil
	}
	return d.Children.Get(name)
}

// GetAll returns all immediate children with the given name.
func (d *Directive) GetAll(name string) []*Directive {
	if d == nil {
		return nil
	}
	return d.Children.GetAll(name)
}
