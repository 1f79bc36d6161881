package nestconf

import (
	"io"
	"slices"
)

// maxExpansion caps recursive variable expansion depth.
const maxExpansion = 1000

// DefaultIsDeclaration reports whether a Start event declares a variable:
// its first parameter is the literal "=", as in `$timeout = 30`.
func DefaultIsDeclaration(name string, params []string) bool {
	return len(params) > 0 && params[0] == "="
}

type varKind int

const (
	varSimple varKind = iota
	varBlock
)

// variable is one stored substitution. Simple variables hold a parameter
// list; block variables hold the captured inner event sequence of their
// declaration, outer Start/End excluded. Definitions are created on
// declaration and only looked up afterwards; redeclaration overwrites.
type variable struct {
	kind   varKind
	params []string
	events []Event
	line   int
}

// Resolver filters an event stream: it records variable declarations,
// removes them from the stream, and rewrites references in subsequent
// events, re-emitting a variable-free stream. A parameter is a reference
// iff it exactly matches a stored identifier; parameters matching nothing
// pass through literally.
//
// Resolver implements EventSource and is single-pass like its input. One
// input event may become zero output events (a declaration) or many (a
// spliced block variable).
type Resolver struct {
	src    EventSource
	isDecl func(name string, params []string) bool
	vars   map[string]variable

	// queue holds resolved events not yet handed out.
	queue []Event

	// Block-declaration capture state.
	capturing bool
	capName   string
	capLine   int
	capDepth  int
	capBuf    []Event

	// swallowEnd drops the next blockless End from the source: either the
	// End of a simple declaration, or the End of a blockless directive
	// that a block splice already closed.
	swallowEnd bool

	err error
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDeclarationPredicate overrides how declaration directives are
// recognized. A matching directive's first parameter is treated as the
// declaration separator and discarded: the remaining parameters (or the
// block body) form the stored value. Predicates must therefore only match
// shapes whose first parameter is the separator token, the way
// DefaultIsDeclaration matches "=". A match without any parameters is
// rejected.
func WithDeclarationPredicate(fn func(name string, params []string) bool) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.isDecl = fn
		}
	}
}

// NewResolver returns a Resolver filtering src.
func NewResolver(src EventSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:    src,
		isDecl: DefaultIsDeclaration,
		vars:   make(map[string]variable),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next resolved event.
func (r *Resolver) Next() (Event, error) {
	if r.err != nil {
		return Event{}, r.err
	}
	for {
		if len(r.queue) > 0 {
			ev := r.queue[0]
			r.queue = r.queue[1:]
			return ev, nil
		}

		ev, err := r.src.Next()
		if err == io.EOF {
			// The scanner guarantees balanced blocks, so capture cannot
			// be live here unless the source misbehaved.
			if r.capturing {
				r.err = errAt(r.capLine, 0, "unclosed block variable %q", r.capName)
			} else {
				r.err = io.EOF
			}
			return Event{}, r.err
		}
		if err != nil {
			r.err = err
			return Event{}, err
		}
		if err := r.process(ev); err != nil {
			r.err = err
			return Event{}, err
		}
	}
}

func (r *Resolver) process(ev Event) error {
	if r.capturing {
		r.capture(ev)
		return nil
	}

	if ev.Kind == EventEnd {
		if r.swallowEnd && !ev.HasBlock {
			r.swallowEnd = false
			return nil
		}
		r.swallowEnd = false
		r.queue = append(r.queue, ev)
		return nil
	}

	if r.isDecl(ev.Name, ev.Params) {
		return r.declare(ev)
	}

	spliced, err := r.resolveStart(ev, nil)
	if err != nil {
		return err
	}
	r.swallowEnd = spliced
	return nil
}

// capture buffers one event of a block declaration's body, tracking
// nesting until the declaration's own block closes.
func (r *Resolver) capture(ev Event) {
	if ev.HasBlock {
		switch ev.Kind {
		case EventStart:
			r.capDepth++
		case EventEnd:
			r.capDepth--
			if r.capDepth == 0 {
				// The closing End of the declaration itself is excluded
				// from the stored body.
				r.vars[r.capName] = variable{kind: varBlock, events: r.capBuf, line: r.capLine}
				r.capturing = false
				r.capBuf = nil
				return
			}
		}
	}
	r.capBuf = append(r.capBuf, ev)
}

// declare records a declaration and suppresses it downstream.
func (r *Resolver) declare(ev Event) error {
	if ev.HasBlock {
		if len(ev.Params) != 1 {
			return errAt(ev.Line, 0, "block variable %q must not have params", ev.Name)
		}
		r.capturing = true
		r.capName = ev.Name
		r.capLine = ev.Line
		r.capDepth = 1
		return nil
	}

	// Params[0] is the separator the predicate matched on.
	if len(ev.Params) < 2 {
		return errAt(ev.Line, 0, "variable %q has no value", ev.Name)
	}
	r.vars[ev.Name] = variable{kind: varSimple, params: slices.Clone(ev.Params[1:]), line: ev.Line}
	// Drop the declaration's own End as well.
	r.swallowEnd = true
	return nil
}

// resolveStart rewrites one Start event and appends the result to the
// output queue. stack holds the identifiers currently being expanded, for
// cycle detection. The returned bool reports that a block variable was
// spliced into a blockless directive, whose own End the caller must drop.
func (r *Resolver) resolveStart(ev Event, stack []string) (bool, error) {
	hasRef := false
	for _, p := range ev.Params {
		if _, ok := r.vars[p]; ok {
			hasRef = true
			break
		}
	}
	if !hasRef {
		r.queue = append(r.queue, ev)
		return false, nil
	}

	if len(stack) >= maxExpansion {
		return false, errAt(ev.Line, 0, "variable expansion deeper than %d", maxExpansion)
	}

	// Validate placement before expanding anything.
	blockIdx := -1
	for i, p := range ev.Params {
		v, ok := r.vars[p]
		if !ok {
			continue
		}
		if slices.Contains(stack, p) {
			return false, errAt(ev.Line, 0, "circular reference to variable %q", p)
		}
		if v.kind == varBlock {
			if blockIdx >= 0 {
				return false, errAt(ev.Line, 0, "only one block variable allowed per directive")
			}
			blockIdx = i
		}
	}
	if blockIdx >= 0 && blockIdx != len(ev.Params)-1 {
		return false, errAt(ev.Line, 0, "block variable %q must be the last parameter", ev.Params[blockIdx])
	}

	leading := ev.Params
	if blockIdx >= 0 {
		leading = ev.Params[:blockIdx]
	}
	params := make([]string, 0, len(leading))
	for _, p := range leading {
		v, ok := r.vars[p]
		if !ok {
			params = append(params, p)
			continue
		}
		exp, err := r.expandSimple(v, append(stack, p), ev.Line)
		if err != nil {
			return false, err
		}
		params = append(params, exp...)
	}

	out := ev
	out.Params = params

	if blockIdx < 0 {
		r.queue = append(r.queue, out)
		return false, nil
	}

	name := ev.Params[blockIdx]
	out.HasBlock = true
	r.queue = append(r.queue, out)

	if err := r.resolveBody(r.vars[name].events, append(stack, name)); err != nil {
		return false, err
	}

	if ev.HasBlock {
		// The directive opened its own block: its children follow in the
		// input and its own End will close it.
		return false, nil
	}
	r.queue = append(r.queue, Event{Kind: EventEnd, HasBlock: true, Line: ev.Line})
	return true, nil
}

// resolveBody replays a captured block body through reference resolution.
// Declarations are not re-recognized here: capture stored the body
// verbatim, and a splice only rewrites references.
func (r *Resolver) resolveBody(events []Event, stack []string) error {
	skipEnd := false
	for _, ev := range events {
		if ev.Kind == EventEnd {
			if skipEnd && !ev.HasBlock {
				skipEnd = false
				continue
			}
			skipEnd = false
			r.queue = append(r.queue, ev)
			continue
		}
		spliced, err := r.resolveStart(ev, stack)
		if err != nil {
			return err
		}
		skipEnd = spliced
	}
	return nil
}

// expandSimple flattens a simple variable's stored parameters, resolving
// nested references recursively. stack already contains the variable being
// expanded; it is passed down and never read after return, which keeps the
// expansion set empty between sibling resolutions.
func (r *Resolver) expandSimple(v variable, stack []string, line int) ([]string, error) {
	if len(stack) > maxExpansion {
		return nil, errAt(line, 0, "variable expansion deeper than %d", maxExpansion)
	}
	out := make([]string, 0, len(v.params))
	for _, p := range v.params {
		nv, ok := r.vars[p]
		if !ok {
			out = append(out, p)
			continue
		}
		if slices.Contains(stack, p) {
			return nil, errAt(line, 0, "circular reference to variable %q", p)
		}
		if nv.kind == varBlock {
			return nil, errAt(line, 0, "block variable %q must be the last parameter", p)
		}
		exp, err := r.expandSimple(nv, append(stack, p), line)
		if err != nil {
			return nil, err
		}
		out = append(out, exp...)
	}
	return out, nil
}
