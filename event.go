package nestconf

// EventKind discriminates the two event shapes in a directive stream.
type EventKind int

const (
	// EventStart opens a directive.
	EventStart EventKind = iota
	// EventEnd closes the most recently opened directive.
	EventEnd
)

// Event is one element of the streaming representation of a document.
//
// Start events carry Name, Params, HasBlock and the 1-based source Line.
// End events carry only HasBlock (and the line they were produced on):
// true when closing a braced block, false when closing a blockless
// directive immediately after its Start. Events are produced in pre-order
// and every Start has exactly one matching End.
type Event struct {
	Kind     EventKind
	Name     string
	Params   []string
	HasBlock bool
	Line     int
}

// EventSource is a pull-based, single-pass producer of events. Next
// returns io.EOF once the stream is exhausted. A source is not
// restartable: after io.EOF or any error it must not be used again.
type EventSource interface {
	Next() (Event, error)
}
