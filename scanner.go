package nestconf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxNesting caps block depth to guard against pathological inputs.
const maxNesting = 1000

// Scanner reads a document line by line and produces its event stream.
// It is a lazy, single-pass source: lines are read only as events are
// pulled. Next returns io.EOF at exhaustion; a Scanner must not be reused
// after that or after any error.
type Scanner struct {
	r    *bufio.Reader
	line int
	open int

	// queue holds events from the current line not yet handed out.
	queue []Event

	eof bool
	err error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next returns the next event in the stream.
func (s *Scanner) Next() (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}

	for len(s.queue) == 0 {
		if s.eof {
			return Event{}, s.finish()
		}

		text, err := s.r.ReadString('\n')
		if err != nil && err != io.EOF {
			s.err = fmt.Errorf("read line %d: %w", s.line+1, err)
			return Event{}, s.err
		}
		if err == io.EOF {
			s.eof = true
			if text == "" {
				return Event{}, s.finish()
			}
		}
		s.line++

		line := strings.TrimSuffix(text, "\n")
		line = strings.TrimSuffix(line, "\r")

		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed[0] == '#' {
			continue
		}

		evs, err := s.scanLine(line)
		if err != nil {
			s.err = err
			return Event{}, err
		}
		s.queue = evs
	}

	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, nil
}

// scanLine turns one non-blank, non-comment line into events. A directive
// may open a block at end of line, or open and close one inline as long
// as the braces pair up on that same line. A close-brace that closes a
// block from an earlier line must be the line's only content, and nothing
// but further same-line closes may follow any close-brace.
func (s *Scanner) scanLine(line string) ([]Event, error) {
	lx := &lineLexer{src: line, line: s.line}
	var evs []Event
	sameOpens := 0
	seen := false
	closing := false

	for {
		words, brace, err := lx.words()
		if err != nil {
			return nil, err
		}
		if closing && (len(words) > 0 || brace == '{') {
			return nil, errAt(s.line, lx.i, `expected newline after "}"`)
		}

		switch brace {
		case 0:
			if len(words) > 0 {
				evs = append(evs, startEvent(words, false, s.line), Event{Kind: EventEnd, Line: s.line})
			}
			return evs, nil

		case '{':
			lx.consumeBrace()
			if len(words) == 0 {
				return nil, errAt(s.line, lx.i, `unexpected "{" without a directive`)
			}
			s.open++
			if s.open > maxNesting {
				return nil, errAt(s.line, 0, "nesting deeper than %d blocks", maxNesting)
			}
			sameOpens++
			seen = true
			evs = append(evs, startEvent(words, true, s.line))

		case '}':
			lx.consumeBrace()
			if len(words) > 0 {
				// Trailing inline directive before the close.
				if sameOpens == 0 {
					return nil, errAt(s.line, lx.i, `"}" must be alone on its line`)
				}
				evs = append(evs, startEvent(words, false, s.line), Event{Kind: EventEnd, Line: s.line})
			} else if seen && sameOpens == 0 {
				return nil, errAt(s.line, lx.i, `"}" must be alone on its line`)
			}
			if s.open == 0 {
				return nil, errAt(s.line, lx.i, `unexpected "}" with no open block`)
			}
			s.open--
			if sameOpens > 0 {
				sameOpens--
			}
			seen = true
			closing = true
			evs = append(evs, Event{Kind: EventEnd, HasBlock: true, Line: s.line})
		}
	}
}

func startEvent(words []string, hasBlock bool, line int) Event {
	return Event{
		Kind:     EventStart,
		Name:     words[0],
		Params:   words[1:],
		HasBlock: hasBlock,
		Line:     line,
	}
}

// finish reports stream exhaustion, failing when a block is still open.
func (s *Scanner) finish() error {
	if s.open > 0 {
		s.err = errAt(s.line, 0, "unclosed block at end of input")
	} else {
		s.err = io.EOF
	}
	return s.err
}
