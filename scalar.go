package nestconf

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrNoDirective is returned by scalar accessors called on a nil lookup
// result.
var ErrNoDirective = errors.New("no such directive")

// Str returns the directive's single parameter. It fails when the
// directive does not carry exactly one parameter.
func (d *Directive) Str() (string, error) {
	if d == nil {
		return "", ErrNoDirective
	}
	if len(d.Params) != 1 {
		return "", fmt.Errorf("directive %q on line %d: want exactly 1 value, have %d", d.Name, d.Line, len(d.Params))
	}
	return d.Params[0], nil
}

// Int parses the single parameter as a signed integer. Go literal syntax
// applies: optional sign, 0x/0o/0b prefixes, and digit-group underscores
// (10_000 is valid).
func (d *Directive) Int() (int64, error) {
	s, err := d.Str()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("directive %q on line %d: invalid integer %q: %w", d.Name, d.Line, s, err)
	}
	return n, nil
}

// Uint parses the single parameter as an unsigned integer.
func (d *Directive) Uint() (uint64, error) {
	s, err := d.Str()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("directive %q on line %d: invalid unsigned integer %q: %w", d.Name, d.Line, s, err)
	}
	return n, nil
}

// Float parses the single parameter as a float.
func (d *Directive) Float() (float64, error) {
	s, err := d.Str()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("directive %q on line %d: invalid float %q: %w", d.Name, d.Line, s, err)
	}
	return f, nil
}
