// Package nestconf parses line-oriented, nginx-style configuration text:
// one directive per line with positional parameters, '#' comments, single
// and double quoting with backslash escapes, and brace-delimited nesting.
//
// A document can be consumed two ways. Streaming mode pulls Start/End
// events one at a time from a Scanner, optionally filtered through a
// Resolver that expands variable declarations of the form
//
//	$name = value...
//	$name = {
//	    nested directives
//	}
//
// Tree mode assembles the events into an ordered tree of Directive nodes:
//
//	block, err := nestconf.ParseString("listen 80")
//
// Format renders a tree in canonical form (every word double-quoted,
// 4-space indentation, comments stripped), which round-trips through Parse.
package nestconf
