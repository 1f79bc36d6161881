package nestconf

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

func varTree(t *testing.T, in string) Block {
	t.Helper()
	b, err := ParseWithOptions([]byte(in), Options{ExpandVariables: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return b
}

func varErr(t *testing.T, in string) error {
	t.Helper()
	_, err := ParseWithOptions([]byte(in), Options{ExpandVariables: true})
	if err == nil {
		t.Fatalf("no error for %q", in)
	}
	return err
}

func TestResolverSimpleVariable(t *testing.T) {
	b := varTree(t, "$x = a b\nuse $x\n")
	if len(b) != 1 {
		t.Fatalf("declaration leaked: %#v", b)
	}
	d := b[0]
	if d.Name != "use" || !slices.Equal(d.Params, []string{"a", "b"}) {
		t.Fatalf("directive: %#v", d)
	}
}

func TestResolverSpliceKeepsOrder(t *testing.T) {
	b := varTree(t, "$mid = two three\nlist one $mid four\n")
	want := []string{"one", "two", "three", "four"}
	if !slices.Equal(b[0].Params, want) {
		t.Fatalf("params %q, want %q", b[0].Params, want)
	}
}

func TestResolverUnknownReferencePassesThrough(t *testing.T) {
	b := varTree(t, "use $undeclared\n")
	if !slices.Equal(b[0].Params, []string{"$undeclared"}) {
		t.Fatalf("params: %q", b[0].Params)
	}
}

func TestResolverRedeclarationOverwrites(t *testing.T) {
	b := varTree(t, "$x = old\n$x = new\nuse $x\n")
	if !slices.Equal(b[0].Params, []string{"new"}) {
		t.Fatalf("params: %q", b[0].Params)
	}
}

func TestResolverChainedSimpleVariables(t *testing.T) {
	// Resolution is lazy: $outer can reference $inner declared later.
	b := varTree(t, "$outer = $inner\n$inner = deep\nuse $outer\n")
	if !slices.Equal(b[0].Params, []string{"deep"}) {
		t.Fatalf("params: %q", b[0].Params)
	}
}

func TestResolverDeclarationWithoutValue(t *testing.T) {
	err := varErr(t, "$x =\n")
	if !strings.Contains(err.Error(), "no value") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverBlockVariable(t *testing.T) {
	in := `$blk = {
    inner 1
    nested {
        leaf 2
    }
}
use $blk
`
	b := varTree(t, in)
	if len(b) != 1 {
		t.Fatalf("roots: %#v", b)
	}
	d := b[0]
	if d.Name != "use" || !d.HasBlock || len(d.Params) != 0 {
		t.Fatalf("directive: %#v", d)
	}
	if len(d.Children) != 2 {
		t.Fatalf("children: %#v", d.Children)
	}
	if n, err := d.Get("inner").Int(); err != nil || n != 1 {
		t.Fatalf("inner: %d, %v", n, err)
	}
	if n, err := d.Get("nested").Get("leaf").Int(); err != nil || n != 2 {
		t.Fatalf("leaf: %d, %v", n, err)
	}
}

func TestResolverBlockVariableReusable(t *testing.T) {
	in := "$blk = {\n    v 1\n}\nfirst $blk\nsecond $blk\n"
	b := varTree(t, in)
	if len(b) != 2 {
		t.Fatalf("roots: %#v", b)
	}
	for _, d := range b {
		if n, err := d.Get("v").Int(); err != nil || n != 1 {
			t.Fatalf("%s: %d, %v", d.Name, n, err)
		}
	}
}

func TestResolverLeadingSimpleThenBlock(t *testing.T) {
	in := "$v = x\n$blk = {\n    inner 1\n}\nuse a $v $blk\n"
	b := varTree(t, in)
	d := b[0]
	if !slices.Equal(d.Params, []string{"a", "x"}) {
		t.Fatalf("params: %q", d.Params)
	}
	if !d.HasBlock || len(d.Children) != 1 {
		t.Fatalf("directive: %#v", d)
	}
}

func TestResolverBlockVariableIntoOwnBlock(t *testing.T) {
	// A directive with its own block keeps its children after the splice.
	in := "$blk = {\n    injected 1\n}\nhost example $blk {\n    own 2\n}\n"
	b := varTree(t, in)
	d := b[0]
	if d.Name != "host" || !slices.Equal(d.Params, []string{"example"}) {
		t.Fatalf("directive: %#v", d)
	}
	if len(d.Children) != 2 {
		t.Fatalf("children: %#v", d.Children)
	}
	if d.Children[0].Name != "injected" || d.Children[1].Name != "own" {
		t.Fatalf("children order: %q %q", d.Children[0].Name, d.Children[1].Name)
	}
}

func TestResolverNestedBlockReference(t *testing.T) {
	in := `$inner = {
    leaf 1
}
$outer = {
    mid $inner
}
use $outer
`
	b := varTree(t, in)
	if n, err := b[0].Get("mid").Get("leaf").Int(); err != nil || n != 1 {
		t.Fatalf("leaf: %d, %v", n, err)
	}
}

func TestResolverBlockVariableMustBeLast(t *testing.T) {
	err := varErr(t, "$blk = {\n    v 1\n}\nuse $blk tail\n")
	if !strings.Contains(err.Error(), "last parameter") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverSingleBlockVariablePerDirective(t *testing.T) {
	err := varErr(t, "$a = {\n    v 1\n}\n$b = {\n    w 2\n}\nuse $a $b\n")
	if !strings.Contains(err.Error(), "only one block variable") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverBlockDeclarationWithParams(t *testing.T) {
	err := varErr(t, "$blk = extra {\n    v 1\n}\n")
	if !strings.Contains(err.Error(), "must not have params") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverSelfReferenceCycle(t *testing.T) {
	err := varErr(t, "$a = $a\nuse $a\n")
	if !strings.Contains(err.Error(), "circular reference") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverMutualCycle(t *testing.T) {
	err := varErr(t, "$a = $b\n$b = $a\nuse $a\n")
	if !strings.Contains(err.Error(), "circular reference") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverBlockCycle(t *testing.T) {
	err := varErr(t, "$a = {\n    use $a\n}\ngo $a\n")
	if !strings.Contains(err.Error(), "circular reference") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverExpansionDepthCap(t *testing.T) {
	// A long non-cyclic chain of distinct variables: every identifier is
	// expanded at most once, so only the depth cap can stop it.
	var sb strings.Builder
	for i := 1; i <= maxExpansion+1; i++ {
		fmt.Fprintf(&sb, "$v%d = $v%d\n", i, i+1)
	}
	sb.WriteString("use $v1\n")

	err := varErr(t, sb.String())
	if strings.Contains(err.Error(), "circular") {
		t.Fatalf("chain misreported as cycle: %v", err)
	}
	if !strings.Contains(err.Error(), "expansion deeper than") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverDeclarationInsideBlock(t *testing.T) {
	in := "server {\n    $port = 8080\n    listen $port\n}\n"
	b := varTree(t, in)
	if n, err := b.Get("server").Get("listen").Int(); err != nil || n != 8080 {
		t.Fatalf("listen: %d, %v", n, err)
	}
}

func TestResolverSpliceDoesNotRedeclare(t *testing.T) {
	// Capture is verbatim; a declaration-shaped directive inside a block
	// body is forwarded literally on splice.
	in := "$blk = {\n    $x = 1\n}\nuse $blk\n"
	b := varTree(t, in)
	d := b[0].Get("$x")
	if d == nil || !slices.Equal(d.Params, []string{"=", "1"}) {
		t.Fatalf("spliced body: %#v", b[0].Children)
	}
}

func TestResolverStreamingEvents(t *testing.T) {
	in := "$x = a b\nuse $x\n"
	src := Events(strings.NewReader(in), Options{ExpandVariables: true})
	evs := collectEvents(t, src)
	if len(evs) != 2 {
		t.Fatalf("events: %#v", evs)
	}
	if evs[0].Kind != EventStart || !slices.Equal(evs[0].Params, []string{"a", "b"}) {
		t.Fatalf("start: %#v", evs[0])
	}
	if evs[1].Kind != EventEnd || evs[1].HasBlock {
		t.Fatalf("end: %#v", evs[1])
	}
}

func TestResolverBlockSpliceEventPairing(t *testing.T) {
	in := "$blk = {\n    v 1\n}\nuse $blk\n"
	src := Events(strings.NewReader(in), Options{ExpandVariables: true})
	evs := collectEvents(t, src)

	depth := 0
	for i, ev := range evs {
		switch ev.Kind {
		case EventStart:
			if ev.HasBlock {
				depth++
			}
		case EventEnd:
			if ev.HasBlock {
				depth--
			}
		}
		if depth < 0 {
			t.Fatalf("unbalanced at event %d: %#v", i, evs)
		}
	}
	if depth != 0 {
		t.Fatalf("unbalanced stream: %#v", evs)
	}
	// Exactly one Start/End per directive: use, v.
	if len(evs) != 4 {
		t.Fatalf("got %d events: %#v", len(evs), evs)
	}
}

func TestResolverPredicateMatchWithoutParams(t *testing.T) {
	// A predicate matching a bare directive has no separator to drop; the
	// declaration is rejected rather than stored empty.
	_, err := ParseWithOptions([]byte("$flag\n"), Options{
		ExpandVariables: true,
		IsDeclaration: func(name string, params []string) bool {
			return strings.HasPrefix(name, "$")
		},
	})
	if err == nil {
		t.Fatal("no error for declaration without separator")
	}
	if !strings.Contains(err.Error(), "no value") {
		t.Fatalf("error: %v", err)
	}
}

func TestResolverCustomDeclarationPredicate(t *testing.T) {
	// Declarations use := instead of =.
	in := "$port := 8080\nlisten $port\n$odd = 1\n"
	b, err := ParseWithOptions([]byte(in), Options{
		ExpandVariables: true,
		IsDeclaration: func(name string, params []string) bool {
			return len(params) > 0 && params[0] == ":="
		},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(b) != 2 {
		t.Fatalf("tree: %#v", b)
	}
	if !slices.Equal(b[0].Params, []string{"8080"}) {
		t.Fatalf("listen: %#v", b[0])
	}
	// The default "=" shape is ordinary content under a custom predicate.
	if b[1].Name != "$odd" || !slices.Equal(b[1].Params, []string{"=", "1"}) {
		t.Fatalf("odd: %#v", b[1])
	}
}
