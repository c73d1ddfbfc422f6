package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// widget is a target recording invocations.
type widget struct {
	calls []string
	table *Table
}

func newWidget() *widget {
	w := &widget{}
	rec := func(name string) func([]string) error {
		return func(args []string) error {
			call := name
			for _, a := range args {
				call += " " + a
			}
			w.calls = append(w.calls, call)
			return nil
		}
	}
	w.table = NewTable(
		Operation{Name: "destroy", Invoke: rec("destroy")},
		Operation{Name: "clone", Invoke: rec("clone")},
		Operation{Name: "moveBy", Params: []string{"dx", "dy"}, Invoke: rec("moveBy")},
		Operation{Name: "setPosition", Params: []string{"x", "y"}, Invoke: rec("setPosition")},
	)
	return w
}

func (w *widget) Operations() []Operation { return w.table.Operations() }

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestMatchActionsTable(t *testing.T) {
	m := NewMatcher()
	w := newWidget()

	tests := []struct {
		text string
		want []string
	}{
		{"destroy", []string{"destroy"}},
		{"Destroy", []string{"destroy"}},
		{"distroy", []string{"destroy", "distroy"}},
		{"xy", []string{"xy"}},
		{"d", []string{"d"}},
		{"clone", []string{"clone"}},
		{"move", []string{"moveBy", "move"}},
		{"position", []string{"setPosition", "position"}},
		{"set pos", []string{"setPosition", "set pos"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := names(m.MatchActions([]string{tt.text}, w))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExactMatchIgnoresLengthRatio(t *testing.T) {
	m := NewMatcher()
	// "setPosition" is more than twice as long as "se" but matches exactly
	// only when the full name is written.
	assert.True(t, m.Accepts("setposition", "setPosition"))
	assert.True(t, m.Accepts("SetPosition", "setPosition"))
	assert.False(t, m.Accepts("se", "setPosition"))
}

func TestMatchActionsOrderAndDedup(t *testing.T) {
	m := NewMatcher()
	w := newWidget()

	got := m.MatchActions([]string{"clone", "distroy", "clone", "Destroy"}, w)
	assert.Equal(t, []string{"clone", "destroy", "distroy"}, names(got))
	assert.Equal(t, KindOperation, got[0].Kind)
	assert.Equal(t, KindLiteral, got[2].Kind)
	assert.True(t, got[2].Literal())
}

func TestMatchActionsParams(t *testing.T) {
	m := NewMatcher()
	w := newWidget()

	got := m.MatchActions([]string{"move"}, w)
	require.NotEmpty(t, got)
	move := got[0]
	assert.Equal(t, "moveBy", move.Name)
	assert.Equal(t, []string{"dx", "dy"}, move.Params)
	assert.Equal(t, "moveBy(dx, dy)", move.Label)
	assert.True(t, move.NeedsParams())

	assert.ErrorIs(t, move.Invoke(), ErrParamsRequired)
	_, err := move.Bind("1")
	assert.ErrorIs(t, err, ErrArity)

	bound, err := move.Bind("3", "4")
	require.NoError(t, err)
	assert.False(t, bound.NeedsParams())
	require.NoError(t, bound.Invoke())
	assert.Equal(t, []string{"moveBy 3 4"}, w.calls)
	assert.True(t, move.NeedsParams(), "Bind must not modify the original")
}

func TestSymbolicShortcuts(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		text  string
		label string
		call  string
	}{
		{"x", "destroy", "destroy"},
		{"X", "destroy", "destroy"},
		{">", "moveBy(10, 0)", "moveBy 10 0"},
		{"<", "moveBy(-10, 0)", "moveBy -10 0"},
		{"^", "moveBy(0, -10)", "moveBy 0 -10"},
		{"/", "moveBy(10, -10)", "moveBy 10 -10"},
		{"\\", "moveBy(10, 10)", "moveBy 10 10"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			w := newWidget()
			got := m.MatchActions([]string{tt.text}, w)
			require.Len(t, got, 2)
			assert.Equal(t, KindSymbol, got[0].Kind)
			assert.Equal(t, tt.label, got[0].Label)
			assert.True(t, got[1].Literal())

			require.NoError(t, got[0].Invoke())
			assert.Equal(t, []string{tt.call}, w.calls)
		})
	}

	noSymbols := NewMatcher(WithSymbols(false))
	assert.Equal(t, []string{"x"}, names(noSymbols.MatchActions([]string{"x"}, newWidget())))
}

func TestSymbolNeedsOperation(t *testing.T) {
	m := NewMatcher()
	bare := NewTable(Operation{Name: "clone", Invoke: func([]string) error { return nil }})
	assert.Equal(t, []string{">"}, names(m.MatchActions([]string{">"}, bare)))
}

func TestMaxDistanceOption(t *testing.T) {
	w := newWidget()
	strict := NewMatcher(WithMaxDistance(1))
	assert.Equal(t, []string{"distroy"}, names(strict.MatchActions([]string{"distroy"}, w)))

	loose := NewMatcher(WithMaxDistance(3))
	assert.Contains(t, names(loose.MatchActions([]string{"dastrey"}, w)), "destroy")
}

func TestLiteralInvokesCallExpression(t *testing.T) {
	m := NewMatcher()
	w := newWidget()

	got := m.MatchActions([]string{"setPosition(5, 6)"}, w)
	lit := got[len(got)-1]
	require.True(t, lit.Literal())
	require.NoError(t, lit.Invoke())
	assert.Equal(t, []string{"setPosition 5 6"}, w.calls)

	unknown := m.MatchActions([]string{"explode"}, w)
	err := unknown[len(unknown)-1].Invoke()
	assert.ErrorIs(t, err, ErrInvocation)
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestInvocationFailure(t *testing.T) {
	boom := errors.New("widget is locked")
	tbl := NewTable(
		Operation{Name: "destroy", Invoke: func([]string) error { return boom }},
		Operation{Name: "clone", Invoke: func([]string) error { panic("nil widget") }},
	)
	m := NewMatcher()

	err := m.MatchActions([]string{"destroy"}, tbl)[0].Invoke()
	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "destroy", ie.Op)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrInvocation)

	err = m.MatchActions([]string{"clone"}, tbl)[0].Invoke()
	assert.ErrorIs(t, err, ErrInvocation)
}

func TestNilTargetYieldsLiterals(t *testing.T) {
	m := NewMatcher()
	got := m.MatchActions([]string{"destroy", "", "  ", "hello"}, nil)
	assert.Equal(t, []string{"destroy", "hello"}, names(got))
	assert.ErrorIs(t, got[0].Invoke(), ErrInvocation)
}

func TestPartCacheEvicts(t *testing.T) {
	c := newPartCache(2)
	assert.Equal(t, []string{"moveby", "move", "by"}, c.forms("moveBy"))
	c.forms("destroy")
	c.forms("moveBy")
	c.forms("clone")
	assert.Equal(t, 2, c.len())
	_, ok := c.items["destroy"]
	assert.False(t, ok, "least recently used entry should be evicted")
}
